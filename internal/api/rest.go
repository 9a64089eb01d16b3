package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/browseagent/internal/errors"
	"github.com/diogo/browseagent/internal/models"
)

// maxErrorBody bounds how much of an error response is kept for diagnostics
const maxErrorBody = 4096

// httpDoer is the subset of tls_client.HttpClient used by the REST backend
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTGenerator posts generateContent requests directly to the REST API
type RESTGenerator struct {
	httpClient httpDoer
	apiKey     string
	baseURL    string
}

// NewRESTGenerator creates a REST generator on a browser-profile TLS client.
// The client has no timeout; requests are bounded only by their context.
func NewRESTGenerator(apiKey, baseURL string) (*RESTGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(0),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return newRESTGenerator(httpClient, apiKey, baseURL), nil
}

func newRESTGenerator(doer httpDoer, apiKey, baseURL string) *RESTGenerator {
	if baseURL == "" {
		baseURL = models.EndpointBase
	}
	return &RESTGenerator{
		httpClient: doer,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type restPart struct {
	Text string `json:"text"`
}

type restContent struct {
	Role  string     `json:"role"`
	Parts []restPart `json:"parts"`
}

type restTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type restRequest struct {
	Contents []restContent `json:"contents"`
	Tools    []restTool    `json:"tools"`
}

// buildRequestBody creates the JSON body for a grounded generateContent call
func buildRequestBody(prompt string) ([]byte, error) {
	return json.Marshal(restRequest{
		Contents: []restContent{{Role: "user", Parts: []restPart{{Text: prompt}}}},
		Tools:    []restTool{{}},
	})
}

// Generate issues one generateContent request
func (g *RESTGenerator) Generate(ctx context.Context, model, prompt string) (*models.SearchResult, error) {
	body, err := buildRequestBody(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := models.GenerateEndpoint(g.baseURL, model)
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, parseErrorResponse(resp.StatusCode, endpoint, errorBody)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseGenerateResponse(data)
}

// parseErrorResponse converts a Google API error body into an UpstreamError
func parseErrorResponse(statusCode int, endpoint string, body []byte) error {
	status := http.StatusText(statusCode)
	message := strings.TrimSpace(string(body))

	if gjson.ValidBytes(body) {
		e := gjson.GetBytes(body, "error")
		if e.Exists() {
			if code := e.Get("code").Int(); code != 0 {
				statusCode = int(code)
			}
			if s := e.Get("status").String(); s != "" {
				status = s
			}
			if m := e.Get("message").String(); m != "" {
				message = m
			}
		}
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return apierrors.NewAPIError(statusCode, status, endpoint, message)
}

// parseGenerateResponse maps the generateContent JSON into a SearchResult.
// Only the first candidate is read. Thought parts are skipped.
func parseGenerateResponse(body []byte) (*models.SearchResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid response format: not JSON")
	}
	root := gjson.ParseBytes(body)

	if reason := root.Get("promptFeedback.blockReason").String(); reason != "" && !root.Get("candidates.0").Exists() {
		return nil, fmt.Errorf("request blocked: %s", reason)
	}

	candidate := root.Get("candidates.0")
	result := &models.SearchResult{}

	var text strings.Builder
	candidate.Get("content.parts").ForEach(func(_, part gjson.Result) bool {
		if part.Get("thought").Bool() {
			return true
		}
		text.WriteString(part.Get("text").String())
		return true
	})
	result.Text = text.String()

	candidate.Get("groundingMetadata.groundingChunks").ForEach(func(_, chunk gjson.Result) bool {
		web := chunk.Get("web")
		if !web.Exists() {
			return true
		}
		result.Sources = append(result.Sources, models.Source{
			URI:   web.Get("uri").String(),
			Title: web.Get("title").String(),
		})
		return true
	})

	return result, nil
}
