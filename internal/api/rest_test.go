package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/browseagent/internal/errors"
	"github.com/diogo/browseagent/internal/models"
)

// fakeDoer records the last request and replies with a canned response
type fakeDoer struct {
	status int
	body   string
	err    error

	req     *http.Request
	reqBody []byte
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.req = req
	if req.Body != nil {
		f.reqBody, _ = io.ReadAll(req.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     http.Header{},
	}, nil
}

const groundedResponse = `{
  "candidates": [{
    "content": {"role": "model", "parts": [
      {"text": "thinking...", "thought": true},
      {"text": "The capital of France "},
      {"text": "is Paris."}
    ]},
    "groundingMetadata": {"groundingChunks": [
      {"web": {"uri": "https://en.wikipedia.org/wiki/France", "title": "France"}},
      {"retrievedContext": {"uri": "gs://bucket/doc"}},
      {"web": {"uri": "https://www.britannica.com/place/Paris", "title": "Paris"}}
    ]}
  }]
}`

func TestRESTGenerator_Generate(t *testing.T) {
	doer := &fakeDoer{status: http.StatusOK, body: groundedResponse}
	g := newRESTGenerator(doer, "secret", "")

	result, err := g.Generate(context.Background(), "gemini-2.5-flash", "hello")
	if err != nil {
		t.Fatalf("Generate() returned error: %v", err)
	}

	wantURL := models.EndpointBase + "/models/gemini-2.5-flash:generateContent"
	if doer.req.URL.String() != wantURL {
		t.Errorf("URL = %s, want %s", doer.req.URL.String(), wantURL)
	}
	if doer.req.Method != http.MethodPost {
		t.Errorf("Method = %s, want POST", doer.req.Method)
	}
	if doer.req.Header.Get("x-goog-api-key") != "secret" {
		t.Error("API key header not set")
	}
	if doer.req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", doer.req.Header.Get("Content-Type"))
	}

	if got := gjson.GetBytes(doer.reqBody, "contents.0.parts.0.text").String(); got != "hello" {
		t.Errorf("prompt in body = %q, want hello", got)
	}
	if !gjson.GetBytes(doer.reqBody, "tools.0.google_search").Exists() {
		t.Errorf("google_search tool missing from body: %s", doer.reqBody)
	}

	if result.Text != "The capital of France is Paris." {
		t.Errorf("Text = %q", result.Text)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("Sources = %+v, want 2 web chunks", result.Sources)
	}
	if result.Sources[1].Title != "Paris" {
		t.Errorf("Sources order not preserved: %+v", result.Sources)
	}
}

func TestRESTGenerator_BaseURLOverride(t *testing.T) {
	doer := &fakeDoer{status: http.StatusOK, body: `{"candidates":[]}`}
	g := newRESTGenerator(doer, "k", "http://localhost:9000/v1beta/")

	if _, err := g.Generate(context.Background(), "m", "p"); err != nil {
		t.Fatalf("Generate() returned error: %v", err)
	}
	if got := doer.req.URL.String(); got != "http://localhost:9000/v1beta/models/m:generateContent" {
		t.Errorf("URL = %s", got)
	}
}

func TestRESTGenerator_ErrorStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		rateLimit   bool
	}{
		{
			name:        "quota exceeded",
			status:      429,
			body:        `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`,
			wantMessage: apierrors.RateLimitMessage,
			rateLimit:   true,
		},
		{
			name:        "invalid key",
			status:      400,
			body:        `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`,
			wantMessage: "Error 400, Message: API key not valid., Status: INVALID_ARGUMENT",
		},
		{
			name:        "non json body",
			status:      503,
			body:        "upstream unavailable",
			wantMessage: "Error 503, Message: upstream unavailable, Status: Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newRESTGenerator(&fakeDoer{status: tt.status, body: tt.body}, "k", "")

			_, err := g.Generate(context.Background(), "m", "p")
			if err == nil {
				t.Fatal("expected error")
			}
			if apierrors.GetHTTPStatus(err) != tt.status {
				t.Errorf("GetHTTPStatus() = %d, want %d", apierrors.GetHTTPStatus(err), tt.status)
			}

			translated := apierrors.Translate(err)
			if translated.Error() != tt.wantMessage {
				t.Errorf("Translate().Error() = %q, want %q", translated.Error(), tt.wantMessage)
			}
			if apierrors.IsRateLimitError(translated) != tt.rateLimit {
				t.Errorf("IsRateLimitError() = %v, want %v", !tt.rateLimit, tt.rateLimit)
			}
		})
	}
}

func TestRESTGenerator_TransportError(t *testing.T) {
	boom := errors.New("connection reset by peer")
	g := newRESTGenerator(&fakeDoer{err: boom}, "k", "")

	_, err := g.Generate(context.Background(), "m", "p")
	if !errors.Is(err, boom) {
		t.Errorf("expected transport error to be returned, got %v", err)
	}
}

func TestBuildRequestBody(t *testing.T) {
	body, err := buildRequestBody(`say "hi"`)
	if err != nil {
		t.Fatalf("buildRequestBody() returned error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got := gjson.GetBytes(body, "contents.0.role").String(); got != "user" {
		t.Errorf("role = %q, want user", got)
	}
	if got := gjson.GetBytes(body, "contents.0.parts.0.text").String(); got != `say "hi"` {
		t.Errorf("text = %q", got)
	}
}

func TestParseGenerateResponse(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseGenerateResponse([]byte("<html>")); err == nil {
			t.Error("expected error for non-JSON body")
		}
	})

	t.Run("blocked prompt", func(t *testing.T) {
		_, err := parseGenerateResponse([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
		if err == nil || !strings.Contains(err.Error(), "SAFETY") {
			t.Errorf("expected block reason in error, got %v", err)
		}
	})

	t.Run("no grounding", func(t *testing.T) {
		result, err := parseGenerateResponse([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Text != "ok" || len(result.Sources) != 0 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("chunks keep empty fields for later filtering", func(t *testing.T) {
		result, err := parseGenerateResponse([]byte(`{"candidates":[{"groundingMetadata":{"groundingChunks":[{"web":{"uri":"u"}}]}}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Sources) != 1 || result.Sources[0] != (models.Source{URI: "u"}) {
			t.Errorf("Sources = %+v", result.Sources)
		}
	})
}
