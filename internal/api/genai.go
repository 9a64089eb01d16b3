package api

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/diogo/browseagent/internal/models"
)

// GenAIGenerator calls the Gemini API through the official SDK
type GenAIGenerator struct {
	client *genai.Client
}

// NewGenAIGenerator creates a generator bound to the Gemini Developer API
func NewGenAIGenerator(ctx context.Context, apiKey string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{client: client}, nil
}

// Generate issues one GenerateContent call with Google Search grounding
func (g *GenAIGenerator) Generate(ctx context.Context, model, prompt string) (*models.SearchResult, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), searchConfig())
	if err != nil {
		return nil, err
	}
	return mapGenAIResponse(resp), nil
}

func searchConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
}

// mapGenAIResponse extracts the text and the web grounding chunks of the
// first candidate. Chunks are left unfiltered.
func mapGenAIResponse(resp *genai.GenerateContentResponse) *models.SearchResult {
	result := &models.SearchResult{}
	if resp == nil {
		return result
	}
	result.Text = resp.Text()

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return result
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return result
	}
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		result.Sources = append(result.Sources, models.Source{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}
	return result
}
