package api

import (
	"context"
	"testing"

	"google.golang.org/genai"

	"github.com/diogo/browseagent/internal/models"
)

func TestNewGenAIGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGenAIGenerator(context.Background(), ""); err == nil {
		t.Error("Expected error for empty API key")
	}
}

func TestSearchConfig_EnablesGoogleSearch(t *testing.T) {
	cfg := searchConfig()
	if len(cfg.Tools) != 1 || cfg.Tools[0].GoogleSearch == nil {
		t.Errorf("expected a single Google Search tool, got %+v", cfg.Tools)
	}
}

func TestMapGenAIResponse(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		result := mapGenAIResponse(nil)
		if result.Text != "" || len(result.Sources) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		result := mapGenAIResponse(&genai.GenerateContentResponse{})
		if result.Text != "" || len(result.Sources) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("text and grounding chunks", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Role:  "model",
						Parts: []*genai.Part{{Text: "Paris"}},
					},
					GroundingMetadata: &genai.GroundingMetadata{
						GroundingChunks: []*genai.GroundingChunk{
							{Web: &genai.GroundingChunkWeb{URI: "https://en.wikipedia.org/wiki/France", Title: "France"}},
							nil,
							{},
							{Web: &genai.GroundingChunkWeb{URI: "", Title: "no uri"}},
						},
					},
				},
			},
		}

		result := mapGenAIResponse(resp)
		if result.Text != "Paris" {
			t.Errorf("Text = %q, want Paris", result.Text)
		}

		want := []models.Source{
			{URI: "https://en.wikipedia.org/wiki/France", Title: "France"},
			{URI: "", Title: "no uri"},
		}
		if len(result.Sources) != len(want) {
			t.Fatalf("Sources = %+v, want %+v", result.Sources, want)
		}
		for i := range want {
			if result.Sources[i] != want[i] {
				t.Errorf("Sources[%d] = %+v, want %+v", i, result.Sources[i], want[i])
			}
		}
	})
}
