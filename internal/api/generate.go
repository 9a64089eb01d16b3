package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/diogo/browseagent/internal/errors"
	"github.com/diogo/browseagent/internal/models"
)

// BrowseAndAnswer sends the task and optional context URL to the backend with
// search grounding enabled and returns the answer with its citations.
//
// Failures are translated: rate limits become a RateLimitError with a fixed
// message, unrecognized failures an UnknownError, anything else an
// UpstreamError carrying the original message. No partial result is returned
// on failure.
func (c *Client) BrowseAndAnswer(ctx context.Context, url, task string) (result *models.SearchResult, err error) {
	if strings.TrimSpace(task) == "" {
		return nil, apierrors.NewValidationError("task", apierrors.ErrEmptyTask)
	}

	model := c.GetModel()
	prompt := BuildPrompt(task, url)

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("generator panicked", zap.String("model", model), zap.Any("value", r))
			result, err = nil, apierrors.TranslateRecovered(r)
		}
	}()

	start := time.Now()
	raw, genErr := c.generator.Generate(ctx, model, prompt)
	elapsed := time.Since(start)

	if genErr != nil {
		c.logger.Warn("search request failed",
			zap.String("model", model),
			zap.Duration("elapsed", elapsed),
			zap.Error(genErr))
		return nil, apierrors.Translate(genErr)
	}
	if raw == nil {
		c.logger.Error("backend returned neither a result nor an error", zap.String("model", model))
		return nil, apierrors.NewUnknownError(fmt.Sprintf("nil result from %T", c.generator))
	}

	sources := models.FilterSources(raw.Sources)
	c.logger.Debug("search request completed",
		zap.String("model", model),
		zap.Duration("elapsed", elapsed),
		zap.Int("text_len", len(raw.Text)),
		zap.Int("chunks", len(raw.Sources)),
		zap.Int("sources", len(sources)))

	return &models.SearchResult{Text: raw.Text, Sources: sources}, nil
}
