// Package llm turns spoken-expense transcripts into raw parses with a Gemini model.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"github.com/fingenie-expense-tracker/internal/config"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

var (
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrEmptyResponse   = errors.New("empty response from model")
	ErrNoJSON          = errors.New("no JSON object in model reply")
	ErrInvalidJSON     = errors.New("model reply is not valid JSON")
)

// ContentGenerator is the slice of the genai client used here; *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.LLMConfig) (*genai.Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("LLM_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

type GeminiParser struct {
	models     ContentGenerator
	model      string
	timeout    time.Duration
	maxElapsed time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

func NewGeminiParser(models ContentGenerator, cfg *config.LLMConfig, logger *slog.Logger) *GeminiParser {
	return &GeminiParser{
		models:     models,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxElapsed: cfg.MaxElapsed,
		now:        time.Now,
		logger:     logger,
	}
}

// ParseTranscript asks the model for the transaction fields and returns its JSON object
// as is. Transport errors are retried with exponential backoff; a reply that is not a
// JSON object fails at once.
func (p *GeminiParser) ParseTranscript(ctx context.Context, transcript string) (transaction.Raw, error) {
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: BuildPrompt(p.now(), transcript)}},
		},
	}
	genCfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = p.maxElapsed

	var raw transaction.Raw
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		resp, err := p.models.GenerateContent(callCtx, p.model, contents, genCfg)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			p.logger.Warn("Model call failed", "attempt", attempt, "error", err)
			return fmt.Errorf("generate content: %w", err)
		}

		text := resp.Text()
		if text == "" {
			p.logger.Warn("Model returned empty reply", "attempt", attempt)
			return ErrEmptyResponse
		}

		parsed, err := decodeReply(text)
		if err != nil {
			p.logger.Warn("Model reply rejected", "error", err, "reply", text)
			return backoff.Permanent(err)
		}
		raw = parsed
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Transcript parsed by model", "model", p.model, "attempts", attempt)
	return raw, nil
}

func decodeReply(text string) (transaction.Raw, error) {
	clean := cleanModelJSON(text)
	if clean == "" {
		return nil, ErrNoJSON
	}
	var raw transaction.Raw
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return raw, nil
}
