// Package llm wraps text generation behind a narrow interface so that
// translators and the answering step tolerate running without a model.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/config"
)

// Generator is the only surface the pipeline needs from a language model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateWithSystem(ctx context.Context, system, prompt string) (string, error)
}

type Client struct {
	model llms.Model
}

// New builds a client for the configured provider. Returns nil (no
// error) when no model is configured at all, which callers treat as
// "run without a model".
func New(cfg *config.LLMConfig) (*Client, error) {
	if cfg.Model == "" {
		return nil, nil
	}

	switch strings.ToLower(cfg.Provider) {
	case "ollama", "local":
		model, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama: %w", err)
		}
		return &Client{model: model}, nil
	default:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("initializing openai: %w", err)
		}
		return &Client{model: model}, nil
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	})
}

func (c *Client) GenerateWithSystem(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: system}},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	})
}

func (c *Client) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	res, err := c.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return res.Choices[0].Content, nil
}
