package embedding

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/config"
)

// NewEmbedder builds the embedder for the configured provider. Anything
// that is not ollama/local goes through the OpenAI-compatible client, so
// OpenRouter and similar gateways work with a base URL override.
func NewEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ollama", "local":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama embedder: %w", err)
		}
		return embeddings.NewEmbedder(llm)
	default:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
			openai.WithEmbeddingModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("initializing openai embedder: %w", err)
		}
		return embeddings.NewEmbedder(llm)
	}
}
