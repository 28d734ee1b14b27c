package factory

import (
	"fmt"
	"net/http"
	"time"

	"course-qa-be/pkg/embedding"
	"course-qa-be/pkg/embedding/jina"
)

type Config struct {
	Provider string // "openrouter", "ollama", "jina" or "gemini"
	Timeout  time.Duration

	OpenRouterKey     string
	OpenRouterModel   string
	OpenRouterReferer string
	OpenRouterApp     string

	OllamaBaseURL string
	OllamaModel   string

	JinaKey   string
	GeminiKey string
}

// NewEmbeddingProvider builds the raw provider; decorators are applied by the caller.
func NewEmbeddingProvider(cfg Config) (embedding.EmbeddingProvider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	switch cfg.Provider {
	case "", "openrouter":
		return embedding.NewOpenRouterProvider(cfg.OpenRouterKey, cfg.OpenRouterModel, cfg.OpenRouterReferer, cfg.OpenRouterApp, client), nil
	case "ollama":
		return embedding.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel, client), nil
	case "jina":
		return jina.NewJinaProvider(cfg.JinaKey, client), nil
	case "gemini":
		return embedding.NewGeminiProvider(cfg.GeminiKey, client), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
