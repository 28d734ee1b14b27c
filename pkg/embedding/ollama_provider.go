package embedding

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"
)

// OllamaProvider implements EmbeddingProvider for local Ollama models (e.g., nomic-embed-text)
type OllamaProvider struct {
	BaseURL string
	Model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL string, model string, client *http.Client) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		client:  client,
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
}

func (p *OllamaProvider) ModelName() string {
	return p.Model
}

func (p *OllamaProvider) Embed(ctx context.Context, texts []string) (*BatchResponse, error) {
	if len(texts) == 0 {
		return &BatchResponse{Meta: Meta{Model: p.Model}}, nil
	}

	start := time.Now()
	var res ollamaEmbedResponse
	endpoint := fmt.Sprintf("%s/api/embed", p.BaseURL)
	if err := postJSON(ctx, p.client, "ollama", endpoint, nil, ollamaEmbedRequest{
		Model: p.Model,
		Input: trimAll(texts),
	}, &res); err != nil {
		return nil, err
	}
	latency := time.Since(start).Milliseconds()

	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		values := make([]float32, len(e))
		for j, v := range e {
			values[j] = float32(v)
		}
		vectors[i] = normalizeVector(values)
	}
	if err := checkVectors("ollama", vectors, len(texts)); err != nil {
		return nil, err
	}

	return &BatchResponse{
		Vectors: vectors,
		Meta: Meta{
			Model:     p.Model,
			LatencyMs: latency,
			Hashes:    hashAll(texts),
		},
	}, nil
}

// normalizeVector scales vec to unit length. Ollama models do not return
// normalised vectors, unlike the hosted providers.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
