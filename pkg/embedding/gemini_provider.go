package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiProvider struct {
	ApiKey  string
	Model   string
	BaseURL string
	client  *http.Client
}

func NewGeminiProvider(apiKey string, client *http.Client) *GeminiProvider {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &GeminiProvider{
		ApiKey:  apiKey,
		Model:   "text-embedding-004",
		BaseURL: geminiBaseURL,
		client:  client,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (p *GeminiProvider) ModelName() string {
	return p.Model
}

func (p *GeminiProvider) Embed(ctx context.Context, texts []string) (*BatchResponse, error) {
	if p.ApiKey == "" {
		return nil, &ProviderError{Provider: "gemini", Kind: ErrAuth, Body: "GOOGLE_GEMINI_API_KEY missing"}
	}
	if len(texts) == 0 {
		return &BatchResponse{Meta: Meta{Model: p.Model}}, nil
	}

	modelPath := "models/" + p.Model
	batch := geminiBatchRequest{Requests: make([]geminiEmbedRequest, len(texts))}
	for i, t := range trimAll(texts) {
		batch.Requests[i] = geminiEmbedRequest{
			Model:    modelPath,
			Content:  geminiContent{Parts: []geminiPart{{Text: t}}},
			TaskType: "SEMANTIC_SIMILARITY",
		}
	}

	endpoint := fmt.Sprintf("%s/%s:batchEmbedContents", p.BaseURL, modelPath)
	headers := map[string]string{"x-goog-api-key": p.ApiKey}

	start := time.Now()
	var res geminiBatchResponse
	if err := postJSON(ctx, p.client, "gemini", endpoint, headers, batch, &res); err != nil {
		return nil, err
	}
	latency := time.Since(start).Milliseconds()

	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		vectors[i] = e.Values
	}
	if err := checkVectors("gemini", vectors, len(texts)); err != nil {
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
