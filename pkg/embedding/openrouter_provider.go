package embedding

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

const (
	defaultOpenRouterURL   = "https://openrouter.ai/api/v1/embeddings"
	defaultOpenRouterModel = "qwen/qwen3-embedding-4b"
)

// OpenRouterProvider talks to an OpenAI-compatible /embeddings endpoint.
type OpenRouterProvider struct {
	ApiKey   string
	Model    string
	Endpoint string
	Referer  string
	AppName  string
	client   *http.Client
}

func NewOpenRouterProvider(apiKey, model, referer, appName string, client *http.Client) *OpenRouterProvider {
	if model == "" {
		model = defaultOpenRouterModel
	}
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &OpenRouterProvider{
		ApiKey:   apiKey,
		Model:    model,
		Endpoint: defaultOpenRouterURL,
		Referer:  referer,
		AppName:  appName,
		client:   client,
	}
}

type openAIEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *OpenRouterProvider) ModelName() string {
	return p.Model
}

func (p *OpenRouterProvider) Embed(ctx context.Context, texts []string) (*BatchResponse, error) {
	if p.ApiKey == "" {
		return nil, &ProviderError{Provider: "openrouter", Kind: ErrAuth, Body: "OPENROUTER_API_KEY missing"}
	}
	if len(texts) == 0 {
		return &BatchResponse{Meta: Meta{Model: p.Model}}, nil
	}

	headers := map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", p.ApiKey),
	}
	if p.Referer != "" {
		headers["HTTP-Referer"] = p.Referer
	}
	if p.AppName != "" {
		headers["X-Title"] = p.AppName
	}

	start := time.Now()
	var res openAIEmbeddingResponse
	err := postJSON(ctx, p.client, "openrouter", p.Endpoint, headers, openAIEmbeddingRequest{
		Model: p.Model,
		Input: trimAll(texts),
	}, &res)
	if err != nil {
		return nil, err
	}
	latency := time.Since(start).Milliseconds()

	sort.SliceStable(res.Data, func(i, j int) bool { return res.Data[i].Index < res.Data[j].Index })
	vectors := make([][]float32, len(res.Data))
	for i, d := range res.Data {
		vectors[i] = d.Embedding
	}
	if err := checkVectors("openrouter", vectors, len(texts)); err != nil {
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
