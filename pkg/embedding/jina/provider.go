package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"course-qa-be/pkg/embedding"
)

type JinaProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaProvider(apiKey string, client *http.Client) *JinaProvider {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &JinaProvider{
		apiKey:  apiKey,
		baseURL: "https://api.jina.ai/v1/embeddings",
		model:   "jina-embeddings-v2-base-en",
		client:  client,
	}
}

// WithBaseURL points the provider at another endpoint (self-hosted gateway, tests).
func (p *JinaProvider) WithBaseURL(url string) *JinaProvider {
	p.baseURL = url
	return p
}

func (p *JinaProvider) ModelName() string {
	return p.model
}

func (p *JinaProvider) Embed(ctx context.Context, texts []string) (*embedding.BatchResponse, error) {
	if len(texts) == 0 {
		return &embedding.BatchResponse{Meta: embedding.Meta{Model: p.model}}, nil
	}

	jsonData, err := json.Marshal(embeddingRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &embedding.ProviderError{Provider: "jina", Kind: embedding.ErrTransient, Cause: err}
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	latency := time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, embedding.NewStatusError("jina", resp.StatusCode, bodyBytes)
	}

	var jinaResp embeddingResponse
	if err := json.Unmarshal(bodyBytes, &jinaResp); err != nil {
		return nil, &embedding.ProviderError{Provider: "jina", Kind: embedding.ErrMalformedResponse, Cause: err}
	}
	if jinaResp.Error != nil {
		return nil, &embedding.ProviderError{Provider: "jina", Kind: embedding.ErrBadRequest, Body: jinaResp.Error.Message}
	}
	if len(jinaResp.Data) != len(texts) {
		return nil, &embedding.ProviderError{
			Provider: "jina",
			Kind:     embedding.ErrMalformedResponse,
			Body:     fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(jinaResp.Data)),
		}
	}

	sort.SliceStable(jinaResp.Data, func(i, j int) bool { return jinaResp.Data[i].Index < jinaResp.Data[j].Index })
	vectors := make([][]float32, len(jinaResp.Data))
	hashes := make([]string, len(texts))
	for i, d := range jinaResp.Data {
		vectors[i] = d.Embedding
		hashes[i] = embedding.HashText(texts[i])
	}

	return &embedding.BatchResponse{
		Vectors: vectors,
		Meta: embedding.Meta{
			Model:     p.model,
			LatencyMs: latency,
			Hashes:    hashes,
		},
	}, nil
}
