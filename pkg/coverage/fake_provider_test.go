package coverage

import (
	"context"
	"strings"

	"course-qa-be/pkg/embedding"
)

// topicProvider embeds a text as a bag of known topics, one dimension each.
type topicProvider struct {
	topics []string
	calls  int
	sizes  []int
	err    error
	short  bool
}

func (p *topicProvider) Embed(_ context.Context, texts []string) (*embedding.BatchResponse, error) {
	p.calls++
	p.sizes = append(p.sizes, len(texts))
	if p.err != nil {
		return nil, p.err
	}

	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		lower := strings.ToLower(t)
		v := make([]float32, len(p.topics))
		for j, topic := range p.topics {
			if strings.Contains(lower, topic) {
				v[j] = 1
			}
		}
		vectors[i] = v
	}
	if p.short && len(vectors) > 0 {
		vectors = vectors[:len(vectors)-1]
	}
	return &embedding.BatchResponse{
		Vectors: vectors,
		Meta:    embedding.Meta{Model: "topic-stub", Hashes: make([]string, len(texts))},
	}, nil
}

// constantProvider maps every text to the same vector.
type constantProvider struct{}

func (constantProvider) Embed(_ context.Context, texts []string) (*embedding.BatchResponse, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.3, 0.4, 0.5}
	}
	return &embedding.BatchResponse{Vectors: vectors, Meta: embedding.Meta{Model: "constant"}}, nil
}

// mixedDimProvider answers the first call with 4-d vectors and later calls
// with 2-d vectors.
type mixedDimProvider struct {
	calls int
}

func (p *mixedDimProvider) Embed(_ context.Context, texts []string) (*embedding.BatchResponse, error) {
	p.calls++
	dim := 2
	if p.calls == 1 {
		dim = 4
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, dim)
		v[0] = 1
		vectors[i] = v
	}
	return &embedding.BatchResponse{Vectors: vectors}, nil
}
