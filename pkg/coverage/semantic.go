package coverage

import (
	"context"
	"fmt"

	"course-qa-be/pkg/embedding"
)

const DefaultSemanticThreshold = 0.78

const (
	ReasonNoPlanPhrases     = "no_plan_phrases"
	ReasonNoDeliveredChunks = "no_delivered_chunks"
)

type SemanticOptions struct {
	Threshold      float64
	MaxPlanPhrases int
	MaxChunks      int
	ChunkChars     int
}

func DefaultSemanticOptions() SemanticOptions {
	return SemanticOptions{
		Threshold:      DefaultSemanticThreshold,
		MaxPlanPhrases: DefaultMaxPlanPhrases,
		MaxChunks:      DefaultMaxChunks,
		ChunkChars:     DefaultChunkChars,
	}
}

type PhraseScore struct {
	Phrase         string  `json:"phrase"`
	BestScore      float64 `json:"best_score"`
	BestChunkIndex int     `json:"best_chunk_index"`
}

type EmbedMeta struct {
	Plan      *embedding.Meta `json:"plan,omitempty"`
	Delivered *embedding.Meta `json:"delivered,omitempty"`
}

type SemanticAudit struct {
	Reason               string        `json:"reason,omitempty"`
	Threshold            float64       `json:"threshold"`
	PlanPhrases          []string      `json:"plan_phrases"`
	DeliveredChunksCount int           `json:"delivered_chunks_count"`
	TopScores            []PhraseScore `json:"top_scores,omitempty"`
	EmbedMeta            *EmbedMeta    `json:"embed_meta,omitempty"`
}

type SemanticResult struct {
	Coverage float64       `json:"coverage"`
	Matched  []string      `json:"matched"`
	Missing  []string      `json:"missing"`
	Audit    SemanticAudit `json:"audit"`

	// Chunks and their vectors, kept for persistence.
	Chunks       []string    `json:"-"`
	ChunkVectors [][]float32 `json:"-"`
}

type SemanticComparator struct {
	provider embedding.EmbeddingProvider
	opts     SemanticOptions
}

func NewSemanticComparator(provider embedding.EmbeddingProvider, opts SemanticOptions) *SemanticComparator {
	def := DefaultSemanticOptions()
	if opts.Threshold <= 0 {
		opts.Threshold = def.Threshold
	}
	if opts.MaxPlanPhrases <= 0 {
		opts.MaxPlanPhrases = def.MaxPlanPhrases
	}
	if opts.MaxChunks <= 0 {
		opts.MaxChunks = def.MaxChunks
	}
	if opts.ChunkChars <= 0 {
		opts.ChunkChars = def.ChunkChars
	}
	return &SemanticComparator{provider: provider, opts: opts}
}

func (c *SemanticComparator) Options() SemanticOptions {
	return c.opts
}

// Compare embeds plan phrases and delivered chunks in two batch calls and
// marks each phrase matched when its best chunk similarity reaches the
// threshold. Embedding failures are returned unchanged.
func (c *SemanticComparator) Compare(ctx context.Context, planText, deliveredText string) (*SemanticResult, error) {
	phrases := ExtractPlanPhrases(planText, c.opts.MaxPlanPhrases)
	chunks := ExtractDeliveredChunks(deliveredText, c.opts.MaxChunks, c.opts.ChunkChars)

	audit := SemanticAudit{
		Threshold:            c.opts.Threshold,
		PlanPhrases:          phrases,
		DeliveredChunksCount: len(chunks),
	}

	if len(phrases) == 0 {
		audit.Reason = ReasonNoPlanPhrases
		return &SemanticResult{Matched: []string{}, Missing: []string{}, Audit: audit}, nil
	}
	if len(chunks) == 0 {
		audit.Reason = ReasonNoDeliveredChunks
		return &SemanticResult{Matched: []string{}, Missing: phrases, Audit: audit}, nil
	}

	planEmb, err := c.provider.Embed(ctx, phrases)
	if err != nil {
		return nil, fmt.Errorf("embed plan phrases: %w", err)
	}
	if err := expectVectors(planEmb, len(phrases)); err != nil {
		return nil, err
	}

	chunkEmb, err := c.provider.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed delivered chunks: %w", err)
	}
	if err := expectVectors(chunkEmb, len(chunks)); err != nil {
		return nil, err
	}
	if err := expectSameDims(planEmb.Vectors, chunkEmb.Vectors); err != nil {
		return nil, err
	}

	res := &SemanticResult{
		Matched:      []string{},
		Missing:      []string{},
		Chunks:       chunks,
		ChunkVectors: chunkEmb.Vectors,
	}
	audit.TopScores = make([]PhraseScore, 0, len(phrases))

	for i, phrase := range phrases {
		best, bestIdx := -1.0, -1
		for j := range chunks {
			if s := Cosine(planEmb.Vectors[i], chunkEmb.Vectors[j]); s > best {
				best, bestIdx = s, j
			}
		}

		audit.TopScores = append(audit.TopScores, PhraseScore{
			Phrase:         phrase,
			BestScore:      round4(best),
			BestChunkIndex: bestIdx,
		})

		if best >= c.opts.Threshold {
			res.Matched = append(res.Matched, phrase)
		} else {
			res.Missing = append(res.Missing, phrase)
		}
	}

	res.Coverage = float64(len(res.Matched)) / float64(len(phrases))
	audit.EmbedMeta = &EmbedMeta{Plan: &planEmb.Meta, Delivered: &chunkEmb.Meta}
	res.Audit = audit
	return res, nil
}

func expectVectors(res *embedding.BatchResponse, want int) error {
	if res == nil || len(res.Vectors) != want {
		got := 0
		if res != nil {
			got = len(res.Vectors)
		}
		return &embedding.ProviderError{
			Provider: "comparator",
			Kind:     embedding.ErrMalformedResponse,
			Body:     fmt.Sprintf("expected %d vectors, got %d", want, got),
		}
	}
	return nil
}

// expectSameDims rejects batches whose vectors differ in length, as happens
// when vectors from two models are mixed.
func expectSameDims(batches ...[][]float32) error {
	dim := -1
	for _, vectors := range batches {
		for _, v := range vectors {
			if dim == -1 {
				dim = len(v)
			}
			if len(v) == 0 || len(v) != dim {
				return &embedding.ProviderError{
					Provider: "comparator",
					Kind:     embedding.ErrMalformedResponse,
					Body:     fmt.Sprintf("vector dimensions differ: %d and %d", dim, len(v)),
				}
			}
		}
	}
	return nil
}
