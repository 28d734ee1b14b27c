package coverage

import (
	"context"
	"math"
)

const (
	DefaultLexicalWeight  = 0.35
	DefaultSemanticWeight = 0.65
	DefaultOnTrackPercent = 80.0

	StatusOnTrack  = "on_track"
	StatusBehind   = "behind"
	StatusNoUpload = "no_upload"

	ModeHybrid      = "hybrid"
	ModeLexicalOnly = "lexical_only"
)

type Weights struct {
	Lexical  float64 `json:"lexical_weight"`
	Semantic float64 `json:"semantic_weight"`
}

type Audit struct {
	Mode              string         `json:"mode"`
	LexicalWeight     float64        `json:"lexical_weight"`
	SemanticWeight    float64        `json:"semantic_weight"`
	SemanticThreshold float64        `json:"semantic_threshold"`
	Semantic          *SemanticAudit `json:"semantic,omitempty"`
	SemanticError     string         `json:"semantic_error,omitempty"`
}

// Result is the coverage of one week's delivered material against its plan.
type Result struct {
	Score            float64  `json:"coverage_final"`
	LexicalCoverage  float64  `json:"coverage_lexical"`
	SemanticCoverage float64  `json:"coverage_semantic"`
	MissingTerms     []string `json:"missing_terms"`
	MatchedTerms     []string `json:"matched_terms"`
	PlanTerms        []string `json:"plan_terms"`
	Mode             string   `json:"mode"`
	Audit            Audit    `json:"audit"`

	Chunks       []string    `json:"-"`
	ChunkVectors [][]float32 `json:"-"`
}

func (r *Result) Percent() float64 {
	return Percent(r.Score)
}

type Engine struct {
	semantic *SemanticComparator
	weights  Weights
}

func NewEngine(semantic *SemanticComparator, weights Weights) *Engine {
	if weights.Lexical == 0 && weights.Semantic == 0 {
		weights = Weights{Lexical: DefaultLexicalWeight, Semantic: DefaultSemanticWeight}
	}
	return &Engine{semantic: semantic, weights: weights}
}

func (e *Engine) Weights() Weights {
	return e.weights
}

func (e *Engine) Options() SemanticOptions {
	return e.semantic.Options()
}

// CompareWeek blends lexical and semantic coverage. When the semantic pass
// fails the error is returned together with the lexical-only result so the
// caller can decide whether to degrade.
func (e *Engine) CompareWeek(ctx context.Context, planText, deliveredText string) (*Result, error) {
	opts := e.semantic.Options()
	lex := LexicalCompare(planText, deliveredText, opts.MaxPlanPhrases)

	sem, err := e.semantic.Compare(ctx, planText, deliveredText)
	if err != nil {
		return e.LexicalOnly(planText, deliveredText, err), err
	}

	final := Blend(e.weights, lex.Coverage, sem.Coverage)

	planTerms := sem.Audit.PlanPhrases
	if len(planTerms) == 0 {
		planTerms = lex.PlanTerms
	}
	missing := sem.Missing
	if len(missing) == 0 && sem.Audit.Reason != "" {
		missing = lex.Missing
	}
	semAudit := sem.Audit

	return &Result{
		Score:            final,
		LexicalCoverage:  round4(lex.Coverage),
		SemanticCoverage: round4(sem.Coverage),
		MissingTerms:     nonNil(missing),
		MatchedTerms:     without(planTerms, missing),
		PlanTerms:        nonNil(planTerms),
		Mode:             ModeHybrid,
		Audit: Audit{
			Mode:              ModeHybrid,
			LexicalWeight:     e.weights.Lexical,
			SemanticWeight:    e.weights.Semantic,
			SemanticThreshold: opts.Threshold,
			Semantic:          &semAudit,
		},
		Chunks:       sem.Chunks,
		ChunkVectors: sem.ChunkVectors,
	}, nil
}

// LexicalOnly scores on the lexical pass alone; cause is recorded in the audit.
func (e *Engine) LexicalOnly(planText, deliveredText string, cause error) *Result {
	opts := e.semantic.Options()
	lex := LexicalCompare(planText, deliveredText, opts.MaxPlanPhrases)

	audit := Audit{
		Mode:              ModeLexicalOnly,
		LexicalWeight:     e.weights.Lexical,
		SemanticWeight:    e.weights.Semantic,
		SemanticThreshold: opts.Threshold,
	}
	if cause != nil {
		audit.SemanticError = cause.Error()
	}

	return &Result{
		Score:           clamp01(round4(lex.Coverage)),
		LexicalCoverage: round4(lex.Coverage),
		MissingTerms:    nonNil(lex.Missing),
		MatchedTerms:    nonNil(lex.Matched),
		PlanTerms:       nonNil(lex.PlanTerms),
		Mode:            ModeLexicalOnly,
		Audit:           audit,
	}
}

// Blend is the weighted sum of both signals, rounded to 4 places and clamped to [0,1].
func Blend(w Weights, lexical, semantic float64) float64 {
	return clamp01(round4(w.Lexical*lexical + w.Semantic*semantic))
}

// Percent converts a score to a percentage in [0,100] with two decimals.
func Percent(score float64) float64 {
	p := math.Round(score*100*100) / 100
	return math.Max(0, math.Min(100, p))
}

func Status(percent, onTrackAt float64) string {
	if percent >= onTrackAt {
		return StatusOnTrack
	}
	return StatusBehind
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// without returns the terms not listed in drop, in their original order.
func without(terms, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := skip[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
