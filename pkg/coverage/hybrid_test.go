package coverage

import (
	"context"
	"testing"

	"course-qa-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlend(t *testing.T) {
	w := Weights{Lexical: 0.35, Semantic: 0.65}
	assert.InDelta(t, 0.76, Blend(w, 0.5, 0.9), 1e-9)
	assert.InDelta(t, 0.35*0.2+0.65*0.4, Blend(w, 0.2, 0.4), 1e-4)
	assert.Equal(t, 1.0, Blend(Weights{Lexical: 1, Semantic: 1}, 1, 1))
	assert.Equal(t, 0.0, Blend(w, 0, 0))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusOnTrack, Status(80.0, DefaultOnTrackPercent))
	assert.Equal(t, StatusBehind, Status(79.99, DefaultOnTrackPercent))
	assert.Equal(t, StatusOnTrack, Status(100, DefaultOnTrackPercent))
	assert.Equal(t, StatusBehind, Status(0, DefaultOnTrackPercent))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 76.0, Percent(0.76))
	assert.Equal(t, 100.0, Percent(1.2))
	assert.Equal(t, 0.0, Percent(-0.1))
	assert.Equal(t, 66.67, Percent(0.6667))
}

func TestCompareWeek_EndToEnd(t *testing.T) {
	engine := NewEngine(NewSemanticComparator(constantProvider{}, DefaultSemanticOptions()), Weights{})

	res, err := engine.CompareWeek(context.Background(),
		"Introduction to Data Structures",
		"This week we covered arrays, linked lists, and basic data structures.")
	require.NoError(t, err)

	assert.Equal(t, ModeHybrid, res.Mode)
	assert.Equal(t, 1.0, res.LexicalCoverage)
	assert.Equal(t, 1.0, res.SemanticCoverage)
	assert.Greater(t, res.Score, 0.78)
	assert.Equal(t, []string{"Introduction to Data Structures"}, res.MatchedTerms)
	assert.Empty(t, res.MissingTerms)
	assert.Equal(t, []string{"Introduction to Data Structures"}, res.PlanTerms)
	assert.Equal(t, 0.35, res.Audit.LexicalWeight)
	require.NotNil(t, res.Audit.Semantic)
}

func TestCompareWeek_Weights(t *testing.T) {
	provider := &topicProvider{topics: []string{"array", "graph"}}
	engine := NewEngine(NewSemanticComparator(provider, DefaultSemanticOptions()), Weights{Lexical: 0.35, Semantic: 0.65})

	// lexical: "arrays and lists" matches verbatim, "graph coloring problems" does not
	// semantic: array chunk matches the first phrase only
	res, err := engine.CompareWeek(context.Background(),
		"Arrays and lists\nGraph coloring problems",
		"Arrays and lists were introduced.")
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.LexicalCoverage)
	assert.Equal(t, 0.5, res.SemanticCoverage)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Equal(t, []string{"Graph coloring problems"}, res.MissingTerms)
}

func TestCompareWeek_SemanticFailureReturnsLexical(t *testing.T) {
	provider := &topicProvider{err: &embedding.ProviderError{Provider: "stub", Kind: embedding.ErrTransient}}
	engine := NewEngine(NewSemanticComparator(provider, DefaultSemanticOptions()), Weights{})

	res, err := engine.CompareWeek(context.Background(),
		"Introduction to Data Structures\nGraph coloring problems",
		"basic data structures introduction")
	require.Error(t, err)
	assert.ErrorIs(t, err, embedding.ErrTransient)
	require.NotNil(t, res)

	assert.Equal(t, ModeLexicalOnly, res.Mode)
	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, []string{"Graph coloring problems"}, res.MissingTerms)
	assert.Contains(t, res.Audit.SemanticError, "embed plan phrases")
}

func TestLexicalOnly_NoCause(t *testing.T) {
	engine := NewEngine(NewSemanticComparator(constantProvider{}, DefaultSemanticOptions()), Weights{})
	res := engine.LexicalOnly("Heap sort algorithm", "heap sort algorithm demo", nil)
	assert.Equal(t, 1.0, res.Score)
	assert.Empty(t, res.Audit.SemanticError)
	assert.Equal(t, 100.0, res.Percent())
}

func TestCompareWeek_MatchedAndMissingAreDisjoint(t *testing.T) {
	tests := []struct {
		name      string
		provider  embedding.EmbeddingProvider
		plan      string
		delivered string
		matched   []string
		missing   []string
	}{
		{
			name:      "semantic matches what lexical misses",
			provider:  constantProvider{},
			plan:      "Machine Learning Basics\nGradient descent optimisation",
			delivered: "Intro to ML: we looked at models fitted from data.",
			matched:   []string{"Machine Learning Basics", "Gradient descent optimisation"},
			missing:   []string{},
		},
		{
			name:      "partial semantic match",
			provider:  &topicProvider{topics: []string{"array", "graph"}},
			plan:      "Arrays and lists\nGraph coloring problems",
			delivered: "Arrays and lists were introduced.",
			matched:   []string{"Arrays and lists"},
			missing:   []string{"Graph coloring problems"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(NewSemanticComparator(tt.provider, DefaultSemanticOptions()), Weights{})
			res, err := engine.CompareWeek(context.Background(), tt.plan, tt.delivered)
			require.NoError(t, err)

			assert.Equal(t, tt.matched, res.MatchedTerms)
			assert.Equal(t, tt.missing, res.MissingTerms)
			for _, m := range res.MatchedTerms {
				assert.NotContains(t, res.MissingTerms, m)
			}
			assert.Len(t, res.PlanTerms, len(res.MatchedTerms)+len(res.MissingTerms))
		})
	}
}
