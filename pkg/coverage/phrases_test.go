package coverage

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "search and sort algorithms", Normalize("  Search & Sort\tAlgorithms "))
	assert.Equal(t, "client server model", Normalize("Client/Server-Model"))
	assert.Equal(t, "", Normalize(""))
}

func TestExtractPlanPhrases(t *testing.T) {
	tests := []struct {
		name string
		plan string
		max  int
		want []string
	}{
		{
			name: "bullets stripped and trivial lines dropped",
			plan: "• Linked Lists and Traversal\n- Week 3\n* Stack ADT operations\nLecture",
			max:  30,
			want: []string{"Linked Lists and Traversal", "Stack ADT operations"},
		},
		{
			name: "duplicates by normalized form",
			plan: "Hash Tables & Collisions\nhash tables and collisions\nBinary Search Trees",
			max:  30,
			want: []string{"Hash Tables & Collisions", "Binary Search Trees"},
		},
		{
			name: "stopword only and numeric lines rejected",
			plan: "the course plan for this week\n2024 2025 2026\nGraph traversal BFS",
			max:  30,
			want: []string{"Graph traversal BFS"},
		},
		{
			name: "cap applied",
			plan: "Sorting algorithms basics\nQueue data structure\nPriority heap queue",
			max:  2,
			want: []string{"Sorting algorithms basics", "Queue data structure"},
		},
		{
			name: "empty",
			plan: "",
			max:  30,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPlanPhrases(tt.plan, tt.max))
		})
	}
}

func TestExtractPlanPhrases_WindowsLineEndings(t *testing.T) {
	got := ExtractPlanPhrases("Recursion and memoization\r\nTail call optimisation\r\n", 30)
	assert.Equal(t, []string{"Recursion and memoization", "Tail call optimisation"}, got)
}

func TestExtractPlanPhrases_NeverStopwordOnly(t *testing.T) {
	plan := "the and of\nweek lecture topics covered\nfaculty department university\n12 34 56"
	for _, p := range ExtractPlanPhrases(plan, 30) {
		assert.GreaterOrEqual(t, len(Keywords(Normalize(p))), 2, p)
	}
}

func TestExtractDeliveredChunks(t *testing.T) {
	t.Run("packs paragraphs", func(t *testing.T) {
		text := "alpha paragraph\n\n\n\nbeta paragraph\n\ngamma paragraph"
		got := ExtractDeliveredChunks(text, 60, 40)
		assert.Equal(t, []string{"alpha paragraph\n\nbeta paragraph", "gamma paragraph"}, got)
	})

	t.Run("chunk size respected", func(t *testing.T) {
		var paras []string
		for i := 0; i < 50; i++ {
			paras = append(paras, strings.Repeat("x", 90))
		}
		got := ExtractDeliveredChunks(strings.Join(paras, "\n\n"), 60, 800)
		require.NotEmpty(t, got)
		for _, c := range got {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 800)
		}
	})

	t.Run("long paragraph sliced", func(t *testing.T) {
		got := ExtractDeliveredChunks(strings.Repeat("y", 2000), 60, 800)
		require.Len(t, got, 3)
		assert.Len(t, got[0], 800)
		assert.Len(t, got[2], 400)
	})

	t.Run("cap applied", func(t *testing.T) {
		got := ExtractDeliveredChunks(strings.Repeat("z", 10000), 4, 800)
		assert.Len(t, got, 4)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ExtractDeliveredChunks("  \n\n ", 60, 800))
	})
}

func TestExtraction_EmptyAndRepeatable(t *testing.T) {
	assert.Empty(t, ExtractPlanPhrases("", 30))
	assert.Empty(t, ExtractDeliveredChunks("", 60, 800))

	plan := "• Linked Lists and Traversal\nHash Tables & Collisions\nhash tables and collisions\r\nGraph traversal BFS"
	assert.Equal(t, ExtractPlanPhrases(plan, 2), ExtractPlanPhrases(plan, 2))
	assert.Equal(t, ExtractPlanPhrases(plan, 30), ExtractPlanPhrases(plan, 30))

	delivered := "alpha paragraph\n\nbeta paragraph\n\n" + strings.Repeat("z", 1500)
	assert.Equal(t, ExtractDeliveredChunks(delivered, 60, 800), ExtractDeliveredChunks(delivered, 60, 800))
	assert.Equal(t, ExtractDeliveredChunks(delivered, 1, 800), ExtractDeliveredChunks(delivered, 1, 800))
}
