package syllabus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractWeekSection(t *testing.T) {
	guide := "Course Guide CS-201\n1 Introduction to Data Structures\n• Complexity basics\n2 Arrays and Linked Lists\n3 Stacks\n10 Graphs\n11 Shortest paths"

	tests := []struct {
		name string
		text string
		week int
		want string
	}{
		{name: "first week stops at second", text: "1 Introduction to Data Structures\n2 Arrays and Linked Lists", week: 1, want: "Introduction to Data Structures"},
		{name: "bullets kept with section", text: guide, week: 1, want: "Introduction to Data Structures\n• Complexity basics"},
		{name: "middle week", text: guide, week: 2, want: "Arrays and Linked Lists"},
		{name: "week 1 does not match 10", text: "10 Graphs\n11 Paths", week: 1, want: ""},
		{name: "double digit week", text: guide, week: 10, want: "Graphs"},
		{name: "last heading runs to end", text: guide, week: 11, want: "Shortest paths"},
		{name: "missing week", text: guide, week: 7, want: ""},
		{name: "indented heading", text: "  4\tTrees\n  5 Heaps", week: 4, want: "Trees"},
		{name: "empty", text: "", week: 1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractWeekSection(tt.text, tt.week))
		})
	}
}

func TestStripPlaceholders(t *testing.T) {
	assert.Equal(t, "", StripPlaceholders("Week Topics (auto)  update later"))
	assert.Equal(t, "", StripPlaceholders("Week 3 topics (auto) — update later"))
	assert.Equal(t, "stacks", StripPlaceholders("Week 3 topics (auto) — update later\n\nStacks"))
	assert.Equal(t, "sorting and searching", StripPlaceholders("  Sorting\n and   Searching "))
	assert.Equal(t, "", StripPlaceholders("\x00\x01"))
}

func TestResolvePlanText(t *testing.T) {
	t.Run("weekly plan section", func(t *testing.T) {
		p := ResolvePlanText("1 Intro to Go\n2 Concurrency", "", 1)
		assert.Equal(t, "Intro to Go", p.Text)
		assert.Equal(t, SourceWeeklyPlanSection, p.Source)
		assert.Equal(t, ConfidenceAuthoritative, p.Confidence)
	})

	t.Run("weekly plan free text", func(t *testing.T) {
		p := ResolvePlanText("Goroutines and Channels", "1 ignored", 3)
		assert.Equal(t, "goroutines and channels", p.Text)
		assert.Equal(t, SourceWeeklyPlan, p.Source)
	})

	t.Run("placeholder falls back to guide section", func(t *testing.T) {
		p := ResolvePlanText("Week Topics (auto)", "2 Interfaces\n3 Generics", 2)
		assert.Equal(t, "Interfaces", p.Text)
		assert.Equal(t, SourceGuideSection, p.Source)
		assert.Equal(t, ConfidenceLegacyGuide, p.Confidence)
	})

	t.Run("guide free text", func(t *testing.T) {
		p := ResolvePlanText("", "Error handling idioms", 5)
		assert.Equal(t, "error handling idioms", p.Text)
		assert.Equal(t, SourceGuide, p.Source)
	})

	t.Run("nothing", func(t *testing.T) {
		p := ResolvePlanText("update later", "", 5)
		assert.True(t, p.Empty())
	})
}

func TestSplitGuide(t *testing.T) {
	blocks := SplitGuide("Intro\n\nArrays\nLists\n\n\n\nTrees", 4)
	assert.Equal(t, []string{"Intro", "Arrays\nLists", "Trees", ""}, blocks)

	assert.Len(t, SplitGuide("a\n\nb\n\nc", 2), 2)
	assert.Len(t, SplitGuide("", 0), MaxWeek)
}

func TestValidWeek(t *testing.T) {
	assert.True(t, ValidWeek(1))
	assert.True(t, ValidWeek(16))
	assert.False(t, ValidWeek(0))
	assert.False(t, ValidWeek(17))
}
