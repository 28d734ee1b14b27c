package syllabus

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"course-qa-be/pkg/utils"
)

const (
	MinWeek = 1
	MaxWeek = 16

	SourceWeeklyPlan        = "weekly_plans.planned_topics"
	SourceWeeklyPlanSection = "weekly_plans.planned_topics (week section extracted)"
	SourceGuide             = "courses.course_guide_text"
	SourceGuideSection      = "courses.course_guide_text (week section extracted)"

	ConfidenceAuthoritative = "authoritative"
	ConfidenceLegacyGuide   = "legacy_guide"
)

// Filler that gets auto-generated into empty weekly plans, e.g.
// "Week 3 topics (auto) — update later". Order matters.
var placeholderHints = []*regexp.Regexp{
	regexp.MustCompile(`week\s*\d*\s*topics\s*\(auto\)`),
	regexp.MustCompile(`topics\s*\(auto\)`),
	regexp.MustCompile(`week topics`),
	regexp.MustCompile(`update later`),
	regexp.MustCompile(`\(auto\)`),
	regexp.MustCompile(`[—–]`),
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	blankLineRe  = regexp.MustCompile(`\n\s*\n`)
)

func ValidWeek(week int) bool {
	return week >= MinWeek && week <= MaxWeek
}

// ExtractWeekSection returns the text that follows the line starting with the
// week number, up to the line starting with the next week number. Without a
// following heading the section runs to the end of the text.
func ExtractWeekSection(text string, week int) string {
	t := utils.CleanText(text)
	if t == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(t, "\r\n", "\n"), "\n")
	start := -1
	var first string
	for i, line := range lines {
		if rest, ok := weekHeading(line, week); ok {
			start, first = i, rest
			break
		}
	}
	if start < 0 {
		return ""
	}

	section := []string{first}
	for _, line := range lines[start+1:] {
		if _, ok := weekHeading(line, week+1); ok {
			break
		}
		section = append(section, line)
	}
	return strings.TrimSpace(strings.Join(section, "\n"))
}

// weekHeading reports whether line is "<week><whitespace>..." and returns the remainder.
func weekHeading(line string, week int) (string, bool) {
	s := strings.TrimLeftFunc(line, unicode.IsSpace)
	num := strconv.Itoa(week)
	if !strings.HasPrefix(s, num) {
		return "", false
	}
	rest := s[len(num):]
	if rest == "" {
		return "", true
	}
	if r := rune(rest[0]); r != ' ' && r != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// StripPlaceholders lowercases the text, removes placeholder hints and
// collapses whitespace.
func StripPlaceholders(text string) string {
	t := strings.ToLower(utils.CleanText(text))
	for _, h := range placeholderHints {
		t = h.ReplaceAllString(t, " ")
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(t, " "))
}

type PlanText struct {
	Text       string `json:"text"`
	Source     string `json:"plan_source"`
	Confidence string `json:"plan_confidence"`
}

func (p PlanText) Empty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// ResolvePlanText prefers the structured weekly plan and falls back to the
// course guide. The returned PlanText is empty when neither has usable text.
func ResolvePlanText(plannedTopics, guideText string, week int) PlanText {
	raw := utils.CleanText(plannedTopics)
	if section := ExtractWeekSection(raw, week); section != "" {
		return PlanText{Text: section, Source: SourceWeeklyPlanSection, Confidence: ConfidenceAuthoritative}
	}
	if stripped := StripPlaceholders(raw); stripped != "" {
		return PlanText{Text: stripped, Source: SourceWeeklyPlan, Confidence: ConfidenceAuthoritative}
	}

	guide := utils.CleanText(guideText)
	if section := ExtractWeekSection(guide, week); section != "" {
		return PlanText{Text: section, Source: SourceGuideSection, Confidence: ConfidenceLegacyGuide}
	}
	return PlanText{Text: StripPlaceholders(guide), Source: SourceGuide, Confidence: ConfidenceLegacyGuide}
}

// SplitGuide cuts a course guide into per-week blocks on blank lines, padded
// with empty strings or truncated to weeks entries.
func SplitGuide(guide string, weeks int) []string {
	if weeks <= 0 {
		weeks = MaxWeek
	}

	var blocks []string
	t := strings.ReplaceAll(utils.CleanText(guide), "\r\n", "\n")
	for _, b := range blankLineRe.Split(t, -1) {
		if b = strings.TrimSpace(b); b != "" {
			blocks = append(blocks, b)
		}
	}

	out := make([]string, weeks)
	copy(out, blocks)
	return out
}
