package coverage

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"course-qa-be/pkg/utils"
)

const (
	DefaultMaxPlanPhrases = 30
	DefaultMaxChunks      = 60
	DefaultChunkChars     = 800

	minPhraseChars   = 6
	minPhraseKeyword = 2
	bulletChars      = "•·▪*- \t\r\n"
)

var (
	dashSlashRe    = regexp.MustCompile(`[-/]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	tokenRe        = regexp.MustCompile(`[a-z0-9]{2,}`)
	fallbackSplit  = regexp.MustCompile(`[.;:\n]+`)
	manyNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

// Generic English plus institutional noise that shows up in every syllabus header.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the a an and or to of in on for with at by from as
		is are was were be been it this that these those we you
		your our they their i he she them not can will may also
		into about over under between within during after before
		department faculty university islamabad air course guide schedule week
		chapter topics covered plan lecture lectures`) {
		stopwords[w] = struct{}{}
	}
}

func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

// Normalize lowercases, spells out "&", turns hyphens and slashes into spaces
// and collapses whitespace.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, "&", " and ")
	s = dashSlashRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Keywords returns the non-stopword, non-numeric tokens of an already
// normalized string.
func Keywords(normalized string) []string {
	var out []string
	for _, tok := range tokenRe.FindAllString(normalized, -1) {
		if IsStopword(tok) || isDigits(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func nontrivial(line string) bool {
	n := Normalize(line)
	if utf8.RuneCountInString(n) < minPhraseChars {
		return false
	}
	return len(Keywords(n)) >= minPhraseKeyword
}

// ExtractPlanPhrases picks the topic-like lines out of a week's plan text.
func ExtractPlanPhrases(planText string, maxPhrases int) []string {
	if maxPhrases <= 0 {
		maxPhrases = DefaultMaxPlanPhrases
	}

	var candidates []string
	for _, line := range strings.Split(strings.ReplaceAll(planText, "\r\n", "\n"), "\n") {
		line = strings.Trim(line, bulletChars)
		if nontrivial(line) {
			candidates = append(candidates, line)
		}
	}

	if len(candidates) == 0 {
		for _, part := range fallbackSplit.Split(Normalize(planText), -1) {
			if nontrivial(part) {
				candidates = append(candidates, part)
			}
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		key := Normalize(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(c))
		if len(out) >= maxPhrases {
			break
		}
	}
	return out
}

// ExtractDeliveredChunks packs paragraphs greedily into chunks of at most
// chunkChars runes. Paragraphs longer than chunkChars are sliced.
func ExtractDeliveredChunks(deliveredText string, maxChunks, chunkChars int) []string {
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}
	if chunkChars <= 0 {
		chunkChars = DefaultChunkChars
	}

	t := strings.TrimSpace(strings.ReplaceAll(deliveredText, "\r\n", "\n"))
	if t == "" {
		return []string{}
	}
	t = manyNewlinesRe.ReplaceAllString(t, "\n\n")

	var paras []string
	for _, p := range strings.Split(t, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) > chunkChars {
			paras = append(paras, utils.SplitText(p, chunkChars, 0, maxChunks)...)
			continue
		}
		paras = append(paras, p)
	}

	chunks := make([]string, 0, maxChunks)
	buf := ""
	bufLen := 0
	for _, p := range paras {
		pLen := utf8.RuneCountInString(p)
		if buf == "" {
			buf, bufLen = p, pLen
		} else if bufLen+pLen+2 <= chunkChars {
			buf = buf + "\n\n" + p
			bufLen += pLen + 2
		} else {
			chunks = append(chunks, buf)
			buf, bufLen = p, pLen
		}
		if len(chunks) >= maxChunks {
			break
		}
	}
	if buf != "" && len(chunks) < maxChunks {
		chunks = append(chunks, buf)
	}
	return chunks
}
