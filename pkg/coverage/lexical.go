package coverage

import "strings"

type LexicalResult struct {
	Coverage  float64  `json:"coverage"`
	Matched   []string `json:"matched"`
	Missing   []string `json:"missing"`
	PlanTerms []string `json:"plan_terms"`
}

// LexicalCompare matches plan phrases against delivered text without any
// remote call. A phrase matches when its normalized form occurs verbatim, or,
// for phrases with three or more keywords, when at least two thirds of those
// keywords occur as tokens in the delivered text.
func LexicalCompare(planText, deliveredText string, maxPhrases int) LexicalResult {
	phrases := ExtractPlanPhrases(planText, maxPhrases)
	res := LexicalResult{
		Matched:   []string{},
		Missing:   []string{},
		PlanTerms: phrases,
	}
	if len(phrases) == 0 {
		return res
	}

	delivered := Normalize(deliveredText)
	tokens := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(delivered, -1) {
		tokens[tok] = struct{}{}
	}

	for _, phrase := range phrases {
		if lexicalMatch(Normalize(phrase), delivered, tokens) {
			res.Matched = append(res.Matched, phrase)
		} else {
			res.Missing = append(res.Missing, phrase)
		}
	}
	res.Coverage = float64(len(res.Matched)) / float64(len(phrases))
	return res
}

func lexicalMatch(phrase, delivered string, tokens map[string]struct{}) bool {
	if phrase != "" && strings.Contains(delivered, phrase) {
		return true
	}

	kws := Keywords(phrase)
	if len(kws) < 3 {
		return false
	}
	found := 0
	for _, kw := range kws {
		if _, ok := tokens[kw]; ok {
			found++
		}
	}
	return found*3 >= len(kws)*2
}
