package services

import "strings"

// fuzzyWordOverlapRatio is the share of a multi-word term's words that must
// appear in the text for the term to count as present. Tuned empirically;
// false positives are preferred over unfairly penalizing a candidate.
const fuzzyWordOverlapRatio = 0.7

// minFuzzyWordLen excludes connective words ("de", "e", "em") from the
// overlap count.
const minFuzzyWordLen = 2

type equivalenceGroup struct {
	canonical string
	forms     []string
}

// equivalenceGroups holds each canonical concept and the surface forms accepted
// as interchangeable. Curated for the trade/technical vocabulary of the target
// corpus; correctness matters more than coverage here. Ordered so matching is
// deterministic.
var equivalenceGroups = []equivalenceGroup{
	{"pacote office", []string{"excel", "word", "powerpoint", "office 365", "ms office", "microsoft office", "outlook"}},
	{"autocad", []string{"autocad", "auto cad"}},
	{"canteiro de obras", []string{"execucao de obras", "execucao obras", "obra civil", "obra industrial", "canteiro", "construcao civil", "construção civil"}},
	{"subestacao", []string{"subestacao", "subestacoes", "substation", "subestações"}},
	{"manutencao", []string{"manutencao", "maintenance", "manutenção"}},
	{"climatizacao", []string{"climatizacao", "hvac", "ar condicionado", "climatização"}},
}

// MatchResult reports whether a term was located in the source text and, when
// it matched through an equivalence group, which surface form matched.
type MatchResult struct {
	Found     bool
	MatchedAs string
}

type EquivalenceMatcher interface {
	IsPresent(term, text string) MatchResult
}

type equivalenceMatcher struct {
	groups []equivalenceGroup
}

func NewEquivalenceMatcher() EquivalenceMatcher {
	return &equivalenceMatcher{groups: equivalenceGroups}
}

// IsPresent checks the literal term first, then retries through every surface
// form of the term's equivalence group.
func (m *equivalenceMatcher) IsPresent(term, text string) MatchResult {
	normalizedTerm := NormalizeForMatch(term)
	normalizedText := NormalizeForMatch(text)

	if termPresent(normalizedTerm, normalizedText) {
		return MatchResult{Found: true, MatchedAs: term}
	}

	for _, group := range m.groups {
		if !m.termInGroup(normalizedTerm, group) {
			continue
		}

		if termPresent(NormalizeForMatch(group.canonical), normalizedText) {
			return MatchResult{Found: true, MatchedAs: group.canonical}
		}
		for _, form := range group.forms {
			if termPresent(NormalizeForMatch(form), normalizedText) {
				return MatchResult{Found: true, MatchedAs: form}
			}
		}
	}

	return MatchResult{}
}

func (m *equivalenceMatcher) termInGroup(normalizedTerm string, group equivalenceGroup) bool {
	if normalizedTerm == NormalizeForMatch(group.canonical) {
		return true
	}
	for _, form := range group.forms {
		if NormalizeForMatch(form) == normalizedTerm {
			return true
		}
	}
	return false
}

// termPresent runs the exact substring check, then the fuzzy multi-word path:
// a composite term counts as present when at least 70% of its significant
// words occur anywhere in the text. Both arguments must already be normalized.
func termPresent(term, text string) bool {
	if term == "" {
		return false
	}

	if strings.Contains(text, term) {
		return true
	}

	var words []string
	for _, w := range strings.Fields(term) {
		if len(w) > minFuzzyWordLen {
			words = append(words, w)
		}
	}
	if len(words) < 2 {
		return false
	}

	found := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			found++
		}
	}
	return float64(found)/float64(len(words)) >= fuzzyWordOverlapRatio
}
