package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPresentExactSubstring(t *testing.T) {
	matcher := NewEquivalenceMatcher()

	result := matcher.IsPresent("AutoCAD", "Projetos desenvolvidos em AutoCAD 2022")
	assert.True(t, result.Found)
	assert.Equal(t, "AutoCAD", result.MatchedAs)
}

func TestIsPresentThroughEquivalenceGroup(t *testing.T) {
	matcher := NewEquivalenceMatcher()

	result := matcher.IsPresent("Pacote Office", "Conhecimento avançado em Excel e PowerPoint")
	assert.True(t, result.Found)
	assert.Equal(t, "excel", result.MatchedAs)
}

func TestIsPresentGroupWorksInBothDirections(t *testing.T) {
	matcher := NewEquivalenceMatcher()

	result := matcher.IsPresent("Excel", "domínio do pacote office")
	assert.True(t, result.Found)
	assert.Equal(t, "pacote office", result.MatchedAs)
}

func TestIsPresentFuzzyMultiWordOverlap(t *testing.T) {
	matcher := NewEquivalenceMatcher()

	result := matcher.IsPresent("gestão de equipes", "responsável pela gestão e supervisão de equipes de campo")
	assert.True(t, result.Found)
	assert.Equal(t, "gestão de equipes", result.MatchedAs)
}

func TestIsPresentAbsentTerm(t *testing.T) {
	matcher := NewEquivalenceMatcher()

	result := matcher.IsPresent("kubernetes", "experiência com manutenção industrial")
	assert.False(t, result.Found)
	assert.Empty(t, result.MatchedAs)
}

func TestTermPresentRequiresTwoSignificantWordsForFuzzy(t *testing.T) {
	// Single significant words never match fuzzily, only as substrings.
	assert.False(t, termPresent("excel", "planilhas avancadas e relatorios"))
	assert.True(t, termPresent("excel", "planilhas em excel"))
}
