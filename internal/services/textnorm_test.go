package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTextRejoinsHyphenatedLineBreaks(t *testing.T) {
	got := NormalizeText("desen-\nvolvimento de projetos")
	assert.Equal(t, "desenvolvimento de projetos", got)
}

func TestNormalizeTextAppliesCompatibilityComposition(t *testing.T) {
	got := NormalizeText("setor ﬁnanceiro")
	assert.Equal(t, "setor financeiro", got)
}

func TestNormalizeTextKeepsLineStructure(t *testing.T) {
	got := NormalizeText("Experiência\r\n\r\n  Empresa   X\t2020\n\n")
	assert.Equal(t, "Experiência\nEmpresa X 2020", got)
}

func TestNormalizeForMatchStripsAccentsAndPunctuation(t *testing.T) {
	got := NormalizeForMatch("Manutenção Elétrica!")
	assert.Equal(t, "manutencao eletrica", got)
}

func TestCompactLenIgnoresWhitespace(t *testing.T) {
	assert.Equal(t, 3, CompactLen(" a b\nc "))
	assert.Equal(t, 0, CompactLen(" \t\n"))
}

func TestTruncateBacksUpToWordBoundary(t *testing.T) {
	assert.Equal(t, "abcdefghi", Truncate("abcdefghi jklmno", 10))
}

func TestTruncateLeavesShortTextAlone(t *testing.T) {
	assert.Equal(t, "curto", Truncate("curto", 100))
}

func TestCleanJobDescriptionStripsURLs(t *testing.T) {
	got := CleanJobDescription("Vaga: https://example.com/x engenheiro  eletricista")
	assert.Equal(t, "Vaga: engenheiro eletricista", got)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}
