package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCV = "João Silva\n" +
	"Eletricista Industrial\n" +
	"Experiência Profissional\n" +
	"Empresa X, manutenção de painéis, 2019-2023\n" +
	"Habilidades\n" +
	"AutoCAD, Excel, NR-10\n" +
	"Formação Acadêmica\n" +
	"Técnico em Eletrotécnica"

func TestParseBucketsLinesBySectionKeyword(t *testing.T) {
	parsed := NewSectionParser().Parse(sampleCV)

	require.Len(t, parsed.Experiencias, 1)
	assert.Contains(t, parsed.Experiencias[0], "Empresa X")

	require.Len(t, parsed.Habilidades, 1)
	assert.Contains(t, parsed.Habilidades[0], "AutoCAD")

	require.Len(t, parsed.Formacao, 1)
	assert.Contains(t, parsed.Formacao[0], "Eletrotécnica")
}

func TestParseKeepsPreambleInOutros(t *testing.T) {
	parsed := NewSectionParser().Parse(sampleCV)

	assert.Equal(t, []string{"João Silva", "Eletricista Industrial"}, parsed.Outros)
}

func TestParsePreservesFullText(t *testing.T) {
	parsed := NewSectionParser().Parse(sampleCV)
	assert.Equal(t, sampleCV, parsed.FullText)
}

func TestParseUnstructuredTextLandsInOutros(t *testing.T) {
	parsed := NewSectionParser().Parse("linha um\nlinha dois")

	assert.Empty(t, parsed.Experiencias)
	assert.Equal(t, []string{"linha um", "linha dois"}, parsed.Outros)
}

func TestFormatCVForLLMRendersHeaders(t *testing.T) {
	parsed := NewSectionParser().Parse(sampleCV)
	formatted := FormatCVForLLM(parsed)

	assert.Contains(t, formatted, "=== EXPERIÊNCIAS PROFISSIONAIS ===")
	assert.Contains(t, formatted, "=== HABILIDADES TÉCNICAS ===")
	assert.Contains(t, formatted, "=== FORMAÇÃO ACADÊMICA ===")
	assert.Contains(t, formatted, "=== OUTRAS INFORMAÇÕES ===")
	assert.NotContains(t, formatted, "=== CERTIFICAÇÕES E CURSOS ===")
}
