package services

import (
	"regexp"
	"strings"
)

// ParsedCV holds the best-effort section buckets plus the untouched full text.
// The buckets are only used to pre-format the prompt sent to the LLM; semantic
// validation always runs against FullText, never against the buckets.
type ParsedCV struct {
	Experiencias  []string
	Habilidades   []string
	Formacao      []string
	Certificacoes []string
	Outros        []string
	FullText      string
}

// SectionParser splits normalized résumé text into labeled buckets. Kept
// behind an interface so the keyword heuristic can be swapped without touching
// validation, which never depends on section boundaries.
type SectionParser interface {
	Parse(text string) *ParsedCV
}

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionExperiencias
	sectionHabilidades
	sectionFormacao
	sectionCertificacoes
)

type sectionTrigger struct {
	kind  sectionKind
	regex *regexp.Regexp
}

type keywordSectionParser struct {
	triggers []sectionTrigger
}

func NewSectionParser() SectionParser {
	return &keywordSectionParser{
		triggers: []sectionTrigger{
			{sectionExperiencias, regexp.MustCompile(`(?i)experiência|experiencia|experience|trabalho|profissional|histórico|historico|atuação|atuacao|carreira`)},
			{sectionHabilidades, regexp.MustCompile(`(?i)habilidades|competências|competencias|skills|conhecimentos|tecnologias|ferramentas`)},
			{sectionFormacao, regexp.MustCompile(`(?i)formação|formacao|educação|educacao|education|acadêmica|academica|graduação|graduacao|faculdade`)},
			{sectionCertificacoes, regexp.MustCompile(`(?i)certificações|certificacoes|certificados|cursos|treinamentos|qualificações|qualificacoes`)},
		},
	}
}

// Parse scans the text top to bottom keeping a current-section state and a
// line buffer; the buffer is flushed into the previous section's bucket
// whenever a different section keyword shows up. Lines seen before any section
// keyword land in Outros.
func (p *keywordSectionParser) Parse(text string) *ParsedCV {
	result := &ParsedCV{FullText: text}

	current := sectionNone
	var buffer []string

	flush := func() {
		if current == sectionNone || len(buffer) == 0 {
			return
		}
		joined := strings.Join(buffer, " ")
		switch current {
		case sectionExperiencias:
			result.Experiencias = append(result.Experiencias, joined)
		case sectionHabilidades:
			result.Habilidades = append(result.Habilidades, joined)
		case sectionFormacao:
			result.Formacao = append(result.Formacao, joined)
		case sectionCertificacoes:
			result.Certificacoes = append(result.Certificacoes, joined)
		}
		buffer = buffer[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		detected := sectionNone
		for _, trigger := range p.triggers {
			if trigger.regex.MatchString(trimmed) {
				detected = trigger.kind
				break
			}
		}

		switch {
		case detected != sectionNone && detected != current:
			flush()
			current = detected
			buffer = append(buffer, trimmed)
		case current != sectionNone:
			buffer = append(buffer, trimmed)
		default:
			result.Outros = append(result.Outros, trimmed)
		}
	}
	flush()

	return result
}

// FormatCVForLLM renders the parsed buckets with explicit section headers so
// the LLM receives a readable, pre-structured document.
func FormatCVForLLM(parsed *ParsedCV) string {
	var sections []string

	appendBucket := func(header string, lines []string) {
		if len(lines) == 0 {
			return
		}
		sections = append(sections, header)
		sections = append(sections, lines...)
		sections = append(sections, "")
	}

	appendBucket("=== EXPERIÊNCIAS PROFISSIONAIS ===", parsed.Experiencias)
	appendBucket("=== HABILIDADES TÉCNICAS ===", parsed.Habilidades)
	appendBucket("=== FORMAÇÃO ACADÊMICA ===", parsed.Formacao)
	appendBucket("=== CERTIFICAÇÕES E CURSOS ===", parsed.Certificacoes)

	if len(parsed.Outros) > 0 {
		sections = append(sections, "=== OUTRAS INFORMAÇÕES ===")
		sections = append(sections, parsed.Outros...)
	}

	return strings.TrimRight(strings.Join(sections, "\n"), "\n")
}
