package services

import (
	"fmt"
	"log"
	"math"
	"strings"

	"atsscore/ats-analyzer/internal/models"
)

// evidenceLossThreshold: when verified evidence shrinks by more than this
// share, the category score is reduced proportionally. Tuned empirically.
const evidenceLossThreshold = 0.3

// inconsistencyFaltantesMin / inconsistencyScoreMin: a draft that keeps a high
// technical score while listing this many missing competencies is internally
// inconsistent and gets a consumer-facing alert.
const (
	inconsistencyFaltantesMin = 5
	inconsistencyScoreMin     = 15
)

// SemanticValidator re-checks every present/absent claim the LLM made against
// the raw CV text and moves misclassified items between the two sets. It also
// corrects the affected sub-scores: the model's raw score is never final.
type SemanticValidator interface {
	Validate(draft *models.AnalysisResult, sourceText string) *models.AnalysisResult
}

type semanticValidator struct {
	matcher EquivalenceMatcher
}

func NewSemanticValidator(matcher EquivalenceMatcher) SemanticValidator {
	return &semanticValidator{matcher: matcher}
}

func (v *semanticValidator) Validate(draft *models.AnalysisResult, sourceText string) *models.AnalysisResult {
	v.validateTechnicalSkills(&draft.Categorias.CompetenciasTecnicas, sourceText)
	v.validateKeywords(&draft.Categorias.PalavrasChave, sourceText)
	v.addInconsistencyAlert(draft)

	draft.NotaFinal = draft.Categorias.ExperienciaAlinhada.PontuacaoLocal +
		draft.Categorias.CompetenciasTecnicas.PontuacaoLocal +
		draft.Categorias.PalavrasChave.PontuacaoLocal +
		draft.Categorias.ResultadosImpacto.PontuacaoLocal +
		draft.Categorias.FormacaoCertificacoes.PontuacaoLocal +
		draft.Categorias.FormatacaoATS.PontuacaoLocal

	return draft
}

// leadTerm reduces an evidence line to the claimed term: the text before the
// first colon or dash.
func leadTerm(evidence string) string {
	cut := strings.IndexAny(evidence, ":–-")
	if cut == -1 {
		return strings.TrimSpace(evidence)
	}
	return strings.TrimSpace(evidence[:cut])
}

func (v *semanticValidator) validateTechnicalSkills(cat *models.CategoryScore, sourceText string) {
	if len(cat.Evidencias) == 0 && len(cat.Faltantes) == 0 {
		return
	}

	originalCount := len(cat.Evidencias)
	validated := make([]string, 0, originalCount)
	faltantes := append([]string(nil), cat.Faltantes...)

	for _, evidence := range cat.Evidencias {
		term := leadTerm(evidence)
		result := v.matcher.IsPresent(term, sourceText)
		if result.Found {
			validated = append(validated, evidence)
			if idx := findContaining(faltantes, term); idx >= 0 {
				log.Printf("🔍 Removendo %q de faltantes (encontrado no CV como %q)\n", faltantes[idx], result.MatchedAs)
				faltantes = append(faltantes[:idx], faltantes[idx+1:]...)
			}
			continue
		}

		log.Printf("🔍 Evidência suspeita (não encontrada no CV): %q\n", term)
		if findContaining(faltantes, term) == -1 {
			faltantes = append(faltantes, term)
		}
	}

	// Reverse pass: items claimed missing that the CV actually contains move
	// back to the evidence list with a synthesized line.
	faltantesFinal := faltantes[:0]
	for _, missing := range faltantes {
		result := v.matcher.IsPresent(missing, sourceText)
		if !result.Found {
			faltantesFinal = append(faltantesFinal, missing)
			continue
		}
		log.Printf("🔍 Removendo faltante por equivalência: %q → encontrado como %q\n", missing, result.MatchedAs)
		if findContaining(validated, missing) == -1 {
			validated = append(validated, missing+": Encontrado no CV")
		}
	}

	cat.Evidencias = validated
	cat.Faltantes = faltantesFinal

	if originalCount == 0 {
		return
	}

	lost := 1 - float64(len(validated))/float64(originalCount)
	switch {
	case lost > evidenceLossThreshold:
		adjusted := int(math.Floor(float64(cat.PontuacaoLocal) * (1 - lost*0.5)))
		adjusted = clampInt(adjusted, 0, models.MaxCompetenciasTecnicas)
		log.Printf("🔍 Ajustando pontuação de competências técnicas: %d → %d\n", cat.PontuacaoLocal, adjusted)
		cat.PontuacaoLocal = adjusted
	case len(validated) > originalCount:
		gain := float64(len(validated)-originalCount) / float64(originalCount)
		adjusted := int(math.Floor(float64(cat.PontuacaoLocal) * (1 + gain*0.3)))
		adjusted = clampInt(adjusted, 0, models.MaxCompetenciasTecnicas)
		log.Printf("🔍 Aumentando pontuação de competências técnicas por equivalências: %d → %d\n", cat.PontuacaoLocal, adjusted)
		cat.PontuacaoLocal = adjusted
	}
}

func (v *semanticValidator) validateKeywords(cat *models.CategoryScore, sourceText string) {
	if len(cat.Presentes) == 0 && len(cat.Ausentes) == 0 {
		return
	}

	presentes := make([]string, 0, len(cat.Presentes))
	ausentes := append([]string(nil), cat.Ausentes...)

	for _, keyword := range cat.Presentes {
		result := v.matcher.IsPresent(keyword, sourceText)
		if result.Found {
			presentes = append(presentes, keyword)
			if idx := findEqual(ausentes, keyword); idx >= 0 {
				log.Printf("🔍 Removendo %q de ausentes (encontrado no CV)\n", ausentes[idx])
				ausentes = append(ausentes[:idx], ausentes[idx+1:]...)
			}
			continue
		}
		if findEqual(ausentes, keyword) == -1 {
			ausentes = append(ausentes, keyword)
		}
	}

	ausentesFinal := ausentes[:0]
	for _, keyword := range ausentes {
		result := v.matcher.IsPresent(keyword, sourceText)
		if !result.Found {
			ausentesFinal = append(ausentesFinal, keyword)
			continue
		}
		log.Printf("🔍 Palavra-chave corrigida: %q → encontrado como %q\n", keyword, result.MatchedAs)
		if findEqual(presentes, keyword) == -1 {
			presentes = append(presentes, keyword)
		}
	}

	cat.Presentes = presentes
	cat.Ausentes = ausentesFinal

	// When the draft says which keywords it extracted from the job, the
	// category score is just the matched ratio over the ceiling.
	if total := len(cat.PalavrasChaveExtraidas); total > 0 {
		ratio := float64(len(presentes)) / float64(total)
		cat.PontuacaoLocal = clampInt(int(math.Floor(ratio*models.MaxPalavrasChave)), 0, models.MaxPalavrasChave)
	}
}

func (v *semanticValidator) addInconsistencyAlert(draft *models.AnalysisResult) {
	cat := draft.Categorias.CompetenciasTecnicas
	if len(cat.Faltantes) <= inconsistencyFaltantesMin || cat.PontuacaoLocal <= inconsistencyScoreMin {
		return
	}
	for _, alert := range draft.Alertas {
		if strings.Contains(alert, "competências técnicas") {
			return
		}
	}
	alert := fmt.Sprintf(
		"⚠️ Detectadas %d competências técnicas ausentes no currículo. Adicionar essas tecnologias pode aumentar significativamente sua nota.",
		len(cat.Faltantes),
	)
	draft.Alertas = append([]string{alert}, draft.Alertas...)
}

// findContaining locates the first item whose normalized form contains the
// normalized term.
func findContaining(items []string, term string) int {
	normalizedTerm := NormalizeForMatch(term)
	if normalizedTerm == "" {
		return -1
	}
	for i, item := range items {
		if strings.Contains(NormalizeForMatch(item), normalizedTerm) {
			return i
		}
	}
	return -1
}

// findEqual locates the first item equal to the term after normalization.
func findEqual(items []string, term string) int {
	normalizedTerm := NormalizeForMatch(term)
	for i, item := range items {
		if NormalizeForMatch(item) == normalizedTerm {
			return i
		}
	}
	return -1
}
