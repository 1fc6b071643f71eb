package services

import (
	"strings"

	"atsscore/ats-analyzer/internal/models"
)

// ScoreRepairer enforces the numeric invariants the LLM cannot be trusted to
// respect. It is a total function: any syntactically valid draft comes out
// consistent, and repairing twice changes nothing.
type ScoreRepairer interface {
	Repair(draft *models.AnalysisResult) *models.AnalysisResult
}

type scoreRepairer struct{}

func NewScoreRepairer() ScoreRepairer {
	return &scoreRepairer{}
}

// Repair clamps every category score into its declared range, deduplicates
// every list field, clamps action gains, and forces nota_final to equal the
// exact sum of the six category scores, superseding whatever the draft said.
func (r *scoreRepairer) Repair(draft *models.AnalysisResult) *models.AnalysisResult {
	repairCategory(&draft.Categorias.ExperienciaAlinhada, models.MaxExperienciaAlinhada)
	repairCategory(&draft.Categorias.CompetenciasTecnicas, models.MaxCompetenciasTecnicas)
	repairCategory(&draft.Categorias.PalavrasChave, models.MaxPalavrasChave)
	repairCategory(&draft.Categorias.ResultadosImpacto, models.MaxResultadosImpacto)
	repairCategory(&draft.Categorias.FormacaoCertificacoes, models.MaxFormacaoCertificacoes)
	repairCategory(&draft.Categorias.FormatacaoATS, models.MaxFormatacaoATS)

	sum := draft.Categorias.ExperienciaAlinhada.PontuacaoLocal +
		draft.Categorias.CompetenciasTecnicas.PontuacaoLocal +
		draft.Categorias.PalavrasChave.PontuacaoLocal +
		draft.Categorias.ResultadosImpacto.PontuacaoLocal +
		draft.Categorias.FormacaoCertificacoes.PontuacaoLocal +
		draft.Categorias.FormatacaoATS.PontuacaoLocal
	draft.NotaFinal = clampInt(sum, 0, models.MaxNotaFinal)

	draft.Alertas = dedupeStrings(draft.Alertas)
	if draft.Alertas == nil {
		draft.Alertas = []string{}
	}
	draft.FrasesProntas = dedupeStrings(draft.FrasesProntas)
	if draft.FrasesProntas == nil {
		draft.FrasesProntas = []string{}
	}

	actions := draft.AcoesPrioritarias[:0]
	for _, action := range draft.AcoesPrioritarias {
		action.Titulo = strings.TrimSpace(action.Titulo)
		action.ComoFazer = strings.TrimSpace(action.ComoFazer)
		action.GanhoEstimadoPontos = clampInt(action.GanhoEstimadoPontos, 0, models.MaxGanhoEstimado)
		actions = append(actions, action)
	}
	draft.AcoesPrioritarias = actions
	if draft.AcoesPrioritarias == nil {
		draft.AcoesPrioritarias = []models.PriorityAction{}
	}

	draft.PerfilDetectado.Cargos = emptyIfNil(dedupeStrings(draft.PerfilDetectado.Cargos))
	draft.PerfilDetectado.Ferramentas = emptyIfNil(dedupeStrings(draft.PerfilDetectado.Ferramentas))
	draft.PerfilDetectado.Dominios = emptyIfNil(dedupeStrings(draft.PerfilDetectado.Dominios))

	return draft
}

func repairCategory(cat *models.CategoryScore, max int) {
	cat.PontuacaoLocal = clampInt(cat.PontuacaoLocal, 0, max)
	cat.Evidencias = dedupeStrings(cat.Evidencias)
	cat.Faltantes = dedupeStrings(cat.Faltantes)
	cat.Presentes = dedupeStrings(cat.Presentes)
	cat.Ausentes = dedupeStrings(cat.Ausentes)
	cat.Riscos = dedupeStrings(cat.Riscos)
	cat.PalavrasChaveExtraidas = dedupeStrings(cat.PalavrasChaveExtraidas)
}

func clampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// dedupeStrings drops blank entries and duplicates by trimmed value,
// preserving first-seen order.
func dedupeStrings(items []string) []string {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
