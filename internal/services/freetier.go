package services

import (
	"fmt"

	"atsscore/ats-analyzer/internal/models"
)

// DeriveLegacyAlerts projects the rich analysis into the two free-tier alerts
// shown before payment. Priority actions come first because they carry a
// concrete gain; plain alerts fill the remaining slots.
func DeriveLegacyAlerts(result *models.AnalysisResult) []models.LegacyAlert {
	alerts := make([]models.LegacyAlert, 0, 2)

	for _, action := range result.AcoesPrioritarias {
		if len(alerts) == 2 {
			break
		}
		tipo := "melhoria"
		if action.GanhoEstimadoPontos >= 10 {
			tipo = "critico"
		}
		alerts = append(alerts, models.LegacyAlert{
			Tipo:      tipo,
			Titulo:    action.Titulo,
			Descricao: action.ComoFazer,
			Impacto:   fmt.Sprintf("Até +%d pontos na nota ATS", action.GanhoEstimadoPontos),
			Sugestao:  action.ComoFazer,
		})
	}

	for _, alert := range result.Alertas {
		if len(alerts) == 2 {
			break
		}
		alerts = append(alerts, models.LegacyAlert{
			Tipo:      "atencao",
			Titulo:    Truncate(alert, 80),
			Descricao: alert,
			Impacto:   "Pode reduzir sua taxa de aprovação em triagens automáticas",
			Sugestao:  "Revise o item apontado e atualize seu currículo.",
		})
	}

	return alerts
}

// BuildResumoRapido writes the one-line free-tier summary.
func BuildResumoRapido(result *models.AnalysisResult) string {
	var faixa string
	switch {
	case result.NotaFinal >= 80:
		faixa = "excelente compatibilidade com a vaga"
	case result.NotaFinal >= 60:
		faixa = "boa compatibilidade, com pontos a melhorar"
	case result.NotaFinal >= 40:
		faixa = "compatibilidade parcial com a vaga"
	default:
		faixa = "baixa compatibilidade com a vaga"
	}

	kw := result.Categorias.PalavrasChave
	if total := len(kw.PalavrasChaveExtraidas); total > 0 {
		return fmt.Sprintf("Sua nota ATS foi %d/100: %s. %d de %d palavras-chave da vaga foram encontradas no seu currículo.",
			result.NotaFinal, faixa, len(kw.Presentes), total)
	}
	return fmt.Sprintf("Sua nota ATS foi %d/100: %s.", result.NotaFinal, faixa)
}
