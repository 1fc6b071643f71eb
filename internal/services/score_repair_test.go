package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atsscore/ats-analyzer/internal/models"
)

func TestRepairClampsCategoryScores(t *testing.T) {
	draft := &models.AnalysisResult{
		Categorias: models.Categories{
			ExperienciaAlinhada:  models.CategoryScore{PontuacaoLocal: 45},
			CompetenciasTecnicas: models.CategoryScore{PontuacaoLocal: -3},
			PalavrasChave:        models.CategoryScore{PontuacaoLocal: 15},
		},
	}

	result := NewScoreRepairer().Repair(draft)

	assert.Equal(t, models.MaxExperienciaAlinhada, result.Categorias.ExperienciaAlinhada.PontuacaoLocal)
	assert.Equal(t, 0, result.Categorias.CompetenciasTecnicas.PontuacaoLocal)
	assert.Equal(t, 15, result.Categorias.PalavrasChave.PontuacaoLocal)
}

func TestRepairForcesNotaFinalToExactSum(t *testing.T) {
	draft := &models.AnalysisResult{
		NotaFinal: 99,
		Categorias: models.Categories{
			ExperienciaAlinhada:   models.CategoryScore{PontuacaoLocal: 20},
			CompetenciasTecnicas:  models.CategoryScore{PontuacaoLocal: 18},
			PalavrasChave:         models.CategoryScore{PontuacaoLocal: 9},
			ResultadosImpacto:     models.CategoryScore{PontuacaoLocal: 4},
			FormacaoCertificacoes: models.CategoryScore{PontuacaoLocal: 6},
			FormatacaoATS:         models.CategoryScore{PontuacaoLocal: 7},
		},
	}

	result := NewScoreRepairer().Repair(draft)
	assert.Equal(t, 64, result.NotaFinal)
}

func TestRepairDeduplicatesLists(t *testing.T) {
	draft := &models.AnalysisResult{
		Alertas: []string{"falta excel", " falta excel ", "", "sem métricas"},
		Categorias: models.Categories{
			CompetenciasTecnicas: models.CategoryScore{
				Faltantes: []string{"SAP", "SAP", "Excel"},
			},
		},
	}

	result := NewScoreRepairer().Repair(draft)

	assert.Equal(t, []string{"falta excel", "sem métricas"}, result.Alertas)
	assert.Equal(t, []string{"SAP", "Excel"}, result.Categorias.CompetenciasTecnicas.Faltantes)
}

func TestRepairClampsActionGains(t *testing.T) {
	draft := &models.AnalysisResult{
		AcoesPrioritarias: []models.PriorityAction{
			{Titulo: " Quantificar resultados ", GanhoEstimadoPontos: 50},
			{Titulo: "Revisar formatação", GanhoEstimadoPontos: -2},
		},
	}

	result := NewScoreRepairer().Repair(draft)

	require.Len(t, result.AcoesPrioritarias, 2)
	assert.Equal(t, "Quantificar resultados", result.AcoesPrioritarias[0].Titulo)
	assert.Equal(t, models.MaxGanhoEstimado, result.AcoesPrioritarias[0].GanhoEstimadoPontos)
	assert.Equal(t, 0, result.AcoesPrioritarias[1].GanhoEstimadoPontos)
}

func TestRepairReplacesNilListsWithEmpty(t *testing.T) {
	result := NewScoreRepairer().Repair(&models.AnalysisResult{})

	assert.NotNil(t, result.Alertas)
	assert.NotNil(t, result.FrasesProntas)
	assert.NotNil(t, result.AcoesPrioritarias)
	assert.NotNil(t, result.PerfilDetectado.Cargos)
	assert.NotNil(t, result.PerfilDetectado.Ferramentas)
	assert.NotNil(t, result.PerfilDetectado.Dominios)
}

func TestRepairIsIdempotent(t *testing.T) {
	repairer := NewScoreRepairer()

	draft := &models.AnalysisResult{
		NotaFinal: 120,
		Alertas:   []string{"a", "a", "b"},
		Categorias: models.Categories{
			ExperienciaAlinhada: models.CategoryScore{PontuacaoLocal: 31},
			PalavrasChave:       models.CategoryScore{PontuacaoLocal: 12},
		},
		AcoesPrioritarias: []models.PriorityAction{{Titulo: "x", GanhoEstimadoPontos: 99}},
	}

	once, err := json.Marshal(repairer.Repair(draft))
	require.NoError(t, err)
	twice, err := json.Marshal(repairer.Repair(draft))
	require.NoError(t, err)

	assert.JSONEq(t, string(once), string(twice))
}
