package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"atsscore/ats-analyzer/internal/models"
)

// DecodeDraft turns the raw LLM payload into a typed draft. The collaborator
// is not guaranteed to emit only JSON, so the decoder strips markdown fences
// and falls back to the outermost balanced {...} block before giving up.
// Malformed sub-fields are coerced to safe zero values, never rejected: a
// partially-good draft is worth more than a strict parse error.
func DecodeDraft(raw string) (*models.AnalysisResult, error) {
	jsonStr, err := extractJSONObject(raw)
	if err != nil {
		return nil, errWithCode(CodeLLMUnparseable, err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, errWithCode(CodeLLMUnparseable, err)
	}

	return draftFromPayload(payload), nil
}

// extractJSONObject locates a parseable JSON object inside free-form model
// output: direct parse first, then the outermost balanced braces.
func extractJSONObject(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) && strings.HasPrefix(cleaned, "{") {
		return cleaned, nil
	}

	start := strings.Index(cleaned, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	for i := start; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := cleaned[start : i+1]
				if !json.Valid([]byte(candidate)) {
					return "", fmt.Errorf("balanced JSON block failed to parse")
				}
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("JSON object appears truncated")
}

func draftFromPayload(payload map[string]any) *models.AnalysisResult {
	result := &models.AnalysisResult{
		NotaFinal:             coerceInt(payload["nota_final"]),
		DescricaoVagaInvalida: coerceBool(payload["descricao_vaga_invalida"]),
		Alertas:               coerceStringSlice(payload["alertas"]),
		FrasesProntas:         coerceStringSlice(payload["frases_prontas"]),
	}

	categorias := coerceMap(payload["categorias"])
	result.Categorias = models.Categories{
		ExperienciaAlinhada:   categoryFromPayload(coerceMap(categorias["experiencia_alinhada"])),
		CompetenciasTecnicas:  categoryFromPayload(coerceMap(categorias["competencias_tecnicas"])),
		PalavrasChave:         categoryFromPayload(coerceMap(categorias["palavras_chave"])),
		ResultadosImpacto:     categoryFromPayload(coerceMap(categorias["resultados_impacto"])),
		FormacaoCertificacoes: categoryFromPayload(coerceMap(categorias["formacao_certificacoes"])),
		FormatacaoATS:         categoryFromPayload(coerceMap(categorias["formatacao_ats"])),
	}

	if actions, ok := payload["acoes_prioritarias"].([]any); ok {
		for _, item := range actions {
			action := coerceMap(item)
			result.AcoesPrioritarias = append(result.AcoesPrioritarias, models.PriorityAction{
				Titulo:              coerceString(action["titulo"]),
				ComoFazer:           coerceString(action["como_fazer"]),
				GanhoEstimadoPontos: coerceInt(action["ganho_estimado_pontos"]),
			})
		}
	}

	perfil := coerceMap(payload["perfil_detectado"])
	result.PerfilDetectado = models.DetectedProfile{
		Cargos:      coerceStringSlice(perfil["cargos"]),
		Ferramentas: coerceStringSlice(perfil["ferramentas"]),
		Dominios:    coerceStringSlice(perfil["dominios"]),
	}

	return result
}

func categoryFromPayload(payload map[string]any) models.CategoryScore {
	return models.CategoryScore{
		PontuacaoLocal:         coerceInt(payload["pontuacao_local"]),
		Evidencias:             coerceStringSlice(payload["evidencias"]),
		Faltantes:              coerceStringSlice(payload["faltantes"]),
		Presentes:              coerceStringSlice(payload["presentes"]),
		Ausentes:               coerceStringSlice(payload["ausentes"]),
		Riscos:                 coerceStringSlice(payload["riscos"]),
		PalavrasChaveExtraidas: coerceStringSlice(payload["palavras_chave_extraidas"]),
		TemMetricas:            coerceBool(payload["tem_metricas"]),
	}
}

func coerceMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return int(math.Round(val))
	case int:
		return val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return int(math.Round(f))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return int(math.Round(f))
	default:
		return 0
	}
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "sim" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func coerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
