package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the scoring prompt. The CV text arrives already
// pre-formatted with section headers; the job text arrives scraped or pasted.
func (pb *PromptBuilder) BuildAnalysisPrompt(cvText, jobText string) string {
	return fmt.Sprintf(`Você é um avaliador ATS especialista em triagem de currículos.
Responda SEMPRE em JSON válido estrito, sem texto fora do objeto.
nota_final deve ser a soma exata das seis pontuações por categoria.
Todos os inteiros devem respeitar os limites por categoria.

Você receberá:
1) DESCRICAO_DA_VAGA (texto já extraído; se link falhou, o campo será curto)
2) CURRICULO (texto plano extraído do PDF/DOCX, com cabeçalhos de seção)

Objetivo: analisar e retornar APENAS JSON válido no schema abaixo, com nota final (0-100) = soma das 6 categorias.

Categorias e limites:
1) experiencia_alinhada (0-30)
2) competencias_tecnicas (0-25)
3) palavras_chave (0-15)
4) resultados_impacto (0-10)
5) formacao_certificacoes (0-10)
6) formatacao_ats (0-10)

Instruções:
- Extraia 10-20 keywords da vaga (hard/soft) em "palavras_chave_extraidas". Marque presentes/ausentes no CV.
- Para cada categoria, gere "pontuacao_local" e "evidencias" (bullets curtas e concretas do CV).
- Gere 2-4 "alertas" técnicos de alto impacto.
- Gere 3-5 "acoes_prioritarias" ({ "titulo", "como_fazer", "ganho_estimado_pontos" }).
- Gere 1-5 "frases_prontas" (bullets prontos de CV com verbos de ação e números quando possível).
- Detecte "perfil_detectado" ({ "cargos", "ferramentas", "dominios" }).
- Se a vaga veio por link e não foi possível extrair conteúdo útil, use "descricao_vaga_invalida": true, mas mantenha o schema.

DESCRICAO_DA_VAGA (texto):
%s

CURRICULO (texto):
%s

Responda APENAS com JSON no formato:
{
  "nota_final": <int 0-100>,
  "descricao_vaga_invalida": true|false,
  "alertas": ["..."],
  "categorias": {
    "experiencia_alinhada": { "pontuacao_local": <0-30>, "evidencias": ["..."] },
    "competencias_tecnicas": { "pontuacao_local": <0-25>, "faltantes": ["..."], "evidencias": ["..."] },
    "palavras_chave": { "pontuacao_local": <0-15>, "palavras_chave_extraidas": ["..."], "presentes": ["..."], "ausentes": ["..."] },
    "resultados_impacto": { "pontuacao_local": <0-10>, "evidencias": ["..."], "tem_metricas": true|false },
    "formacao_certificacoes": { "pontuacao_local": <0-10>, "evidencias": ["..."] },
    "formatacao_ats": { "pontuacao_local": <0-10>, "evidencias": ["..."], "riscos": ["..."] }
  },
  "acoes_prioritarias": [
    { "titulo": "...", "como_fazer": "...", "ganho_estimado_pontos": <int> }
  ],
  "frases_prontas": ["..."],
  "perfil_detectado": { "cargos": ["..."], "ferramentas": ["..."], "dominios": ["..."] }
}`, jobText, cvText)
}
