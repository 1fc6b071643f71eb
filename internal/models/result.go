package models

// Fixed per-category score ceilings. The six ceilings sum to 100, which is
// also the ceiling of NotaFinal.
const (
	MaxExperienciaAlinhada   = 30
	MaxCompetenciasTecnicas  = 25
	MaxPalavrasChave         = 15
	MaxResultadosImpacto     = 10
	MaxFormacaoCertificacoes = 10
	MaxFormatacaoATS         = 10

	MaxNotaFinal     = 100
	MaxGanhoEstimado = 30
)

// CategoryScore is one scored dimension of the analysis. Which list fields are
// populated depends on the category: competencias_tecnicas carries evidencias
// and faltantes, palavras_chave carries presentes/ausentes, formatacao_ats
// carries riscos.
type CategoryScore struct {
	PontuacaoLocal         int      `json:"pontuacao_local"`
	Evidencias             []string `json:"evidencias,omitempty"`
	Faltantes              []string `json:"faltantes,omitempty"`
	Presentes              []string `json:"presentes,omitempty"`
	Ausentes               []string `json:"ausentes,omitempty"`
	Riscos                 []string `json:"riscos,omitempty"`
	PalavrasChaveExtraidas []string `json:"palavras_chave_extraidas,omitempty"`
	TemMetricas            bool     `json:"tem_metricas,omitempty"`
}

// Categories holds the six fixed scoring categories.
type Categories struct {
	ExperienciaAlinhada   CategoryScore `json:"experiencia_alinhada"`
	CompetenciasTecnicas  CategoryScore `json:"competencias_tecnicas"`
	PalavrasChave         CategoryScore `json:"palavras_chave"`
	ResultadosImpacto     CategoryScore `json:"resultados_impacto"`
	FormacaoCertificacoes CategoryScore `json:"formacao_certificacoes"`
	FormatacaoATS         CategoryScore `json:"formatacao_ats"`
}

type PriorityAction struct {
	Titulo              string `json:"titulo"`
	ComoFazer           string `json:"como_fazer"`
	GanhoEstimadoPontos int    `json:"ganho_estimado_pontos"`
}

type DetectedProfile struct {
	Cargos      []string `json:"cargos"`
	Ferramentas []string `json:"ferramentas"`
	Dominios    []string `json:"dominios"`
}

// AnalysisResult is the full structured analysis. It starts life as an
// untrusted LLM draft; the semantic validator and the score repairer mutate it
// before it ever leaves the pipeline. NotaFinal is always recomputed as the
// exact sum of the six category scores.
type AnalysisResult struct {
	NotaFinal             int              `json:"nota_final"`
	DescricaoVagaInvalida bool             `json:"descricao_vaga_invalida"`
	Alertas               []string         `json:"alertas"`
	Categorias            Categories       `json:"categorias"`
	AcoesPrioritarias     []PriorityAction `json:"acoes_prioritarias"`
	FrasesProntas         []string         `json:"frases_prontas"`
	PerfilDetectado       DetectedProfile  `json:"perfil_detectado"`
}

// LegacyAlert is the free-tier alert shape shown before payment.
type LegacyAlert struct {
	Tipo      string `json:"tipo"`
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
	Impacto   string `json:"impacto"`
	Sugestao  string `json:"sugestao"`
}
