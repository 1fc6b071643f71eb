package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"atsscore/ats-analyzer/internal/models"
)

// CVSource is the single entry shape for a résumé: either text pasted by the
// user or a reference to an uploaded file. Build it with CVText or CVFileRef;
// the pipeline matches on the tag exactly once, at the boundary.
type CVSource struct {
	text     string
	fileURL  string
	mimeType string
	isFile   bool
}

func CVText(text string) CVSource {
	return CVSource{text: text}
}

func CVFileRef(url, mimeType string) CVSource {
	return CVSource{fileURL: url, mimeType: mimeType, isFile: true}
}

// TextGenerator is the slice of the model client the pipeline depends on.
type TextGenerator interface {
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

// PipelineConfig carries the orchestration thresholds.
type PipelineConfig struct {
	// MinContentChars gates both inputs (compact characters) before any
	// model call is made.
	MinContentChars int
	// MaxCVChars and MaxJobChars bound what goes into the prompt.
	MaxCVChars  int
	MaxJobChars int
	MaxRetries  int
	Temperature float32
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MinContentChars: 50,
		MaxCVChars:      20000,
		MaxJobChars:     18000,
		MaxRetries:      3,
		Temperature:     0.2,
	}
}

// AnalysisOutput is the pipeline result: the repaired structured analysis plus
// the normalized CV text the caller persists.
type AnalysisOutput struct {
	Result           *models.AnalysisResult
	CVText           string
	JobText          string
	ExtractionMethod ExtractionMethod
}

// AnalysisPipeline runs the full flow: resolve the CV source, extract and
// normalize text, gate on minimum content, build the prompt, call the model,
// decode the draft, semantically validate it and repair the scores. Every
// request is served synchronously; nothing outlives the call.
type AnalysisPipeline interface {
	Analyze(ctx context.Context, source CVSource, jobDescription string) (*AnalysisOutput, error)
}

type analysisPipeline struct {
	cfg        PipelineConfig
	downloader DocumentDownloader
	extractor  DocumentExtractor
	parser     SectionParser
	scraper    JobScraper
	prompts    *PromptBuilder
	llm        TextGenerator
	validator  SemanticValidator
	repairer   ScoreRepairer
}

func NewAnalysisPipeline(
	cfg PipelineConfig,
	downloader DocumentDownloader,
	extractor DocumentExtractor,
	parser SectionParser,
	scraper JobScraper,
	prompts *PromptBuilder,
	llm TextGenerator,
	validator SemanticValidator,
	repairer ScoreRepairer,
) AnalysisPipeline {
	return &analysisPipeline{
		cfg:        cfg,
		downloader: downloader,
		extractor:  extractor,
		parser:     parser,
		scraper:    scraper,
		prompts:    prompts,
		llm:        llm,
		validator:  validator,
		repairer:   repairer,
	}
}

func (p *analysisPipeline) Analyze(ctx context.Context, source CVSource, jobDescription string) (*AnalysisOutput, error) {
	cvText, method, err := p.resolveCV(ctx, source)
	if err != nil {
		return nil, err
	}
	if CompactLen(cvText) < p.cfg.MinContentChars {
		return nil, errWithCode(CodeCVTextTooShort, fmt.Errorf("%d compact characters", CompactLen(cvText)))
	}

	jobText, jobInvalid, err := p.resolveJobDescription(ctx, jobDescription)
	if err != nil {
		return nil, err
	}

	parsed := p.parser.Parse(cvText)
	promptCV := Truncate(FormatCVForLLM(parsed), p.cfg.MaxCVChars)
	promptJob := Truncate(jobText, p.cfg.MaxJobChars)

	prompt := p.prompts.BuildAnalysisPrompt(promptCV, promptJob)

	log.Printf("🚀 Iniciando análise (cv=%d chars, vaga=%d chars, método=%s)\n",
		len(promptCV), len(promptJob), method)

	raw, err := p.llm.GenerateTextWithRetry(ctx, prompt, p.cfg.Temperature, p.cfg.MaxRetries)
	if err != nil {
		return nil, errWithCode(CodeLLMUnparseable, err)
	}

	draft, err := DecodeDraft(raw)
	if err != nil {
		return nil, err
	}
	if jobInvalid {
		draft.DescricaoVagaInvalida = true
	}

	result := p.repairer.Repair(p.validator.Validate(draft, cvText))

	log.Printf("✅ Análise concluída: nota %d/100\n", result.NotaFinal)

	return &AnalysisOutput{
		Result:           result,
		CVText:           cvText,
		JobText:          jobText,
		ExtractionMethod: method,
	}, nil
}

// resolveCV matches the source tag: pasted text is normalized directly, file
// references go through download plus the extraction chain.
func (p *analysisPipeline) resolveCV(ctx context.Context, source CVSource) (string, ExtractionMethod, error) {
	if !source.isFile {
		return NormalizeText(source.text), MethodPrimary, nil
	}

	data, err := p.downloader.Download(ctx, source.fileURL)
	if err != nil {
		return "", "", err
	}

	extraction, err := p.extractor.Extract(ctx, data, source.mimeType)
	if err != nil {
		return "", "", err
	}
	return extraction.Text, extraction.Method, nil
}

// resolveJobDescription accepts either pasted text or a job posting URL. A
// scrape failure is soft: the analysis continues and the result carries
// descricao_vaga_invalida. Pasted text below the minimum is a hard error.
func (p *analysisPipeline) resolveJobDescription(ctx context.Context, jobDescription string) (text string, invalid bool, err error) {
	if IsLikelyURL(jobDescription) {
		scraped, ok := p.scraper.Scrape(ctx, jobDescription)
		if ok && CompactLen(scraped) >= p.cfg.MinContentChars {
			return scraped, false, nil
		}
		log.Printf("⚠️  Não foi possível extrair a vaga do link, seguindo com descrição inválida\n")
		return strings.TrimSpace(jobDescription), true, nil
	}

	cleaned := CleanJobDescription(jobDescription)
	if CompactLen(cleaned) < p.cfg.MinContentChars {
		return "", false, errWithCode(CodeJobDescriptionTooShort, fmt.Errorf("%d compact characters", CompactLen(cleaned)))
	}
	return cleaned, false, nil
}
