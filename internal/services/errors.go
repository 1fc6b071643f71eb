package services

import "fmt"

// Machine-readable failure codes. Callers act on the code, never on the
// underlying error type.
const (
	CodeInvalidHeader          = "INVALID_HEADER"
	CodeFileTooSmall           = "FILE_TOO_SMALL"
	CodeUnsupportedFormat      = "UNSUPPORTED_FORMAT"
	CodeScannedDocSuspected    = "SCANNED_DOCUMENT_SUSPECTED"
	CodeExtractionFailed       = "EXTRACTION_FAILED"
	CodeEncodingIssue          = "ENCODING_ISSUE"
	CodeDownloadFailed         = "DOWNLOAD_FAILED"
	CodeJobDescriptionTooShort = "JOB_DESCRIPTION_TOO_SHORT"
	CodeCVTextTooShort         = "CV_TEXT_TOO_SHORT"
	CodeLLMUnparseable         = "LLM_RESPONSE_UNPARSEABLE"
)

// AnalysisError is the single error type that crosses the pipeline boundary.
// Every terminal failure carries a code plus a human hint with the remediation.
type AnalysisError struct {
	Code             string
	Hint             string
	SuspectedScanned bool
	Err              error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Hint, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Hint)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func newAnalysisError(code, hint string, err error) *AnalysisError {
	return &AnalysisError{Code: code, Hint: hint, Err: err}
}

var defaultHints = map[string]string{
	CodeInvalidHeader:          "O arquivo não parece ser um PDF/DOCX válido. Exporte novamente ou cole o texto manualmente.",
	CodeFileTooSmall:           "Arquivo muito pequeno ou corrompido. Envie o documento completo.",
	CodeUnsupportedFormat:      "Formato não suportado. Envie um PDF ou DOCX, ou cole o texto do currículo.",
	CodeScannedDocSuspected:    "Seu documento parece ser escaneado (somente imagens). Cole o texto manualmente ou exporte como PDF/A.",
	CodeExtractionFailed:       "Não foi possível extrair texto suficiente do documento. Tente exportar novamente ou cole o texto.",
	CodeEncodingIssue:          "O texto extraído veio ilegível (problema de codificação). Exporte o documento novamente.",
	CodeDownloadFailed:         "Não foi possível baixar o documento. Tente enviar o arquivo novamente.",
	CodeJobDescriptionTooShort: "Descrição da vaga muito curta. Cole a descrição completa (mínimo 50 caracteres).",
	CodeCVTextTooShort:         "Texto do currículo muito curto para análise (mínimo 50 caracteres).",
	CodeLLMUnparseable:         "A análise não pôde ser concluída. Tente novamente em alguns instantes.",
}

// errWithCode builds an AnalysisError using the canonical hint for the code.
func errWithCode(code string, err error) *AnalysisError {
	e := newAnalysisError(code, defaultHints[code], err)
	if code == CodeScannedDocSuspected {
		e.SuspectedScanned = true
	}
	return e
}
