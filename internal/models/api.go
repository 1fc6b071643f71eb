package models

// AnalyzeRequest is the analyze endpoint payload. The CV arrives either as
// pre-extracted text (CVContent) or as a reference to an uploaded file
// (CVFileURL + CVMimeType); exactly one of the two must be set.
type AnalyzeRequest struct {
	Email          string `json:"email"`
	CVContent      string `json:"cv_content,omitempty"`
	CVFileURL      string `json:"cv_file_url,omitempty"`
	CVMimeType     string `json:"cv_mime_type,omitempty"`
	JobDescription string `json:"job_description"`
}

// AnalyzeResponse is the free-tier view returned right after the analysis.
type AnalyzeResponse struct {
	ID           string        `json:"id"`
	NotaATS      int           `json:"nota_ats"`
	AlertasTop2  []LegacyAlert `json:"alertas_top2"`
	ResumoRapido string        `json:"resumo_rapido"`
	CreatedAt    string        `json:"created_at"`
}

// DiagnosticResponse is returned by the retrieval endpoint. Resultado is only
// populated for paid diagnostics.
type DiagnosticResponse struct {
	ID          string          `json:"id"`
	NotaATS     int             `json:"nota_ats"`
	AlertasTop2 []LegacyAlert   `json:"alertas_top2"`
	Pago        bool            `json:"pago"`
	Resultado   *AnalysisResult `json:"resultado,omitempty"`
	CreatedAt   string          `json:"created_at"`
}
