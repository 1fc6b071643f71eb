package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"atsscore/ats-analyzer/internal/models"
	"atsscore/ats-analyzer/internal/repositories"
	"atsscore/ats-analyzer/internal/services"
)

type AnalyzeHandler struct {
	diagRepo       repositories.DiagnosticRepository
	pipeline       services.AnalysisPipeline
	storedCVChars  int
	storedJobChars int
}

func NewAnalyzeHandler(
	diagRepo repositories.DiagnosticRepository,
	pipeline services.AnalysisPipeline,
	storedCVChars int,
	storedJobChars int,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		diagRepo:       diagRepo,
		pipeline:       pipeline,
		storedCVChars:  storedCVChars,
		storedJobChars: storedJobChars,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	email := services.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email is required",
		})
	}

	if req.JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	hasText := strings.TrimSpace(req.CVContent) != ""
	hasFile := strings.TrimSpace(req.CVFileURL) != ""
	if hasText == hasFile {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "exactly one of cv_content or cv_file_url must be set",
		})
	}

	source := services.CVText(req.CVContent)
	if hasFile {
		source = services.CVFileRef(req.CVFileURL, req.CVMimeType)
	}

	output, err := h.pipeline.Analyze(c.Context(), source, req.JobDescription)
	if err != nil {
		return analysisErrorResponse(c, err)
	}

	alertasTop2 := services.DeriveLegacyAlerts(output.Result)

	alertasJSON, err := json.Marshal(alertasTop2)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to serialize analysis",
		})
	}
	richJSON, err := json.Marshal(output.Result)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to serialize analysis",
		})
	}

	diagnostic := &models.Diagnostic{
		ID:             uuid.New(),
		Email:          email,
		CVContent:      services.Truncate(output.CVText, h.storedCVChars),
		JobDescription: services.Truncate(output.JobText, h.storedJobChars),
		NotaATS:        output.Result.NotaFinal,
		AlertasTop2:    string(alertasJSON),
		JSONResultRich: string(richJSON),
		Pago:           false,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.diagRepo.Create(diagnostic); err != nil {
		log.Printf("❌ Failed to persist diagnostic: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save diagnostic",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.AnalyzeResponse{
		ID:           diagnostic.ID.String(),
		NotaATS:      diagnostic.NotaATS,
		AlertasTop2:  alertasTop2,
		ResumoRapido: services.BuildResumoRapido(output.Result),
		CreatedAt:    diagnostic.CreatedAt.Format(time.RFC3339),
	})
}

// analysisErrorResponse maps pipeline failure codes onto HTTP statuses. Input
// problems are the client's to fix; upstream problems are retryable.
func analysisErrorResponse(c *fiber.Ctx, err error) error {
	var analysisErr *services.AnalysisError
	if !errors.As(err, &analysisErr) {
		log.Printf("❌ Analysis failed: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal error during analysis",
		})
	}

	status := fiber.StatusBadRequest
	switch analysisErr.Code {
	case services.CodeScannedDocSuspected, services.CodeExtractionFailed, services.CodeEncodingIssue:
		status = fiber.StatusUnprocessableEntity
	case services.CodeDownloadFailed, services.CodeLLMUnparseable:
		status = fiber.StatusBadGateway
	}

	payload := fiber.Map{
		"error": analysisErr.Hint,
		"code":  analysisErr.Code,
	}
	if analysisErr.SuspectedScanned {
		payload["suspeita_documento_escaneado"] = true
	}

	return c.Status(status).JSON(payload)
}
