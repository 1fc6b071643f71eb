package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"atsscore/ats-analyzer/internal/models"
	"atsscore/ats-analyzer/internal/repositories"
	"atsscore/ats-analyzer/internal/services"
)

type DiagnosticHandler struct {
	diagRepo repositories.DiagnosticRepository
}

func NewDiagnosticHandler(diagRepo repositories.DiagnosticRepository) *DiagnosticHandler {
	return &DiagnosticHandler{
		diagRepo: diagRepo,
	}
}

// HandleGetDiagnostic handles GET /diagnostics/:id. The full analysis is only
// included once the diagnostic is paid; the free view carries the score and
// the top-2 alerts.
func (h *DiagnosticHandler) HandleGetDiagnostic(c *fiber.Ctx) error {
	idParam := c.Params("id")
	diagID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid diagnostic ID format",
		})
	}

	diagnostic, err := h.diagRepo.FindByID(diagID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Diagnostic not found",
		})
	}

	var alertasTop2 []models.LegacyAlert
	if diagnostic.AlertasTop2 != "" {
		if err := json.Unmarshal([]byte(diagnostic.AlertasTop2), &alertasTop2); err != nil {
			log.Printf("⚠️  Corrupted alertas_top2 on diagnostic %s: %v\n", diagID, err)
		}
	}

	response := models.DiagnosticResponse{
		ID:          diagnostic.ID.String(),
		NotaATS:     diagnostic.NotaATS,
		AlertasTop2: alertasTop2,
		Pago:        diagnostic.Pago,
		CreatedAt:   diagnostic.CreatedAt.Format(time.RFC3339),
	}

	if diagnostic.Pago && diagnostic.JSONResultRich != "" {
		var result models.AnalysisResult
		if err := json.Unmarshal([]byte(diagnostic.JSONResultRich), &result); err != nil {
			log.Printf("⚠️  Corrupted rich result on diagnostic %s: %v\n", diagID, err)
		} else {
			response.Resultado = &result
		}
	}

	return c.JSON(response)
}

// HandleListByEmail handles GET /diagnostics?email=. Only the free-tier view
// of each diagnostic is listed.
func (h *DiagnosticHandler) HandleListByEmail(c *fiber.Ctx) error {
	email := services.NormalizeEmail(c.Query("email"))
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email query parameter is required",
		})
	}

	diagnostics, err := h.diagRepo.FindByEmail(email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list diagnostics",
		})
	}

	responses := make([]models.DiagnosticResponse, 0, len(diagnostics))
	for _, diagnostic := range diagnostics {
		var alertasTop2 []models.LegacyAlert
		if diagnostic.AlertasTop2 != "" {
			if err := json.Unmarshal([]byte(diagnostic.AlertasTop2), &alertasTop2); err != nil {
				log.Printf("⚠️  Corrupted alertas_top2 on diagnostic %s: %v\n", diagnostic.ID, err)
			}
		}
		responses = append(responses, models.DiagnosticResponse{
			ID:          diagnostic.ID.String(),
			NotaATS:     diagnostic.NotaATS,
			AlertasTop2: alertasTop2,
			Pago:        diagnostic.Pago,
			CreatedAt:   diagnostic.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"diagnosticos": responses,
	})
}

// HandleConfirmPayment handles POST /diagnostics/:id/confirm-payment, flipping
// the paid flag so the retrieval endpoint starts returning the full analysis.
func (h *DiagnosticHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	idParam := c.Params("id")
	diagID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid diagnostic ID format",
		})
	}

	if err := h.diagRepo.MarkPaid(diagID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Diagnostic not found",
		})
	}

	return c.JSON(fiber.Map{
		"id":   diagID.String(),
		"pago": true,
	})
}
