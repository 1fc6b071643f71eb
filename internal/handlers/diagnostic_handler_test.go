package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atsscore/ats-analyzer/internal/models"
)

func newDiagnosticApp(repo *fakeDiagnosticRepo) *fiber.App {
	app := fiber.New()
	handler := NewDiagnosticHandler(repo)
	app.Get("/diagnostics", handler.HandleListByEmail)
	app.Get("/diagnostics/:id", handler.HandleGetDiagnostic)
	app.Post("/diagnostics/:id/confirm-payment", handler.HandleConfirmPayment)
	return app
}

func seedDiagnostic(t *testing.T, repo *fakeDiagnosticRepo, pago bool) *models.Diagnostic {
	t.Helper()

	richJSON, err := json.Marshal(&models.AnalysisResult{NotaFinal: 71})
	require.NoError(t, err)
	alertasJSON, err := json.Marshal([]models.LegacyAlert{{Tipo: "critico", Titulo: "Faltam métricas"}})
	require.NoError(t, err)

	diagnostic := &models.Diagnostic{
		ID:             uuid.New(),
		Email:          "ana@example.com",
		NotaATS:        71,
		AlertasTop2:    string(alertasJSON),
		JSONResultRich: string(richJSON),
		Pago:           pago,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, repo.Create(diagnostic))
	return diagnostic
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestHandleGetDiagnosticHidesRichResultUntilPaid(t *testing.T) {
	repo := newFakeDiagnosticRepo()
	diagnostic := seedDiagnostic(t, repo, false)
	app := newDiagnosticApp(repo)

	status, body := getJSON(t, app, "/diagnostics/"+diagnostic.ID.String())

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(71), body["nota_ats"])
	assert.Equal(t, false, body["pago"])
	assert.NotContains(t, body, "resultado")
	require.Contains(t, body, "alertas_top2")
}

func TestHandleGetDiagnosticReturnsRichResultWhenPaid(t *testing.T) {
	repo := newFakeDiagnosticRepo()
	diagnostic := seedDiagnostic(t, repo, true)
	app := newDiagnosticApp(repo)

	status, body := getJSON(t, app, "/diagnostics/"+diagnostic.ID.String())

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["pago"])
	require.Contains(t, body, "resultado")
	resultado, ok := body["resultado"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(71), resultado["nota_final"])
}

func TestHandleGetDiagnosticUnknownID(t *testing.T) {
	app := newDiagnosticApp(newFakeDiagnosticRepo())

	status, _ := getJSON(t, app, "/diagnostics/"+uuid.NewString())
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleGetDiagnosticMalformedID(t *testing.T) {
	app := newDiagnosticApp(newFakeDiagnosticRepo())

	status, _ := getJSON(t, app, "/diagnostics/not-a-uuid")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleListByEmailReturnsFreeTierViews(t *testing.T) {
	repo := newFakeDiagnosticRepo()
	seedDiagnostic(t, repo, false)
	seedDiagnostic(t, repo, true)
	app := newDiagnosticApp(repo)

	status, body := getJSON(t, app, "/diagnostics?email=Ana%40Example.COM")

	require.Equal(t, fiber.StatusOK, status)
	list, ok := body["diagnosticos"].([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	first, ok := list[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(71), first["nota_ats"])
	assert.NotContains(t, first, "resultado")
}

func TestHandleListByEmailRequiresEmail(t *testing.T) {
	app := newDiagnosticApp(newFakeDiagnosticRepo())

	status, _ := getJSON(t, app, "/diagnostics")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleConfirmPaymentUnlocksRichResult(t *testing.T) {
	repo := newFakeDiagnosticRepo()
	diagnostic := seedDiagnostic(t, repo, false)
	app := newDiagnosticApp(repo)

	resp, err := app.Test(httptest.NewRequest("POST", "/diagnostics/"+diagnostic.ID.String()+"/confirm-payment", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, body := getJSON(t, app, "/diagnostics/"+diagnostic.ID.String())
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["pago"])
	assert.Contains(t, body, "resultado")
}
