package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	apphttp "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
)

// Aprobar sin borradores seleccionados es una transición inválida del ciclo de
// vida: debe responder 409 con su código, no un 500 genérico.
func TestBillingHandler_ApproveSinBorradores_Retorna409(t *testing.T) {
	lifecycle := billing.NewLifecycleUseCase(nil, nil, nil, nil, nil, nil)
	h := apphttp.NewBillingHandler(nil, lifecycle, nil)

	app := fiber.New()
	app.Post("/api/billing/approve", h.Approve)

	req := httptest.NewRequest(http.MethodPost, "/api/billing/approve",
		strings.NewReader(`{"invoice_date":"2025-03-31","drafts":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode,
		"lote vacío debe mapearse a 409")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TRANSITION")
}
