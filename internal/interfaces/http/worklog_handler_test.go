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

	"github.com/jhoicas/Facturacion-api/internal/application/worklog"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
)

// Stubs mínimos para ejercitar el mapeo de errores del handler. Solo se
// implementan los métodos que toca la validación del caso de uso.

type stubCompanyRepo struct{ profile *entity.CompanyProfile }

func (s *stubCompanyRepo) Get() (*entity.CompanyProfile, error)    { return s.profile, nil }
func (s *stubCompanyRepo) Update(*entity.CompanyProfile) error     { return nil }
func (s *stubCompanyRepo) AllocateInvoiceNumbers(int) (int, error) { return 0, nil }

type stubCustomerRepo struct{ customer *entity.Customer }

func (s *stubCustomerRepo) Create(*entity.Customer) error                 { return nil }
func (s *stubCustomerRepo) GetByID(string) (*entity.Customer, error)      { return s.customer, nil }
func (s *stubCustomerRepo) GetByName(string) (*entity.Customer, error)    { return nil, nil }
func (s *stubCustomerRepo) List(int, int) ([]*entity.Customer, error)     { return nil, nil }
func (s *stubCustomerRepo) ListByType(string) ([]*entity.Customer, error) { return nil, nil }
func (s *stubCustomerRepo) Update(*entity.Customer) error                 { return nil }
func (s *stubCustomerRepo) Delete(string) error                           { return nil }

// Un trabajo puntual (extra) sin importe no llega al registro: el caso de uso lo
// rechaza por campo ausente y el handler debe responder 400, no un 500.
func TestWorkEntryHandler_ExtraSinImporte_Retorna400(t *testing.T) {
	company := &stubCompanyRepo{profile: &entity.CompanyProfile{
		ID: "company-1",
		Tasks: []entity.TaskDefinition{
			{ID: "t-lisa", Label: "Lisätyö", Type: entity.TaskTypeExtra},
		},
	}}
	customer := &stubCustomerRepo{customer: &entity.Customer{
		ID: "c1", Name: "Yritys Oy", Type: entity.CustomerTypeBusiness,
	}}
	uc := worklog.NewUseCase(nil, customer, nil, company)
	h := apphttp.NewWorkEntryHandler(uc, nil)

	app := fiber.New()
	app.Post("/api/work-entries", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/work-entries",
		strings.NewReader(`{"task_id":"t-lisa","customer_id":"c1","date":"2025-03-05"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode,
		"importe ausente debe mapearse a 400")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "VALIDATION")
}
