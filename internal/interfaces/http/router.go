package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/application/worklog"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	CompanyUC   *usecase.CompanyUseCase
	CustomerUC  *billing.CustomerUseCase
	PropertyUC  *billing.PropertyUseCase
	WorklogUC   *worklog.UseCase
	Maintenance *worklog.MaintenanceUseCase
	AggregateUC *billing.AggregateUseCase
	LifecycleUC *billing.LifecycleUseCase
	QuickUC     *billing.QuickInvoiceUseCase
	PDFUC       *billing.PDFUseCase
	FinvoiceUC  *billing.FinvoiceUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
// Reparto por rol: field solo registra y consulta trabajos; office lleva
// maestros y facturación; admin además usuarios y mantenimiento.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	office := []string{entity.RoleAdmin, entity.RoleOffice}
	everyone := []string{entity.RoleAdmin, entity.RoleOffice, entity.RoleField}

	// Company profile (oficina)
	company := protected.Group("/company", RequireRole(office...))
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	company.Get("/", companyHandler.Get)
	company.Put("/", companyHandler.Update)

	// Customers (oficina)
	customers := protected.Group("/customers", RequireRole(office...))
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Contracted targets por tarea (campo también: lo usa la vista de trabajo)
	tasks := protected.Group("/tasks", RequireRole(everyone...))
	tasks.Get("/:id/targets", customerHandler.ListTargets)

	// Properties (oficina)
	properties := protected.Group("/properties", RequireRole(office...))
	propertyHandler := NewPropertyHandler(deps.PropertyUC)
	properties.Post("/", propertyHandler.Create)
	properties.Get("/", propertyHandler.List)
	properties.Get("/:id", propertyHandler.GetByID)
	properties.Put("/:id", propertyHandler.Update)
	properties.Delete("/:id", propertyHandler.Delete)

	// Work entries (campo y oficina)
	workEntryHandler := NewWorkEntryHandler(deps.WorklogUC, deps.Maintenance)
	workEntries := protected.Group("/work-entries", RequireRole(everyone...))
	workEntries.Post("/cleanup-ghosts", RequireRole(entity.RoleAdmin), workEntryHandler.CleanupGhosts)
	workEntries.Post("/reset-monthly-fees", RequireRole(entity.RoleAdmin), workEntryHandler.ResetMonthlyFees)
	workEntries.Post("/", workEntryHandler.Create)
	workEntries.Get("/", workEntryHandler.List)
	workEntries.Get("/:id", workEntryHandler.GetByID)
	workEntries.Patch("/:id", workEntryHandler.UpdateDescription)
	workEntries.Delete("/:id", RequireRole(office...), workEntryHandler.Delete)

	// Billing cycle (oficina)
	billingGroup := protected.Group("/billing", RequireRole(office...))
	billingHandler := NewBillingHandler(deps.AggregateUC, deps.LifecycleUC, deps.QuickUC)
	billingGroup.Post("/drafts", billingHandler.GenerateDrafts)
	billingGroup.Post("/approve", billingHandler.Approve)
	billingGroup.Post("/quick-invoice", billingHandler.QuickInvoice)
	billingGroup.Get("/due-date", billingHandler.DueDatePreview)

	// Invoice archive (oficina)
	invoices := protected.Group("/invoices", RequireRole(office...))
	invoiceHandler := NewInvoiceHandler(deps.LifecycleUC, deps.PDFUC, deps.FinvoiceUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/send", invoiceHandler.MarkSent)
	invoices.Post("/:id/pay", invoiceHandler.MarkPaid)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Post("/:id/credit-note", invoiceHandler.CreateCreditNote)
	invoices.Put("/:id/rows", invoiceHandler.UpdateRows)
	invoices.Delete("/:id", RequireRole(entity.RoleAdmin), invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:id/finvoice", invoiceHandler.DownloadFinvoice)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
}
