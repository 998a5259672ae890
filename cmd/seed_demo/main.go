// seed_demo puebla una base vacía con datos de arranque: perfil de empresa con
// el catálogo de tareas, un usuario admin y un par de clientes de ejemplo.
//
// Uso: go run ./cmd/seed_demo
// Lee la configuración de la base desde las mismas variables de entorno que la API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	now := time.Now()

	// Perfil de empresa con el catálogo de tareas inicial.
	tasks := []entity.TaskDefinition{
		{ID: uuid.New().String(), Label: "Huolto", Type: entity.TaskTypeCheckbox, Color: "#2f9e44", ShowInWorkView: true},
		{ID: uuid.New().String(), Label: "Jätepunnitus", Type: entity.TaskTypeQuantity, Color: "#e8590c", ShowInWorkView: true},
		{ID: uuid.New().String(), Label: "Kuukausisopimus", Type: entity.TaskTypeFixedMonthly, Color: "#1971c2"},
		{ID: uuid.New().String(), Label: "Tuntityö", Type: entity.TaskTypeHourly, Color: "#5f3dc4", ShowInWorkView: true},
		{ID: uuid.New().String(), Label: "Lisätyö", Type: entity.TaskTypeExtra, Color: "#862e9c", ShowInWorkView: true},
		{ID: uuid.New().String(), Label: "Tarvikkeet", Type: entity.TaskTypeMaterial, Color: "#c92a2a"},
	}
	profile := &entity.CompanyProfile{
		ID:                uuid.New().String(),
		Name:              "Huoltopalvelu Demo Oy",
		BusinessID:        "1234567-8",
		Address:           "Huoltotie 1",
		Zip:               "00100",
		City:              "Helsinki",
		Email:             "laskutus@example.fi",
		IBAN:              "FI21 1234 5600 0007 85",
		BIC:               "NDEAFIHH",
		VATPercent:        decimal.NewFromFloat(25.5),
		NextInvoiceNumber: 1000,
		Tasks:             tasks,
		UpdatedAt:         now,
	}
	if err := seedProfile(ctx, pool, profile); err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar perfil: %v\n", err)
		os.Exit(1)
	}

	// Usuario admin inicial (cambiar la contraseña en el primer login).
	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hashear contraseña: %v\n", err)
		os.Exit(1)
	}
	userRepo := postgres.NewUserRepository(pool)
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        "admin@example.fi",
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(admin); err != nil {
		fmt.Fprintf(os.Stderr, "Crear admin: %v\n", err)
		os.Exit(1)
	}

	// Clientes de ejemplo: una cartera con propiedades y un particular.
	customerRepo := postgres.NewCustomerRepository(pool)
	propertyRepo := postgres.NewPropertyRepository(pool)

	portfolio := &entity.Customer{
		ID:          uuid.New().String(),
		Name:        "Isännöinti Esimerkki Oy",
		Type:        entity.CustomerTypePortfolio,
		BusinessID:  "7654321-1",
		Street:      "Isännöintikatu 2",
		Zip:         "00200",
		City:        "Helsinki",
		PaymentTerm: entity.PaymentTermNet14,
		GroupNames:  []string{"Keskusta", "Itä"},
		Contracts:   entity.ContractMap{tasks[0].ID: {Active: true, Price: decimal.NewFromInt(45)}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := customerRepo.Create(portfolio); err != nil {
		fmt.Fprintf(os.Stderr, "Crear cartera: %v\n", err)
		os.Exit(1)
	}
	property := &entity.Property{
		ID:         uuid.New().String(),
		CustomerID: portfolio.ID,
		Address:    "Esimerkkikatu 10",
		Group:      "Keskusta",
		CostCenter: "101",
		Contracts:  entity.ContractMap{tasks[2].ID: {Active: true, Price: decimal.NewFromInt(250)}},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := propertyRepo.Create(property); err != nil {
		fmt.Fprintf(os.Stderr, "Crear propiedad: %v\n", err)
		os.Exit(1)
	}

	private := &entity.Customer{
		ID:          uuid.New().String(),
		Name:        "Matti Meikäläinen",
		Type:        entity.CustomerTypePrivate,
		Street:      "Kotikatu 5",
		Zip:         "00300",
		City:        "Helsinki",
		PaymentTerm: entity.PaymentTermNet14,
		Contracts:   entity.ContractMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := customerRepo.Create(private); err != nil {
		fmt.Fprintf(os.Stderr, "Crear particular: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sembrado: perfil %q, admin %s, %d tareas, 2 clientes\n",
		profile.Name, admin.Email, len(tasks))
}

// seedProfile inserta la fila única del perfil. El repositorio no expone Create
// porque la API solo actualiza; la fila nace aquí, una sola vez.
func seedProfile(ctx context.Context, pool *pgxpool.Pool, profile *entity.CompanyProfile) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM company_profile`).Scan(&count); err != nil {
		return fmt.Errorf("contar perfiles: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("company_profile ya tiene datos, no se siembra dos veces")
	}
	tasks, err := json.Marshal(profile.Tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO company_profile (
			id, name, business_id, address, zip, city, phone, email, iban, bic,
			vat_percent, next_invoice_number, tasks, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		profile.ID, profile.Name, profile.BusinessID, profile.Address, profile.Zip,
		profile.City, profile.Phone, profile.Email, profile.IBAN, profile.BIC,
		profile.VATPercent, profile.NextInvoiceNumber, tasks, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar perfil: %w", err)
	}
	return nil
}
