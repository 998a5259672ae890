package worklog

import (
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// MaintenanceUseCase operaciones de limpieza del registro: huérfanos de
// clientes borrados y cuotas mensuales persistidas por error. No forman parte
// del flujo de facturación, se lanzan a mano desde la oficina.
type MaintenanceUseCase struct {
	entryRepo    repository.WorkEntryRepository
	customerRepo repository.CustomerRepository
}

// NewMaintenanceUseCase construye el caso de uso.
func NewMaintenanceUseCase(entryRepo repository.WorkEntryRepository, customerRepo repository.CustomerRepository) *MaintenanceUseCase {
	return &MaintenanceUseCase{entryRepo: entryRepo, customerRepo: customerRepo}
}

// CleanupGhostEntries borra registros sin facturar cuyo cliente ya no existe.
// Devuelve cuántos eliminó. Los facturados se conservan: el archivo manda.
func (uc *MaintenanceUseCase) CleanupGhostEntries() (int, error) {
	customers, err := uc.customerRepo.List(0, 0)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(customers))
	for _, c := range customers {
		known[c.ID] = true
	}

	notInvoiced := false
	entries, err := uc.entryRepo.List(repository.WorkEntryFilter{Invoiced: &notInvoiced})
	if err != nil {
		return 0, err
	}
	var ghosts []string
	for _, e := range entries {
		if !known[e.CustomerID] {
			ghosts = append(ghosts, e.ID)
		}
	}
	if len(ghosts) == 0 {
		return 0, nil
	}
	if err := uc.entryRepo.DeleteByIDs(ghosts); err != nil {
		return 0, err
	}
	return len(ghosts), nil
}

// ResetMonthlyFees borra cuotas mensuales del mes que quedaron persistidas sin
// factura (residuo de un borrado parcial antiguo). Las cuotas ligadas a una
// factura viva no se tocan.
func (uc *MaintenanceUseCase) ResetMonthlyFees(month string) (int, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, fmt.Errorf("%w: mes inválido %q", domain.ErrInvalidInput, month)
	}
	start := t.Format("2006-01-02")
	end := t.AddDate(0, 1, -1).Format("2006-01-02")

	notInvoiced := false
	var stale []string
	for _, origin := range []string{entity.OriginFixedFee, entity.OriginContractGenerated} {
		entries, err := uc.entryRepo.List(repository.WorkEntryFilter{
			FromDate: start,
			ToDate:   end,
			Origin:   origin,
			Invoiced: &notInvoiced,
		})
		if err != nil {
			return 0, err
		}
		for _, e := range entries {
			stale = append(stale, e.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := uc.entryRepo.DeleteByIDs(stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}
