package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DefaultVATPercent IVA general finlandés vigente, usado si el perfil no fija otro.
var DefaultVATPercent = decimal.NewFromFloat(25.5)

// AggregateUseCase produce los borradores de factura de un mes: registros de
// trabajo sin facturar más cuotas mensuales sintetizadas, agrupados por cliente
// (y por grupo y categoría para carteras). Es una lectura pura sobre una foto
// del mes: no persiste nada y se puede repetir sin consecuencias.
type AggregateUseCase struct {
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	propertyRepo repository.PropertyRepository
	entryRepo    repository.WorkEntryRepository
}

// NewAggregateUseCase construye el caso de uso.
func NewAggregateUseCase(
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	propertyRepo repository.PropertyRepository,
	entryRepo repository.WorkEntryRepository,
) *AggregateUseCase {
	return &AggregateUseCase{
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		propertyRepo: propertyRepo,
		entryRepo:    entryRepo,
	}
}

// GenerateDrafts agrega el mes (YYYY-MM). Devuelve ErrNothingToBill cuando no
// hay nada que facturar; es un resultado vacío informativo, no un fallo.
func (uc *AggregateUseCase) GenerateDrafts(ctx context.Context, month string) (*dto.GenerateDraftsResponse, error) {
	start, end, err := monthBounds(month)
	if err != nil {
		return nil, fmt.Errorf("%w: mes inválido %q", domain.ErrInvalidInput, month)
	}

	profile, err := uc.companyRepo.Get()
	if err != nil || profile == nil {
		return nil, domain.ErrNotFound
	}
	vat := profile.VATPercent
	if vat.IsZero() {
		vat = DefaultVATPercent
	}

	customers, err := uc.customerRepo.List(0, 0)
	if err != nil {
		return nil, err
	}
	properties, err := uc.propertyRepo.ListAll()
	if err != nil {
		return nil, err
	}

	notInvoiced := false
	unbilled, err := uc.entryRepo.List(repository.WorkEntryFilter{
		FromDate: start,
		ToDate:   end,
		Invoiced: &notInvoiced,
	})
	if err != nil {
		return nil, err
	}

	// Cuotas ya facturadas del mes: la aprobación persiste las sintéticas con
	// origen fixed_fee, así que escanear ese origen basta como marcador.
	billedFixed, err := uc.entryRepo.List(repository.WorkEntryFilter{
		FromDate: start,
		ToDate:   end,
		Origin:   entity.OriginFixedFee,
	})
	if err != nil {
		return nil, err
	}
	alreadyBilled := make(map[BilledKey]bool, len(billedFixed))
	for _, e := range billedFixed {
		alreadyBilled[BilledKey{CustomerID: e.CustomerID, PropertyID: e.PropertyID, TaskID: e.TaskID}] = true
	}

	synthetic := SynthesizeCharges(end, profile, customers, properties, alreadyBilled)

	entries := make([]*entity.WorkEntry, 0, len(unbilled)+len(synthetic))
	entries = append(entries, unbilled...)
	entries = append(entries, synthetic...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].TaskName < entries[j].TaskName
	})

	customersByID := make(map[string]*entity.Customer, len(customers))
	for _, c := range customers {
		customersByID[c.ID] = c
	}

	drafts := uc.bucketAndRender(entries, customersByID, vat)
	if len(drafts) == 0 {
		return nil, domain.ErrNothingToBill
	}
	return &dto.GenerateDraftsResponse{Month: month, Drafts: drafts}, nil
}

type bucketKey struct {
	customerID string
	group      string
	category   string
}

type draftBucket struct {
	customer *entity.Customer
	group    string
	category string
	entries  []*entity.WorkEntry
}

// bucketAndRender reparte los registros en cubos de factura y construye las
// líneas de cada uno. Carteras: un cubo por (cliente, grupo, categoría);
// empresas y particulares: un único cubo por cliente.
func (uc *AggregateUseCase) bucketAndRender(
	entries []*entity.WorkEntry,
	customersByID map[string]*entity.Customer,
	vat decimal.Decimal,
) []dto.InvoiceDraftDTO {
	buckets := make(map[bucketKey]*draftBucket)
	var order []bucketKey

	for _, e := range entries {
		customer := customersByID[e.CustomerID]
		if customer == nil {
			continue // cliente borrado con registros huérfanos; los limpia mantenimiento
		}
		key := bucketKey{customerID: e.CustomerID}
		if customer.Type == entity.CustomerTypePortfolio {
			key.group = e.Group
			key.category = domainbilling.CategoryFor(e.TaskType, e.Origin)
		}
		b, ok := buckets[key]
		if !ok {
			b = &draftBucket{customer: customer, group: key.group, category: key.category}
			buckets[key] = b
			order = append(order, key)
		}
		b.entries = append(b.entries, e)
	}

	drafts := make([]dto.InvoiceDraftDTO, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		draft := uc.renderBucket(b, vat)
		if len(draft.Rows) == 0 {
			continue
		}
		drafts = append(drafts, draft)
	}
	sort.SliceStable(drafts, func(i, j int) bool { return drafts[i].Title < drafts[j].Title })
	return drafts
}

// renderBucket convierte un cubo en un borrador: cabecera por propiedad,
// fusión de ocurrencias del mismo precio y tarea, y total bruto.
func (uc *AggregateUseCase) renderBucket(b *draftBucket, vat decimal.Decimal) dto.InvoiceDraftDTO {
	byProperty := make(map[string][]*entity.WorkEntry)
	var propOrder []string
	for _, e := range b.entries {
		if _, ok := byProperty[e.PropertyID]; !ok {
			propOrder = append(propOrder, e.PropertyID)
		}
		byProperty[e.PropertyID] = append(byProperty[e.PropertyID], e)
	}
	sort.SliceStable(propOrder, func(i, j int) bool {
		return propertyHeading(byProperty[propOrder[i]][0]) < propertyHeading(byProperty[propOrder[j]][0])
	})

	// Factura de particular con un solo destino: sin cabeceras, queda más corta.
	withHeaders := !(len(propOrder) == 1 && b.customer.Type == entity.CustomerTypePrivate)

	draft := dto.InvoiceDraftDTO{
		CustomerID:   b.customer.ID,
		CustomerName: b.customer.Name,
		Title:        draftTitle(b),
		Group:        b.group,
		Category:     b.category,
	}

	total := decimal.Zero
	for _, propID := range propOrder {
		group := byProperty[propID]
		if withHeaders && propID != "" {
			draft.Rows = append(draft.Rows, dto.InvoiceRowDTO{
				Header:      true,
				Description: propertyHeading(group[0]),
			})
		}
		rows, synthetics := renderChargeRows(group, vat)
		for _, r := range rows {
			total = total.Add(r.Total)
			draft.Rows = append(draft.Rows, r)
			draft.SourceEntryIDs = append(draft.SourceEntryIDs, r.EntryIDs...)
		}
		draft.SyntheticEntries = append(draft.SyntheticEntries, synthetics...)
	}

	// Un cubo que solo emitió cabeceras no es facturable.
	onlyHeaders := true
	for _, r := range draft.Rows {
		if !r.Header {
			onlyHeaders = false
			break
		}
	}
	if onlyHeaders {
		draft.Rows = nil
	}
	draft.GrossTotal = total
	return draft
}

// renderChargeRows líneas de cargo de un grupo de propiedad: las ocurrencias
// fusionables del mismo precio y tarea colapsan en una línea con cantidad y
// lista de fechas; extras, materiales y cuotas salen una a una con su fecha.
func renderChargeRows(group []*entity.WorkEntry, vat decimal.Decimal) ([]dto.InvoiceRowDTO, []dto.SyntheticEntryDTO) {
	type mergeAcc struct {
		taskID   string
		taskName string
		unit     decimal.Decimal
		qty      decimal.Decimal
		dates    []string
		ids      []string
	}
	merged := make(map[string]*mergeAcc)
	var mergeOrder []string
	var rows []dto.InvoiceRowDTO
	var synthetics []dto.SyntheticEntryDTO

	for _, e := range group {
		if domainbilling.Mergeable(e.TaskType, e.Origin) {
			mk := e.TaskID + "|" + e.PriceWork.String()
			acc, ok := merged[mk]
			if !ok {
				acc = &mergeAcc{taskID: e.TaskID, taskName: e.TaskName, unit: e.PriceWork}
				merged[mk] = acc
				mergeOrder = append(mergeOrder, mk)
			}
			qty := decimal.NewFromInt(1)
			if e.Quantity.IsPositive() {
				qty = e.Quantity
			}
			acc.qty = acc.qty.Add(qty)
			acc.dates = append(acc.dates, e.Date)
			acc.ids = append(acc.ids, e.ID)
			continue
		}

		// Línea singular: una por registro, con su fecha delante.
		net := e.PriceWork.Add(e.PriceMaterial)
		var details []string
		if e.Description != "" {
			details = append(details, e.Description)
		}
		if e.PriceMaterial.IsPositive() {
			details = append(details, fmt.Sprintf("Työ %s € / Tarvikkeet %s €",
				e.PriceWork.StringFixed(2), e.PriceMaterial.StringFixed(2)))
		}
		row := dto.InvoiceRowDTO{
			Description: dayMonth(e.Date) + " " + e.TaskName,
			Details:     strings.Join(details, "; "),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   net,
			Total:       grossUp(net, vat),
			TaskID:      e.TaskID,
		}
		if e.Synthetic() {
			synthetics = append(synthetics, dto.SyntheticEntryDTO{
				TaskID:          e.TaskID,
				TaskName:        e.TaskName,
				CustomerID:      e.CustomerID,
				CustomerName:    e.CustomerName,
				PropertyID:      e.PropertyID,
				PropertyAddress: e.PropertyAddress,
				Group:           e.Group,
				CostCenter:      e.CostCenter,
				Date:            e.Date,
				PriceWork:       e.PriceWork,
			})
		} else {
			row.EntryIDs = []string{e.ID}
		}
		rows = append(rows, row)
	}

	for _, mk := range mergeOrder {
		acc := merged[mk]
		net := acc.qty.Mul(acc.unit)
		rows = append(rows, dto.InvoiceRowDTO{
			Description: acc.taskName,
			Details:     fmt.Sprintf("%s x %s €", acc.qty.String(), acc.unit.StringFixed(2)),
			Dates:       dateList(acc.dates),
			Quantity:    acc.qty,
			UnitPrice:   acc.unit,
			Total:       grossUp(net, vat),
			TaskID:      acc.taskID,
			EntryIDs:    acc.ids,
		})
	}
	return rows, synthetics
}

// draftTitle nombre del cliente, con grupo y categoría para carteras.
func draftTitle(b *draftBucket) string {
	parts := []string{b.customer.Name}
	if b.group != "" {
		parts = append(parts, b.group)
	}
	if b.category != "" {
		parts = append(parts, b.category)
	}
	return strings.Join(parts, " / ")
}

// propertyHeading cabecera de grupo: "Kohde: KP 123 / Esimerkkikatu 1".
func propertyHeading(e *entity.WorkEntry) string {
	if e.PropertyAddress == "" {
		return ""
	}
	if e.CostCenter != "" {
		return "Kohde: KP " + e.CostCenter + " / " + e.PropertyAddress
	}
	return "Kohde: " + e.PropertyAddress
}

// grossUp neto -> bruto con el IVA configurado, redondeado a céntimos.
func grossUp(net, vatPercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(vatPercent.Div(decimal.NewFromInt(100)))
	return net.Mul(factor).Round(2)
}

// dayMonth "2025-03-02" -> "2.3."
func dayMonth(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d.%d.", t.Day(), int(t.Month()))
}

// dateList fechas deduplicadas y ordenadas, formateadas "d.M." y separadas por coma.
func dateList(dates []string) string {
	uniq := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if !seen[d] {
			seen[d] = true
			uniq = append(uniq, d)
		}
	}
	sort.Strings(uniq)
	out := make([]string, 0, len(uniq))
	for _, d := range uniq {
		out = append(out, dayMonth(d))
	}
	return strings.Join(out, ", ")
}

// monthBounds primer y último día del mes (YYYY-MM) como fechas civiles.
func monthBounds(month string) (string, string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", err
	}
	start := t.Format("2006-01-02")
	end := t.AddDate(0, 1, -1).Format("2006-01-02")
	return start, end, nil
}
