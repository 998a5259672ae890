// Package pdf implementa la representación imprimible de la factura finlandesa.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + Y-tunnus   │  LASKU N° + Fechas           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RECEPTOR: Nombre + dirección de facturación                 │
//	│  DATOS: Maksuehto / Eräpäivä / Viitenumero                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Kuvaus | Määrä | á-hinta | Yhteensä                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Veroton / ALV % / Yhteensä                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE BANCARIO: IBAN + BIC + viitenumero + código de barras   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/barcode"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Impresora fi-FI: espacio de miles y coma decimal.
var fiPrinter = message.NewPrinter(language.Finnish)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.CompanyProfile,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTitle(invoice), true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(recipientRow(invoice))
	m.AddRows(infoRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(invoice.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range bankFooterRows(invoice, company) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func docTitle(invoice *entity.Invoice) string {
	if invoice.DocType == entity.DocTypeCreditNote {
		return "HYVITYSLASKU"
	}
	return "LASKU"
}

// headerRow: emisor + Y-tunnus (izq) y tipo de documento + número (der).
func headerRow(invoice *entity.Invoice, company *entity.CompanyProfile) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Y-tunnus: "+company.BusinessID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(docTitle(invoice), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Nro %d", invoice.Number), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 8,
			}),
			text.New("Päiväys: "+finnishDate(invoice.InvoiceDate), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// recipientRow: destinatario de la factura (copia inmutable del cliente).
func recipientRow(invoice *entity.Invoice) core.Row {
	c := invoice.Customer
	address := c.Street
	if c.Zip != "" || c.City != "" {
		address += "\n" + c.Zip + " " + c.City
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("VASTAANOTTAJA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(address, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// infoRow: condiciones de pago y referencia.
func infoRow(invoice *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Maksuehto: %s   |   Eräpäivä: %s   |   Viitenumero: %s",
				nonEmpty(invoice.PaymentTerm, "—"),
				nonEmpty(finnishDate(invoice.DueDate), "—"),
				nonEmpty(invoice.Reference, "—"),
			), props.Text{Size: 8, Top: 3, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Kuvaus", 6, align.Left),
		h("Määrä", 2, align.Center),
		h("á-hinta", 2, align.Right),
		h("Yhteensä", 2, align.Right),
	)
}

// tableRows: una fila por línea. Las cabeceras de agrupación van en negrita y
// sin importes; las líneas de cargo llevan su descomposición debajo.
func tableRows(items []entity.InvoiceRow) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		if it.Header {
			result = append(result, row.New(7).Add(
				col.New(12).Add(text.New(it.Description, props.Text{
					Style: fontstyle.Bold, Size: 8.5, Top: 2, Left: 1,
				})),
			))
			continue
		}

		height := 6.0
		desc := []core.Component{
			text.New(it.Description, props.Text{Size: 8, Top: 1, Left: 1}),
		}
		if it.Details != "" {
			desc = append(desc, text.New(it.Details, props.Text{
				Size: 7, Top: 5, Left: 2, Color: colorGray,
			}))
			height = 10
		}
		result = append(result, row.New(height).Add(
			col.New(6).Add(desc...),
			col.New(2).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: desglose neto / IVA / total bruto. Siempre se muestran los tres,
// también en facturas de particulares con precios IVA incluido.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	vatLabel := fiPrinter.Sprintf("ALV %v %%:", invoice.VATPercent.InexactFloat64())

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Veroton yhteensä:"),
			label(vatLabel),
			grandLabel("YHTEENSÄ:"),
		),
		col.New(3).Add(
			value(formatMoney(invoice.NetTotal())+" €"),
			value(formatMoney(invoice.VATAmount())+" €"),
			grandValue(formatMoney(invoice.Total)+" €"),
		),
		col.New(3),
	)
}

// bankFooterRows: datos bancarios + código de barras virtual (Code128).
func bankFooterRows(invoice *entity.Invoice, company *entity.CompanyProfile) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("MAKSUTIEDOT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("IBAN: %s   |   BIC: %s   |   Viitenumero: %s",
				nonEmpty(company.IBAN, "—"),
				nonEmpty(company.BIC, "—"),
				nonEmpty(invoice.Reference, "—"),
			), props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}

	if invoice.Barcode != "" {
		rows = append(rows,
			row.New(16).Add(
				col.New(2),
				col.New(8).Add(code.NewBar(invoice.Barcode, props.Barcode{
					Type:    barcode.Code128,
					Percent: 90,
					Center:  true,
				})),
				col.New(2),
			),
			row.New(4).Add(col.New(12).Add(
				text.New(invoice.Barcode, props.Text{
					Size: 6.5, Align: align.Center, Color: colorGray,
				}),
			)),
		)
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// finnishDate convierte YYYY-MM-DD a d.M.yyyy para impresión.
func finnishDate(iso string) string {
	if len(iso) != 10 {
		return iso
	}
	var y, m, d int
	if _, err := fmt.Sscanf(iso, "%d-%d-%d", &y, &m, &d); err != nil {
		return iso
	}
	return fmt.Sprintf("%d.%d.%d", d, m, y)
}

// formatMoney formatea un importe con convención fi-FI: "1 234,56".
func formatMoney(d decimal.Decimal) string {
	return fiPrinter.Sprintf("%.2f", d.InexactFloat64())
}
