package finvoice_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/finvoice"
)

func companyFixture() *entity.CompanyProfile {
	return &entity.CompanyProfile{
		Name:       "Huoltopalvelu Oy",
		BusinessID: "1234567-8",
		Address:    "Huoltotie 1",
		Zip:        "00100",
		City:       "Helsinki",
		IBAN:       "FI21 1234 5600 0007 85",
		BIC:        "NDEAFIHH",
	}
}

func invoiceFixture() *entity.Invoice {
	return &entity.Invoice{
		ID:      "inv-1",
		DocType: entity.DocTypeInvoice,
		Number:  105,
		Customer: entity.CustomerSnapshot{
			Name: "Yritys Oy", Type: entity.CustomerTypeBusiness, BusinessID: "7654321-1",
			Street: "Yrityskatu 2", Zip: "00200", City: "Helsinki",
		},
		Status:      entity.InvoiceStatusSent,
		InvoiceDate: "2025-04-01",
		DueDate:     "2025-04-15",
		PaymentTerm: entity.PaymentTermNet14,
		Reference:   "1052",
		Rows: []entity.InvoiceRow{
			{Header: true, Description: "Kohde: KP 101 / Esimerkkikatu 1"},
			{Description: "Huolto", Details: "2 x 45.00 €", Dates: "3.3., 10.3.",
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(45),
				Total:     decimal.RequireFromString("112.95")},
		},
		Total:      decimal.RequireFromString("112.95"),
		VATPercent: decimal.NewFromFloat(25.5),
	}
}

// texto de la primera coincidencia del path, o "" si no existe.
func textAt(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	if el == nil {
		return ""
	}
	return el.Text()
}

func TestExport_DocumentoFinvoiceCompleto(t *testing.T) {
	out, err := finvoice.NewExporter().Export(invoiceFixture(), companyFixture())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out), "el XML generado debe ser parseable")

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Finvoice", root.Tag)
	assert.Equal(t, "3.0", root.SelectAttrValue("Version", ""))

	// Emisor: identificador, código IVA comunitario e IBAN sin espacios.
	assert.Equal(t, "1234567-8", textAt(t, doc, "//SellerPartyIdentifier"))
	assert.Equal(t, "FI12345678", textAt(t, doc, "//SellerOrganisationTaxCode"))
	assert.Equal(t, "FI2112345600000785", textAt(t, doc, "//SellerAccountID"))
	assert.Equal(t, "NDEAFIHH", textAt(t, doc, "//SellerBic"))

	// Receptor con su propio Y-tunnus.
	assert.Equal(t, "Yritys Oy", textAt(t, doc, "//BuyerOrganisationName"))
	assert.Equal(t, "FI76543211", textAt(t, doc, "//BuyerOrganisationTaxCode"))

	// Detalles: tipo INV01, fechas compactas, totales con coma decimal.
	assert.Equal(t, "INV01", textAt(t, doc, "//InvoiceTypeCode"))
	assert.Equal(t, "LASKU", textAt(t, doc, "//InvoiceTypeText"))
	assert.Equal(t, "105", textAt(t, doc, "//InvoiceNumber"))
	assert.Equal(t, "20250401", textAt(t, doc, "//InvoiceDate"))
	assert.Equal(t, "112,95", textAt(t, doc, "//InvoiceTotalVatIncludedAmount"))
	assert.Equal(t, "90,00", textAt(t, doc, "//InvoiceTotalVatExcludedAmount"))
	assert.Equal(t, "22,95", textAt(t, doc, "//InvoiceTotalVatAmount"))
	assert.Equal(t, "25,50", textAt(t, doc, "//VatRatePercent"))
	assert.Equal(t, "20250415", textAt(t, doc, "//InvoiceDueDate"))

	// Líneas: la cabecera solo lleva texto libre, el cargo sus importes.
	rows := doc.FindElements("//InvoiceRow")
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].FindElement("ArticleName"), "la cabecera no es un artículo")
	assert.Equal(t, "Kohde: KP 101 / Esimerkkikatu 1", rows[0].FindElement("RowFreeText").Text())
	assert.Equal(t, "Huolto", rows[1].FindElement("ArticleName").Text())
	assert.Equal(t, "112,95", rows[1].FindElement("RowAmount").Text())

	// Bloque de pago EPI: referencia e importe instruido.
	assert.Equal(t, "1052", textAt(t, doc, "//EpiReference"))
	assert.Equal(t, "1052", textAt(t, doc, "//EpiRemittanceInfoIdentifier"))
	assert.Equal(t, "112,95", textAt(t, doc, "//EpiInstructedAmount"))
	assert.Equal(t, "FI2112345600000785", textAt(t, doc, "//EpiAccountID"))
	assert.Equal(t, "20250415", textAt(t, doc, "//EpiDateOptionDate"))
}

// La nota de crédito sale como INV02 con referencia a la original e importes negativos.
func TestExport_NotaDeCredito(t *testing.T) {
	note := invoiceFixture()
	note.DocType = entity.DocTypeCreditNote
	note.OriginalID = "inv-0"
	note.Total = note.Total.Neg()

	out, err := finvoice.NewExporter().Export(note, companyFixture())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	assert.Equal(t, "INV02", textAt(t, doc, "//InvoiceTypeCode"))
	assert.Equal(t, "HYVITYSLASKU", textAt(t, doc, "//InvoiceTypeText"))
	assert.Equal(t, "inv-0", textAt(t, doc, "//OriginalInvoiceReference"))
	assert.Equal(t, "-112,95", textAt(t, doc, "//InvoiceTotalVatIncludedAmount"))
}
