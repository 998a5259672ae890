// Package finvoice serializa facturas al formato Finvoice 3.0, el estándar
// finlandés de factura electrónica que aceptan los operadores bancarios.
package finvoice

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

var _ appbilling.FinvoiceExporter = (*Exporter)(nil)

// Exporter construye el documento Finvoice 3.0 con etree.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export serializa la factura a XML Finvoice 3.0 con indentación.
func (e *Exporter) Export(inv *entity.Invoice, company *entity.CompanyProfile) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Finvoice")
	root.CreateAttr("Version", "3.0")

	e.sellerParty(root, company)
	e.sellerInformation(root, company)
	e.buyerParty(root, inv)
	e.invoiceDetails(root, inv)
	for _, row := range inv.Rows {
		e.invoiceRow(root, row)
	}
	e.epiDetails(root, inv, company)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("finvoice: serializar documento: %w", err)
	}
	return out, nil
}

func (e *Exporter) sellerParty(root *etree.Element, company *entity.CompanyProfile) {
	seller := root.CreateElement("SellerPartyDetails")
	seller.CreateElement("SellerPartyIdentifier").SetText(company.BusinessID)
	seller.CreateElement("SellerOrganisationName").SetText(company.Name)
	seller.CreateElement("SellerOrganisationTaxCode").SetText(taxCode(company.BusinessID))
	addr := seller.CreateElement("SellerPostalAddressDetails")
	addr.CreateElement("SellerStreetName").SetText(company.Address)
	addr.CreateElement("SellerTownName").SetText(company.City)
	addr.CreateElement("SellerPostCodeIdentifier").SetText(company.Zip)
	addr.CreateElement("CountryCode").SetText("FI")
}

func (e *Exporter) sellerInformation(root *etree.Element, company *entity.CompanyProfile) {
	info := root.CreateElement("SellerInformationDetails")
	account := info.CreateElement("SellerAccountDetails")
	iban := account.CreateElement("SellerAccountID")
	iban.CreateAttr("IdentificationSchemeName", "IBAN")
	iban.SetText(strings.ReplaceAll(company.IBAN, " ", ""))
	bic := account.CreateElement("SellerBic")
	bic.CreateAttr("IdentificationSchemeName", "BIC")
	bic.SetText(company.BIC)
}

func (e *Exporter) buyerParty(root *etree.Element, inv *entity.Invoice) {
	c := inv.Customer
	buyer := root.CreateElement("BuyerPartyDetails")
	if c.BusinessID != "" {
		buyer.CreateElement("BuyerPartyIdentifier").SetText(c.BusinessID)
	}
	buyer.CreateElement("BuyerOrganisationName").SetText(c.Name)
	if c.BusinessID != "" {
		buyer.CreateElement("BuyerOrganisationTaxCode").SetText(taxCode(c.BusinessID))
	}
	addr := buyer.CreateElement("BuyerPostalAddressDetails")
	addr.CreateElement("BuyerStreetName").SetText(c.Street)
	addr.CreateElement("BuyerTownName").SetText(c.City)
	addr.CreateElement("BuyerPostCodeIdentifier").SetText(c.Zip)
	addr.CreateElement("CountryCode").SetText("FI")
}

func (e *Exporter) invoiceDetails(root *etree.Element, inv *entity.Invoice) {
	details := root.CreateElement("InvoiceDetails")
	typeCode := "INV01"
	typeText := "LASKU"
	if inv.DocType == entity.DocTypeCreditNote {
		typeCode = "INV02"
		typeText = "HYVITYSLASKU"
	}
	tc := details.CreateElement("InvoiceTypeCode")
	tc.CreateAttr("CodeListAgencyIdentifier", "SPY")
	tc.SetText(typeCode)
	details.CreateElement("InvoiceTypeText").SetText(typeText)
	details.CreateElement("OriginCode").SetText("Original")
	details.CreateElement("InvoiceNumber").SetText(fmt.Sprintf("%d", inv.Number))
	date := details.CreateElement("InvoiceDate")
	date.CreateAttr("Format", "CCYYMMDD")
	date.SetText(compactDate(inv.InvoiceDate))
	if inv.DocType == entity.DocTypeCreditNote && inv.OriginalID != "" {
		details.CreateElement("OriginalInvoiceReference").SetText(inv.OriginalID)
	}

	amount(details, "InvoiceTotalVatExcludedAmount", inv.NetTotal())
	amount(details, "InvoiceTotalVatAmount", inv.VATAmount())
	amount(details, "InvoiceTotalVatIncludedAmount", inv.Total)

	vat := details.CreateElement("VatSpecificationDetails")
	amount(vat, "VatBaseAmount", inv.NetTotal())
	rate := vat.CreateElement("VatRatePercent")
	rate.SetText(finAmount(inv.VATPercent))
	amount(vat, "VatRateAmount", inv.VATAmount())

	terms := details.CreateElement("PaymentTermsDetails")
	if inv.PaymentTerm != "" {
		terms.CreateElement("PaymentTermsFreeText").SetText(inv.PaymentTerm)
	}
	if inv.DueDate != "" {
		due := terms.CreateElement("InvoiceDueDate")
		due.CreateAttr("Format", "CCYYMMDD")
		due.SetText(compactDate(inv.DueDate))
	}
}

func (e *Exporter) invoiceRow(root *etree.Element, row entity.InvoiceRow) {
	el := root.CreateElement("InvoiceRow")
	if row.Header {
		// Cabecera de agrupación: texto libre sin importes.
		el.CreateElement("RowFreeText").SetText(row.Description)
		return
	}
	el.CreateElement("ArticleName").SetText(row.Description)
	if row.Details != "" {
		el.CreateElement("RowFreeText").SetText(row.Details)
	}
	qty := el.CreateElement("DeliveredQuantity")
	qty.CreateAttr("QuantityUnitCode", "kpl")
	qty.SetText(finAmount(row.Quantity))
	amount(el, "UnitPriceAmount", row.UnitPrice)
	amount(el, "RowAmount", row.Total)
}

func (e *Exporter) epiDetails(root *etree.Element, inv *entity.Invoice, company *entity.CompanyProfile) {
	epi := root.CreateElement("EpiDetails")

	ident := epi.CreateElement("EpiIdentificationDetails")
	epiDate := ident.CreateElement("EpiDate")
	epiDate.CreateAttr("Format", "CCYYMMDD")
	epiDate.SetText(compactDate(inv.InvoiceDate))
	ident.CreateElement("EpiReference").SetText(inv.Reference)

	party := epi.CreateElement("EpiPartyDetails")
	bfi := party.CreateElement("EpiBfiPartyDetails")
	bic := bfi.CreateElement("EpiBfiIdentifier")
	bic.CreateAttr("IdentificationSchemeName", "BIC")
	bic.SetText(company.BIC)
	beneficiary := party.CreateElement("EpiBeneficiaryPartyDetails")
	beneficiary.CreateElement("EpiNameText").SetText(company.Name)
	iban := beneficiary.CreateElement("EpiAccountID")
	iban.CreateAttr("IdentificationSchemeName", "IBAN")
	iban.SetText(strings.ReplaceAll(company.IBAN, " ", ""))

	instruction := epi.CreateElement("EpiPaymentInstructionDetails")
	ref := instruction.CreateElement("EpiRemittanceInfoIdentifier")
	ref.CreateAttr("IdentificationSchemeName", "SPY")
	ref.SetText(inv.Reference)
	instructed := instruction.CreateElement("EpiInstructedAmount")
	instructed.CreateAttr("AmountCurrencyIdentifier", "EUR")
	instructed.SetText(finAmount(inv.Total))
	instruction.CreateElement("EpiCharge").CreateAttr("ChargeOption", "SLEV")
	if inv.DueDate != "" {
		due := instruction.CreateElement("EpiDateOptionDate")
		due.CreateAttr("Format", "CCYYMMDD")
		due.SetText(compactDate(inv.DueDate))
	}
}

// amount añade un elemento de importe con moneda EUR y coma decimal.
func amount(parent *etree.Element, name string, value decimal.Decimal) {
	el := parent.CreateElement(name)
	el.CreateAttr("AmountCurrencyIdentifier", "EUR")
	el.SetText(finAmount(value))
}

// finAmount formatea un decimal con coma decimal ("135,50"), como exige Finvoice.
func finAmount(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

// compactDate convierte YYYY-MM-DD a CCYYMMDD.
func compactDate(iso string) string {
	return strings.ReplaceAll(iso, "-", "")
}

// taxCode convierte un Y-tunnus (1234567-8) en código IVA comunitario (FI12345678).
func taxCode(businessID string) string {
	return "FI" + strings.ReplaceAll(businessID, "-", "")
}
