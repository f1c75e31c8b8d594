// Package ubl exporta facturas como documentos OASIS UBL 2.1 (Invoice-2).
package ubl

import (
	"fmt"
	"sort"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	customizationID = "urn:cen.eu:en16931:2017"
	// 380 = factura comercial (UNCL1001); C62 = unidad (UN/ECE Rec 20).
	invoiceTypeCode = "380"
	unitCode        = "C62"
)

var _ appbilling.InvoiceXMLExporter = (*Exporter)(nil)

// Exporter implementa billing.InvoiceXMLExporter.
type Exporter struct{}

// NewExporter crea el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportInvoice construye el XML de la factura con sus líneas.
func (e *Exporter) ExportInvoice(inv *entity.Invoice, business *entity.Business, customer *entity.Customer) ([]byte, error) {
	if inv == nil || business == nil || customer == nil {
		return nil, errors.New("ubl: faltan factura, empresa o cliente")
	}
	currency := business.Currency
	if currency == "" {
		currency = "USD"
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	text(root, "cbc:UBLVersionID", "2.1")
	text(root, "cbc:CustomizationID", customizationID)
	text(root, "cbc:ID", inv.InvoiceNumber)
	text(root, "cbc:IssueDate", inv.IssueDate.Format("2006-01-02"))
	text(root, "cbc:DueDate", inv.DueDate.Format("2006-01-02"))
	text(root, "cbc:InvoiceTypeCode", invoiceTypeCode)
	if inv.Notes != "" {
		text(root, "cbc:Note", inv.Notes)
	}
	text(root, "cbc:DocumentCurrencyCode", currency)

	party(root.CreateElement("cac:AccountingSupplierParty"), business.Name, business.TaxID, business.Address, business.Email)
	party(root.CreateElement("cac:AccountingCustomerParty"), customer.Name, customer.TaxID, customer.Address, customer.Email)

	if inv.Terms != "" {
		text(root.CreateElement("cac:PaymentTerms"), "cbc:Note", inv.Terms)
	}

	taxTotal(root, currency, inv.TaxAmount, inv.Items)

	lmt := root.CreateElement("cac:LegalMonetaryTotal")
	amount(lmt, "cbc:LineExtensionAmount", currency, inv.Subtotal)
	amount(lmt, "cbc:TaxExclusiveAmount", currency, inv.Subtotal)
	amount(lmt, "cbc:TaxInclusiveAmount", currency, inv.Subtotal.Add(inv.TaxAmount))
	if inv.DiscountAmount.IsPositive() {
		amount(lmt, "cbc:AllowanceTotalAmount", currency, inv.DiscountAmount)
	}
	amount(lmt, "cbc:PrepaidAmount", currency, inv.PaidAmount)
	amount(lmt, "cbc:PayableAmount", currency, inv.BalanceDue)

	for i, it := range inv.Items {
		invoiceLine(root.CreateElement("cac:InvoiceLine"), i+1, currency, it)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "ubl: serializar documento")
	}
	return out, nil
}

func party(parent *etree.Element, name, taxID, address, email string) {
	p := parent.CreateElement("cac:Party")
	text(p.CreateElement("cac:PartyName"), "cbc:Name", name)
	if address != "" {
		text(p.CreateElement("cac:PostalAddress"), "cbc:StreetName", address)
	}
	if taxID != "" {
		pts := p.CreateElement("cac:PartyTaxScheme")
		text(pts, "cbc:CompanyID", taxID)
		text(pts.CreateElement("cac:TaxScheme"), "cbc:ID", "VAT")
	}
	legal := p.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", name)
	if email != "" {
		text(p.CreateElement("cac:Contact"), "cbc:ElectronicMail", email)
	}
}

// taxTotal agrupa las líneas por tarifa; cada tarifa es un TaxSubtotal.
func taxTotal(root *etree.Element, currency string, total decimal.Decimal, items []*entity.InvoiceItem) {
	tt := root.CreateElement("cac:TaxTotal")
	amount(tt, "cbc:TaxAmount", currency, total)

	groups := lo.GroupBy(items, func(it *entity.InvoiceItem) string { return it.TaxRate.String() })
	rates := lo.Keys(groups)
	sort.Slice(rates, func(i, j int) bool {
		return decimal.RequireFromString(rates[i]).LessThan(decimal.RequireFromString(rates[j]))
	})
	for _, rate := range rates {
		var taxable, tax decimal.Decimal
		for _, it := range groups[rate] {
			taxable = taxable.Add(it.Amount.Sub(it.TaxAmount))
			tax = tax.Add(it.TaxAmount)
		}
		st := tt.CreateElement("cac:TaxSubtotal")
		amount(st, "cbc:TaxableAmount", currency, taxable)
		amount(st, "cbc:TaxAmount", currency, tax)
		taxCategory(st.CreateElement("cac:TaxCategory"), rate)
	}
}

func invoiceLine(line *etree.Element, n int, currency string, it *entity.InvoiceItem) {
	text(line, "cbc:ID", fmt.Sprint(n))
	q := line.CreateElement("cbc:InvoicedQuantity")
	q.CreateAttr("unitCode", unitCode)
	q.SetText(fmt.Sprint(it.Quantity))
	amount(line, "cbc:LineExtensionAmount", currency, it.Amount.Sub(it.TaxAmount))

	if it.DiscountAmount.IsPositive() {
		ac := line.CreateElement("cac:AllowanceCharge")
		text(ac, "cbc:ChargeIndicator", "false")
		text(ac, "cbc:MultiplierFactorNumeric", it.DiscountPercent.String())
		amount(ac, "cbc:Amount", currency, it.DiscountAmount)
	}

	tt := line.CreateElement("cac:TaxTotal")
	amount(tt, "cbc:TaxAmount", currency, it.TaxAmount)

	item := line.CreateElement("cac:Item")
	text(item, "cbc:Description", it.Description)
	text(item, "cbc:Name", it.Description)
	if it.ProductID != nil {
		text(item.CreateElement("cac:SellersItemIdentification"), "cbc:ID", *it.ProductID)
	}
	taxCategory(item.CreateElement("cac:ClassifiedTaxCategory"), it.TaxRate.String())

	amount(line.CreateElement("cac:Price"), "cbc:PriceAmount", currency, it.UnitPrice)
}

// taxCategory S = tarifa estándar, Z = tarifa cero.
func taxCategory(el *etree.Element, rate string) {
	id := "S"
	if decimal.RequireFromString(rate).IsZero() {
		id = "Z"
	}
	text(el, "cbc:ID", id)
	text(el, "cbc:Percent", rate)
	text(el.CreateElement("cac:TaxScheme"), "cbc:ID", "VAT")
}

func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag, currency string, v decimal.Decimal) {
	el := text(parent, tag, v.StringFixed(2))
	el.CreateAttr("currencyID", currency)
}
