// Package pdf genera la representación imprimible de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + documento  │  N° Factura + fechas + estado│
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  CLIENTE: Nombre + documento + contacto                      │
//	│  TABLA: Cant | Descripción | P.Unit | Desc% | IVA% | Importe │
//	│  TOTALES: Subtotal / Impuestos / Total / Pagado / Saldo      │
//	│  NOTAS Y TÉRMINOS                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	appbilling "github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabels = map[string]string{
	entity.InvoiceStatusDraft:   "BORRADOR",
	entity.InvoiceStatusSent:    "ENVIADA",
	entity.InvoiceStatusPaid:    "PAGADA",
	entity.InvoiceStatusOverdue: "VENCIDA",
	entity.InvoiceStatusVoid:    "ANULADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	lang language.Tag
}

// NewMarotoPDFGenerator construye el generador. Los importes se formatean con las
// convenciones de lang (separadores de miles y decimales).
func NewMarotoPDFGenerator(lang language.Tag) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{lang: lang}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	inv *entity.Invoice,
	business *entity.Business,
	customer *entity.Customer,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.InvoiceNumber, true).
		WithAuthor(business.Name, true).
		Build()

	m := maroto.New(cfg)
	money := newMoneyFormatter(g.lang, business.Currency)

	m.AddRows(headerRow(inv, business))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(business))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(inv.Items, money)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, money))
	m.AddRows(notesRows(inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "pdf: generar documento")
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y número, fechas y estado (der).
func headerRow(inv *entity.Invoice, business *entity.Business) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(business.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento: "+nonEmpty(business.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA · "+statusLabels[inv.Status], props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Emisión: "+inv.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Vencimiento: "+inv.DueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func emisorRow(business *entity.Business) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(business.Address, "—"),
				nonEmpty(business.Phone, "—"),
				nonEmpty(business.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func customerRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Documento: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(customer.TaxID, "—"),
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc%", 1, align.Center),
		h("IVA%", 1, align.Center),
		h("Importe", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(items []*entity.InvoiceItem, money moneyFormatter) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money.format(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.DiscountPercent.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(it.TaxRate.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money.format(it.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. Pagado y saldo solo si hay abonos.
func totalsRow(inv *entity.Invoice, money moneyFormatter) core.Row {
	label := func(s string, size float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Color: c})
	}
	value := func(s string, size float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Size: size, Align: align.Right, Right: 1, Color: c})
	}

	labels := []core.Component{
		label("Subtotal:", 9, nil),
		label("Impuestos:", 9, nil),
		label("TOTAL:", 10, colorPrimary),
	}
	values := []core.Component{
		value(money.format(inv.Subtotal), 9, nil),
		value(money.format(inv.TaxAmount), 9, nil),
		value(money.format(inv.TotalAmount), 10, colorPrimary),
	}
	if inv.DiscountAmount.IsPositive() {
		labels = append(labels, label("Descuento:", 9, nil))
		values = append(values, value("-"+money.format(inv.DiscountAmount), 9, nil))
	}
	if inv.PaidAmount.IsPositive() {
		labels = append(labels, label("Pagado:", 9, nil), label("SALDO:", 10, colorPrimary))
		values = append(values, value(money.format(inv.PaidAmount), 9, nil), value(money.format(inv.BalanceDue), 10, colorPrimary))
	}

	return row.New(float64(6*len(labels) + 4)).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

func notesRows(inv *entity.Invoice) []core.Row {
	var rows []core.Row
	if inv.Notes != "" {
		rows = append(rows, titledRow("NOTAS", inv.Notes))
	}
	if inv.Terms != "" {
		rows = append(rows, titledRow("TÉRMINOS Y CONDICIONES", inv.Terms))
	}
	return rows
}

func titledRow(title, body string) core.Row {
	return row.New(16).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		text.New(body, props.Text{Size: 8, Top: 7, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// moneyFormatter antepone el código de moneda y agrupa miles según el idioma.
type moneyFormatter struct {
	p        *message.Printer
	currency string
}

func newMoneyFormatter(lang language.Tag, currency string) moneyFormatter {
	return moneyFormatter{p: message.NewPrinter(lang), currency: nonEmpty(currency, "USD")}
}

func (f moneyFormatter) format(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.currency + " " + f.p.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
