package billing

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// InvoicePDFGenerator genera la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		inv *entity.Invoice,
		business *entity.Business,
		customer *entity.Customer,
	) ([]byte, error)
}

// InvoiceXMLExporter serializa la factura en un formato de intercambio (UBL 2.1).
type InvoiceXMLExporter interface {
	ExportInvoice(inv *entity.Invoice, business *entity.Business, customer *entity.Customer) ([]byte, error)
}
