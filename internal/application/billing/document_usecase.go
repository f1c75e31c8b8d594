package billing

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// DocumentUseCase genera las representaciones de una factura: PDF y UBL XML.
type DocumentUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	businessRepo repository.BusinessRepository
	customerRepo repository.CustomerRepository
	pdf          InvoicePDFGenerator
	xml          InvoiceXMLExporter
}

// NewDocumentUseCase construye el caso de uso inyectando todas sus dependencias.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	businessRepo repository.BusinessRepository,
	customerRepo repository.CustomerRepository,
	pdf InvoicePDFGenerator,
	xml InvoiceXMLExporter,
) *DocumentUseCase {
	return &DocumentUseCase{
		invoiceRepo:  invoiceRepo,
		businessRepo: businessRepo,
		customerRepo: customerRepo,
		pdf:          pdf,
		xml:          xml,
	}
}

// DownloadInvoicePDF devuelve el PDF y el nombre de archivo sugerido.
func (uc *DocumentUseCase) DownloadInvoicePDF(ctx context.Context, businessID, invoiceID string) ([]byte, string, error) {
	inv, business, customer, err := uc.load(ctx, businessID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateInvoicePDF(ctx, inv, business, customer)
	if err != nil {
		return nil, "", errors.Wrap(err, "pdf: generación fallida")
	}
	return b, fmt.Sprintf("factura_%s.pdf", inv.InvoiceNumber), nil
}

// ExportInvoiceXML devuelve el documento UBL y el nombre de archivo sugerido.
func (uc *DocumentUseCase) ExportInvoiceXML(ctx context.Context, businessID, invoiceID string) ([]byte, string, error) {
	inv, business, customer, err := uc.load(ctx, businessID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.xml.ExportInvoice(inv, business, customer)
	if err != nil {
		return nil, "", errors.Wrap(err, "xml: exportación fallida")
	}
	return b, fmt.Sprintf("factura_%s.xml", inv.InvoiceNumber), nil
}

func (uc *DocumentUseCase) load(ctx context.Context, businessID, invoiceID string) (*entity.Invoice, *entity.Business, *entity.Customer, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, businessID, invoiceID)
	if err != nil {
		return nil, nil, nil, err
	}
	if inv.Items == nil {
		if inv.Items, err = uc.invoiceRepo.GetItems(ctx, inv.ID); err != nil {
			return nil, nil, nil, errors.Wrap(err, "obtener líneas")
		}
	}
	business, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "obtener empresa")
	}
	customer, err := uc.customerRepo.GetByID(ctx, businessID, inv.CustomerID)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "obtener cliente")
	}
	return inv, business, customer, nil
}
