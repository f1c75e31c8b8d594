package billing

import (
	"github.com/samber/lo"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// ToInvoiceResponse convierte la factura (y sus líneas, si vienen cargadas) a DTO.
func ToInvoiceResponse(inv *entity.Invoice, customerName string) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:             inv.ID,
		BusinessID:     inv.BusinessID,
		CustomerID:     inv.CustomerID,
		CustomerName:   customerName,
		InvoiceNumber:  inv.InvoiceNumber,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		BalanceDue:     inv.BalanceDue,
		Status:         inv.Status,
		PaidDate:       inv.PaidDate,
		Notes:          inv.Notes,
		Terms:          inv.Terms,
		CreatedAt:      inv.CreatedAt,
		Items: lo.Map(inv.Items, func(it *entity.InvoiceItem, _ int) dto.InvoiceItemResponse {
			return dto.InvoiceItemResponse{
				ID:              it.ID,
				ProductID:       it.ProductID,
				Description:     it.Description,
				Quantity:        it.Quantity,
				UnitPrice:       it.UnitPrice,
				TaxRate:         it.TaxRate,
				DiscountPercent: it.DiscountPercent,
				DiscountAmount:  it.DiscountAmount,
				TaxAmount:       it.TaxAmount,
				Amount:          it.Amount,
			}
		}),
	}
}

// ToPaymentResponse convierte un pago a DTO.
func ToPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		BusinessID:    p.BusinessID,
		InvoiceID:     p.InvoiceID,
		PaymentNumber: p.PaymentNumber,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		PaymentMethod: p.Method,
		TransactionID: p.TransactionID,
		CheckNumber:   p.CheckNumber,
		Notes:         p.Notes,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
	}
}

// ToCustomerResponse convierte un cliente a DTO.
func ToCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:         c.ID,
		BusinessID: c.BusinessID,
		Name:       c.Name,
		TaxID:      c.TaxID,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		CreatedAt:  c.CreatedAt,
	}
}
