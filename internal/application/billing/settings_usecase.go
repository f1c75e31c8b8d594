package billing

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/validator"
)

// SettingsUseCase consulta y edita los prefijos de consecutivos.
type SettingsUseCase struct {
	repo repository.BusinessSettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.BusinessSettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// Get devuelve la configuración de la empresa.
func (uc *SettingsUseCase) Get(ctx context.Context, businessID string) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &dto.SettingsResponse{
		InvoicePrefix:     s.InvoicePrefix,
		NextInvoiceNumber: s.NextInvoiceNumber,
		PaymentPrefix:     s.PaymentPrefix,
		NextPaymentNumber: s.NextPaymentNumber,
		DefaultTerms:      s.DefaultTerms,
	}, nil
}

// Update cambia los prefijos. Los contadores nunca se editan: solo avanzan al crear
// facturas y pagos.
func (uc *SettingsUseCase) Update(ctx context.Context, businessID string, in dto.SettingsRequest) (*dto.SettingsResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdatePrefixes(ctx, businessID, in.InvoicePrefix, in.PaymentPrefix, in.DefaultTerms); err != nil {
		return nil, err
	}
	return uc.Get(ctx, businessID)
}
