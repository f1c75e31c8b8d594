package ai

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
)

var _ ports.LLMService = DisabledService{}

// DisabledService se usa cuando AI_PROVIDER está vacío.
type DisabledService struct{}

func (DisabledService) ExtractInvoiceDraft(context.Context, ports.DraftSource) (*dto.InvoiceDraftDTO, error) {
	return nil, domain.NewValidationError("ai", "el asistente de IA no está configurado")
}
