package ports

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
)

// DraftSource es el material del que el modelo extrae la factura: texto libre o una imagen.
type DraftSource struct {
	Text      string
	Image     []byte
	MediaType string // image/png, image/jpeg, ...
}

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Anthropic, OpenAI, mock) debe implementar esta interfaz.
type LLMService interface {
	// ExtractInvoiceDraft interpreta un pedido o recibo y propone cliente y líneas.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	ExtractInvoiceDraft(ctx context.Context, src DraftSource) (*dto.InvoiceDraftDTO, error)
}
