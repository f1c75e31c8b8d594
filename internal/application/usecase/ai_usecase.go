package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

const maxDraftImageBytes = 5 << 20

// AIUseCase propone borradores de factura a partir de texto libre o de la foto de un
// pedido. Cada llamada al LLM lleva un timeout para que las latencias externas no
// bloqueen los goroutines del servidor.
type AIUseCase struct {
	llm          ports.LLMService
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	timeout      time.Duration
	log          *logger.Logger
}

// NewAIUseCase construye el caso de uso. timeout <= 0 usa 10 s.
func NewAIUseCase(
	llm ports.LLMService,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	timeout time.Duration,
	log *logger.Logger,
) *AIUseCase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AIUseCase{
		llm:          llm,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		timeout:      timeout,
		log:          log.Component("ai"),
	}
}

// DraftInvoice delega la extracción al LLM y completa ProductID y CustomerID cuando
// el SKU o el nombre coinciden con datos de la empresa. No persiste nada.
func (uc *AIUseCase) DraftInvoice(ctx context.Context, businessID string, src ports.DraftSource) (*dto.InvoiceDraftDTO, error) {
	src.Text = strings.TrimSpace(src.Text)
	if src.Text == "" && len(src.Image) == 0 {
		return nil, domain.NewValidationError("text", "envíe un texto o una imagen")
	}
	if len(src.Image) > maxDraftImageBytes {
		return nil, domain.NewValidationError("image", "la imagen supera 5 MB")
	}
	if len(src.Image) > 0 && !strings.HasPrefix(src.MediaType, "image/") {
		return nil, domain.NewValidationError("image", "tipo de archivo no soportado")
	}

	llmCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	draft, err := uc.llm.ExtractInvoiceDraft(llmCtx, src)
	if err != nil {
		uc.log.Warn().Err(err).Str("business_id", businessID).Msg("borrador IA fallido")
		return nil, errors.Wrap(err, "borrador IA")
	}

	for i := range draft.Items {
		if p := uc.matchProduct(ctx, businessID, draft.Items[i]); p != nil {
			draft.Items[i].ProductID = p.ID
			draft.Items[i].SKU = p.SKU
			if draft.Items[i].UnitPrice.IsZero() {
				draft.Items[i].UnitPrice = p.UnitPrice
			}
			if draft.Items[i].TaxRate.IsZero() {
				draft.Items[i].TaxRate = p.TaxRate
			}
		}
		if draft.Items[i].Quantity <= 0 {
			draft.Items[i].Quantity = 1
		}
	}
	if draft.CustomerName != "" {
		cs, _, err := uc.customerRepo.List(ctx, businessID, repository.CustomerFilter{Search: draft.CustomerName, Limit: 2})
		if err == nil && len(cs) == 1 {
			draft.CustomerID = cs[0].ID
		}
	}
	return draft, nil
}

// matchProduct busca primero por SKU exacto y luego por nombre; solo acepta un único candidato.
func (uc *AIUseCase) matchProduct(ctx context.Context, businessID string, it dto.InvoiceDraftItem) *entity.Product {
	for _, q := range []string{it.SKU, it.Description} {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		list, _, err := uc.productRepo.List(ctx, businessID, repository.ProductFilter{Search: q, Limit: 5})
		if err != nil {
			return nil
		}
		for _, p := range list {
			if strings.EqualFold(p.SKU, q) {
				return p
			}
		}
		if len(list) == 1 {
			return list[0]
		}
	}
	return nil
}
