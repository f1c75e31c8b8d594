package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/validator"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo        repository.CustomerRepository
	invoiceRepo repository.InvoiceRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, invoiceRepo: invoiceRepo}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, businessID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Customer{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       in.Name,
		TaxID:      in.TaxID,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// Get devuelve un cliente de la empresa.
func (uc *CustomerUseCase) Get(ctx context.Context, businessID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// List lista los clientes con búsqueda por nombre, email o documento.
func (uc *CustomerUseCase) List(ctx context.Context, businessID, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	cs, total, err := uc.repo.List(ctx, businessID, repository.CustomerFilter{
		Search: search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CustomerListResponse{
		Items: lo.Map(cs, func(c *entity.Customer, _ int) dto.CustomerResponse { return ToCustomerResponse(c) }),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update reemplaza los datos del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, businessID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.TaxID, c.Email, c.Phone, c.Address = in.Name, in.TaxID, in.Email, in.Phone, in.Address
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// Delete elimina un cliente sin facturas.
func (uc *CustomerUseCase) Delete(ctx context.Context, businessID, id string) error {
	if _, err := uc.repo.GetByID(ctx, businessID, id); err != nil {
		return err
	}
	n, err := uc.invoiceRepo.CountByCustomer(ctx, businessID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, businessID, id)
}
