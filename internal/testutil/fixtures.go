package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

var timeNow = time.Now

// SeedBusiness crea una empresa aprobada con su configuración por defecto.
func (s *Store) SeedBusiness(name string) *entity.Business {
	now := timeNow()
	b := &entity.Business{
		ID:        uuid.New().String(),
		Name:      name,
		Currency:  "USD",
		Status:    entity.BusinessStatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses[b.ID] = b
	s.settings[b.ID] = entity.NewBusinessSettings(b.ID, now)
	c := *b
	return &c
}

// SeedCustomer crea un cliente de la empresa.
func (s *Store) SeedCustomer(businessID, name string) *entity.Customer {
	now := timeNow()
	c := &entity.Customer{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       name,
		Email:      "cliente@example.com",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
	cp := *c
	return &cp
}

// SeedProduct crea un producto; tracked indica si controla inventario.
func (s *Store) SeedProduct(businessID, sku string, price string, stock int, tracked bool) *entity.Product {
	now := timeNow()
	p := &entity.Product{
		ID:             uuid.New().String(),
		BusinessID:     businessID,
		SKU:            sku,
		Name:           "Producto " + sku,
		UnitPrice:      decimal.RequireFromString(price),
		TaxRate:        decimal.Zero,
		TrackInventory: tracked,
		StockQuantity:  stock,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return copyProduct(p)
}

// SeedUser crea un usuario con el hash dado.
func (s *Store) SeedUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.users[u.ID] = &c
}
