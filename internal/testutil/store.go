// Package testutil provee un almacén en memoria que implementa todos los puertos de
// repositorio y un TxRunner con rollback, para probar los casos de uso sin PostgreSQL.
package testutil

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// Store guarda los datos en mapas protegidos por un RWMutex. Las transacciones se
// serializan con txMu, lo que equivale a bloquear todas las filas que tocan.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	businesses map[string]*entity.Business
	settings   map[string]*entity.BusinessSettings
	users      map[string]*entity.User
	customers  map[string]*entity.Customer
	products   map[string]*entity.Product
	movements  []*entity.StockMovement
	invoices   map[string]*entity.Invoice
	invOrder   []string
	payments   []*entity.Payment

	failures map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		businesses: map[string]*entity.Business{},
		settings:   map[string]*entity.BusinessSettings{},
		users:      map[string]*entity.User{},
		customers:  map[string]*entity.Customer{},
		products:   map[string]*entity.Product{},
		invoices:   map[string]*entity.Invoice{},
		failures:   map[string]error{},
	}
}

// FailOn hace que la operación op (p.ej. "payments.create") devuelva err en adelante.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

// Repos devuelve los repositorios sobre el almacén.
func (s *Store) Repos() ports.TxRepos {
	return ports.TxRepos{
		Businesses: &BusinessRepo{s: s},
		Settings:   &SettingsRepo{s: s},
		Users:      &UserRepo{s: s},
		Customers:  &CustomerRepo{s: s},
		Products:   &ProductRepo{s: s},
		Movements:  &MovementRepo{s: s},
		Invoices:   &InvoiceRepo{s: s},
		Payments:   &PaymentRepo{s: s},
	}
}

var _ ports.TxRunner = (*Store)(nil)

// WithinTx ejecuta fn en exclusión mutua. Si fn falla, el almacén vuelve al estado
// previo y el error se devuelve con la misma clasificación que el runner de PostgreSQL.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.Mark(err, domain.ErrTransactionFailure)
	}

	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return domain.AsTransactionFailure(err)
	}
	return nil
}

type snapshot struct {
	businesses map[string]*entity.Business
	settings   map[string]*entity.BusinessSettings
	users      map[string]*entity.User
	customers  map[string]*entity.Customer
	products   map[string]*entity.Product
	movements  []*entity.StockMovement
	invoices   map[string]*entity.Invoice
	invOrder   []string
	payments   []*entity.Payment
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		businesses: make(map[string]*entity.Business, len(s.businesses)),
		settings:   make(map[string]*entity.BusinessSettings, len(s.settings)),
		users:      make(map[string]*entity.User, len(s.users)),
		customers:  make(map[string]*entity.Customer, len(s.customers)),
		products:   make(map[string]*entity.Product, len(s.products)),
		movements:  append([]*entity.StockMovement(nil), s.movements...),
		invoices:   make(map[string]*entity.Invoice, len(s.invoices)),
		invOrder:   append([]string(nil), s.invOrder...),
		payments:   append([]*entity.Payment(nil), s.payments...),
	}
	for k, v := range s.businesses {
		c := *v
		snap.businesses[k] = &c
	}
	for k, v := range s.settings {
		c := *v
		snap.settings[k] = &c
	}
	for k, v := range s.users {
		c := *v
		snap.users[k] = &c
	}
	for k, v := range s.customers {
		c := *v
		snap.customers[k] = &c
	}
	for k, v := range s.products {
		snap.products[k] = copyProduct(v)
	}
	for k, v := range s.invoices {
		snap.invoices[k] = copyInvoice(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses = snap.businesses
	s.settings = snap.settings
	s.users = snap.users
	s.customers = snap.customers
	s.products = snap.products
	s.movements = snap.movements
	s.invoices = snap.invoices
	s.invOrder = snap.invOrder
	s.payments = snap.payments
}

// ── Consultas directas para aserciones ───────────────────────────────────────

// Product devuelve una copia del producto o nil.
func (s *Store) Product(id string) *entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.products[id]; ok {
		return copyProduct(p)
	}
	return nil
}

// Movements devuelve todos los movimientos en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		out = append(out, *m)
	}
	return out
}

// Invoices devuelve copias de todas las facturas en orden de creación.
func (s *Store) Invoices() []*entity.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Invoice, 0, len(s.invOrder))
	for _, id := range s.invOrder {
		out = append(out, copyInvoice(s.invoices[id]))
	}
	return out
}

// Payments devuelve todos los pagos en orden de creación.
func (s *Store) Payments() []entity.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, *p)
	}
	return out
}

// Settings devuelve una copia de la configuración de la empresa o nil.
func (s *Store) Settings(businessID string) *entity.BusinessSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.settings[businessID]; ok {
		c := *v
		return &c
	}
	return nil
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.UnitCost != nil {
		v := *p.UnitCost
		c.UnitCost = &v
	}
	if p.LowStockThreshold != nil {
		v := *p.LowStockThreshold
		c.LowStockThreshold = &v
	}
	return &c
}

func copyInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Items = make([]*entity.InvoiceItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		ic := *it
		c.Items = append(c.Items, &ic)
	}
	if inv.PaidDate != nil {
		t := *inv.PaidDate
		c.PaidDate = &t
	}
	return &c
}
