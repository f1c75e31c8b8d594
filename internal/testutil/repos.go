package testutil

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var (
	_ repository.BusinessRepository         = (*BusinessRepo)(nil)
	_ repository.BusinessSettingsRepository = (*SettingsRepo)(nil)
	_ repository.UserRepository             = (*UserRepo)(nil)
	_ repository.CustomerRepository         = (*CustomerRepo)(nil)
	_ repository.ProductRepository          = (*ProductRepo)(nil)
	_ repository.StockMovementRepository    = (*MovementRepo)(nil)
	_ repository.InvoiceRepository          = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository          = (*PaymentRepo)(nil)
)

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ── Businesses ───────────────────────────────────────────────────────────────

type BusinessRepo struct{ s *Store }

func (r *BusinessRepo) Create(_ context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("businesses.create"); err != nil {
		return err
	}
	c := *b
	r.s.businesses[b.ID] = &c
	return nil
}

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (r *BusinessRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Business, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Business{}
	for _, b := range r.s.businesses {
		if status != "" && b.Status != status {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}

func (r *BusinessRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

// ── Settings ─────────────────────────────────────────────────────────────────

type SettingsRepo struct{ s *Store }

func (r *SettingsRepo) Create(_ context.Context, st *entity.BusinessSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.settings[st.BusinessID]; ok {
		return domain.ErrDuplicate
	}
	c := *st
	r.s.settings[st.BusinessID] = &c
	return nil
}

func (r *SettingsRepo) Get(_ context.Context, businessID string) (*entity.BusinessSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.settings[businessID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *st
	return &c, nil
}

func (r *SettingsRepo) UpdatePrefixes(_ context.Context, businessID, invoicePrefix, paymentPrefix, defaultTerms string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.settings[businessID]
	if !ok {
		return domain.ErrNotFound
	}
	st.InvoicePrefix, st.PaymentPrefix, st.DefaultTerms = invoicePrefix, paymentPrefix, defaultTerms
	return nil
}

// next crea la configuración por defecto si falta, igual que el upsert de PostgreSQL.
func (r *SettingsRepo) next(businessID string, invoice bool) (string, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("settings.next"); err != nil {
		return "", 0, err
	}
	st, ok := r.s.settings[businessID]
	if !ok {
		st = entity.NewBusinessSettings(businessID, timeNow())
		r.s.settings[businessID] = st
	}
	if invoice {
		n := st.NextInvoiceNumber
		st.NextInvoiceNumber++
		return st.InvoicePrefix, n, nil
	}
	n := st.NextPaymentNumber
	st.NextPaymentNumber++
	return st.PaymentPrefix, n, nil
}

func (r *SettingsRepo) NextInvoiceNumber(_ context.Context, businessID string) (string, int64, error) {
	return r.next(businessID, true)
}

func (r *SettingsRepo) NextPaymentNumber(_ context.Context, businessID string) (string, int64, error) {
	return r.next(businessID, false)
}

// ── Users ────────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) ListByBusiness(_ context.Context, businessID string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.User{}
	for _, u := range r.s.users {
		if u.BusinessID == businessID {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// ── Customers ────────────────────────────────────────────────────────────────

type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, businessID, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok || c.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) List(_ context.Context, businessID string, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Customer{}
	q := strings.ToLower(f.Search)
	for _, c := range r.s.customers {
		if c.BusinessID != businessID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Email+" "+c.TaxID), q) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.customers[c.ID]
	if !ok || cur.BusinessID != c.BusinessID {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, businessID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok || c.BusinessID != businessID {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.products {
		if x.BusinessID == p.BusinessID && strings.EqualFold(x.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = copyProduct(p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, businessID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return copyProduct(p), nil
}

// GetForUpdate no necesita bloquear: el TxRunner ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, businessID, id)
}

func (r *ProductRepo) List(_ context.Context, businessID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Product{}
	q := strings.ToLower(f.Search)
	for _, p := range r.s.products {
		if p.BusinessID != businessID {
			continue
		}
		if f.TrackedOnly && !p.TrackInventory {
			continue
		}
		if f.LowStock && !p.IsLowStock() {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU), q) {
			continue
		}
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.BusinessID != p.BusinessID {
		return domain.ErrNotFound
	}
	for _, x := range r.s.products {
		if x.ID != p.ID && x.BusinessID == p.BusinessID && strings.EqualFold(x.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	c := copyProduct(p)
	c.StockQuantity = cur.StockQuantity
	r.s.products[p.ID] = c
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.update_stock"); err != nil {
		return err
	}
	cur, ok := r.s.products[p.ID]
	if !ok || cur.BusinessID != p.BusinessID {
		return domain.ErrNotFound
	}
	cur.StockQuantity = p.StockQuantity
	if p.UnitCost != nil {
		v := *p.UnitCost
		cur.UnitCost = &v
	}
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, businessID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.BusinessID != businessID {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// ── Stock movements ──────────────────────────────────────────────────────────

type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movements.create"); err != nil {
		return err
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

// ListByProduct recorre en orden inverso de inserción: el más reciente primero.
func (r *MovementRepo) ListByProduct(_ context.Context, businessID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.StockMovement{}
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.BusinessID == businessID && m.ProductID == productID {
			c := *m
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), nil
}

func (r *MovementRepo) ListByInvoice(_ context.Context, businessID, invoiceID string) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.StockMovement{}
	for _, m := range r.s.movements {
		if m.BusinessID == businessID && m.InvoiceID != nil && *m.InvoiceID == invoiceID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

// ── Invoices ─────────────────────────────────────────────────────────────────

type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("invoices.create"); err != nil {
		return err
	}
	for _, x := range r.s.invoices {
		if x.BusinessID == inv.BusinessID && x.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = copyInvoice(inv)
	r.s.invOrder = append(r.s.invOrder, inv.ID)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, businessID, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return copyInvoice(inv), nil
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, businessID, id)
}

func (r *InvoiceRepo) GetItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[invoiceID]
	if !ok {
		return []*entity.InvoiceItem{}, nil
	}
	return copyInvoice(inv).Items, nil
}

func (r *InvoiceRepo) List(_ context.Context, businessID string, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Invoice{}
	for i := len(r.s.invOrder) - 1; i >= 0; i-- {
		inv := r.s.invoices[r.s.invOrder[i]]
		if inv.BusinessID != businessID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
			continue
		}
		c := copyInvoice(inv)
		c.Items = nil
		out = append(out, c)
	}
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *InvoiceRepo) UpdatePayment(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("invoices.update_payment"); err != nil {
		return err
	}
	cur, ok := r.s.invoices[inv.ID]
	if !ok || cur.BusinessID != inv.BusinessID {
		return domain.ErrNotFound
	}
	cur.PaidAmount = inv.PaidAmount
	cur.BalanceDue = inv.BalanceDue
	cur.Status = inv.Status
	cur.PaidDate = inv.PaidDate
	cur.UpdatedAt = inv.UpdatedAt
	return nil
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, businessID, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.invoices[id]
	if !ok || cur.BusinessID != businessID {
		return domain.ErrNotFound
	}
	cur.Status = status
	return nil
}

func (r *InvoiceRepo) CountByCustomer(_ context.Context, businessID, customerID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, inv := range r.s.invoices {
		if inv.BusinessID == businessID && inv.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r *InvoiceRepo) CountByProduct(_ context.Context, businessID, productID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, inv := range r.s.invoices {
		if inv.BusinessID != businessID {
			continue
		}
		for _, it := range inv.Items {
			if it.ProductID != nil && *it.ProductID == productID {
				n++
				break
			}
		}
	}
	return n, nil
}

// ── Payments ─────────────────────────────────────────────────────────────────

type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("payments.create"); err != nil {
		return err
	}
	for _, x := range r.s.payments {
		if x.BusinessID == p.BusinessID && x.PaymentNumber == p.PaymentNumber {
			return domain.ErrDuplicate
		}
	}
	c := *p
	r.s.payments = append(r.s.payments, &c)
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, businessID, id string) (*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.payments {
		if p.ID == id && p.BusinessID == businessID {
			c := *p
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *PaymentRepo) ListByInvoice(_ context.Context, businessID, invoiceID string) ([]*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Payment{}
	for _, p := range r.s.payments {
		if p.BusinessID == businessID && p.InvoiceID == invoiceID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *PaymentRepo) List(_ context.Context, businessID string, limit, offset int) ([]*entity.Payment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Payment{}
	for i := len(r.s.payments) - 1; i >= 0; i-- {
		p := r.s.payments[i]
		if p.BusinessID == businessID {
			c := *p
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), len(out), nil
}
