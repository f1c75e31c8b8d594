package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/analytics"
	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/inventory"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/cache"
	apphttp "github.com/jhoicas/facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/facturacion-api/internal/testutil"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

type apiFixture struct {
	app      *fiber.App
	store    *testutil.Store
	business *entity.Business
	customer *entity.Customer
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	s := testutil.NewStore()
	r := s.Repos()
	log := logger.Nop()
	mem := cache.NewMemoryCache(time.Minute, time.Minute)

	deps := apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(s, r.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		UserUC:      usecase.NewUserUseCase(r.Users),
		BusinessUC:  usecase.NewBusinessUseCase(r.Businesses, mem, log),
		ProductUC:   usecase.NewProductUseCase(s, r.Products, r.Movements, r.Invoices),
		StockUC:     inventory.NewStockUseCase(s, r.Products, r.Movements, log),
		CustomerUC:  billing.NewCustomerUseCase(r.Customers, r.Invoices),
		InvoiceUC:   billing.NewInvoiceUseCase(s, r.Customers, r.Invoices, log),
		PaymentUC:   billing.NewPaymentUseCase(s, r.Invoices, r.Payments, log),
		SettingsUC:  billing.NewSettingsUseCase(r.Settings),
		DashboardUC: analytics.NewDashboardUseCase(s.Analytics(), mem, time.Minute, log),
		JWTSecret:   testJWTSecret,
		Cookie:      apphttp.CookieConfig{Name: testCookie},
		Log:         log,
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, deps)

	b := s.SeedBusiness("Ferretería Norte")
	return &apiFixture{app: app, store: s, business: b, customer: s.SeedCustomer(b.ID, "Cliente Uno")}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func (f *apiFixture) invoiceBody(productID string, qty int) map[string]any {
	return map[string]any{
		"customerId": f.customer.ID,
		"dueDate":    time.Now().AddDate(0, 0, 30).Format(time.RFC3339),
		"items": []map[string]any{{
			"productId":   productID,
			"description": "Tornillo",
			"quantity":    qty,
			"unitPrice":   "10",
			"taxRate":     "0",
		}},
	}
}

func TestHealth(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateInvoice_DescuentaStock(t *testing.T) {
	f := newAPI(t)
	p := f.store.SeedProduct(f.business.ID, "TOR-1", "10", 5, true)
	tok := tokenFor(t, f.business.ID, entity.RoleStaff)

	resp, body := f.do(t, http.MethodPost, "/api/invoices", tok, f.invoiceBody(p.ID, 3))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "INV-00001", body["invoiceNumber"])
	assert.Equal(t, "30", body["totalAmount"])
	assert.Equal(t, 2, f.store.Product(p.ID).StockQuantity)
}

func TestCreateInvoice_StockInsuficiente409(t *testing.T) {
	f := newAPI(t)
	p := f.store.SeedProduct(f.business.ID, "TOR-1", "10", 2, true)
	tok := tokenFor(t, f.business.ID, entity.RoleStaff)

	resp, body := f.do(t, http.MethodPost, "/api/invoices", tok, f.invoiceBody(p.ID, 5))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	items, ok := details["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, f.store.Product(p.ID).StockQuantity)
	assert.Empty(t, f.store.Invoices())
}

func TestCreateInvoice_BusinessIDDeOtraEmpresa401(t *testing.T) {
	f := newAPI(t)
	other := f.store.SeedBusiness("Otra")
	p := f.store.SeedProduct(f.business.ID, "TOR-1", "10", 5, true)
	tok := tokenFor(t, f.business.ID, entity.RoleAdmin)

	in := f.invoiceBody(p.ID, 1)
	in["businessId"] = other.ID
	resp, body := f.do(t, http.MethodPost, "/api/invoices", tok, in)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.Equal(t, 5, f.store.Product(p.ID).StockQuantity)
}

func TestLedger_EmpresaPendiente403(t *testing.T) {
	f := newAPI(t)
	require.NoError(t, f.store.Repos().Businesses.UpdateStatus(context.Background(), f.business.ID, entity.BusinessStatusPending))
	tok := tokenFor(t, f.business.ID, entity.RoleAdmin)

	resp, body := f.do(t, http.MethodGet, "/api/invoices", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "BUSINESS_NOT_ACTIVE", body["code"])
}

func TestLedger_SinToken401(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_SoloSuperadmin(t *testing.T) {
	f := newAPI(t)

	resp, _ := f.do(t, http.MethodGet, "/api/admin/businesses", tokenFor(t, f.business.ID, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/admin/businesses", tokenFor(t, "", entity.RoleSuperAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, body["items"])
}

func TestInventory_AddStockYKardex(t *testing.T) {
	f := newAPI(t)
	p := f.store.SeedProduct(f.business.ID, "TOR-1", "10", 0, true)
	tok := tokenFor(t, f.business.ID, entity.RoleStaff)

	resp, body := f.do(t, http.MethodPost, "/api/inventory", tok, map[string]any{"productId": p.ID, "quantity": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, 4, f.store.Product(p.ID).StockQuantity)

	resp, body = f.do(t, http.MethodGet, "/api/inventory/"+p.ID+"/movements", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	movs, ok := body["movements"].([]any)
	require.True(t, ok)
	assert.Len(t, movs, 1)
}

func TestPayment_MarcaFacturaPagada(t *testing.T) {
	f := newAPI(t)
	p := f.store.SeedProduct(f.business.ID, "TOR-1", "10", 5, true)
	tok := tokenFor(t, f.business.ID, entity.RoleStaff)

	resp, inv := f.do(t, http.MethodPost, "/api/invoices", tok, f.invoiceBody(p.ID, 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode, inv)

	resp, body := f.do(t, http.MethodPost, "/api/payments", tok, map[string]any{
		"invoiceId":     inv["id"],
		"amount":        "20",
		"paymentMethod": "cash",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	invoice, ok := body["invoice"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, entity.InvoiceStatusPaid, invoice["status"])
	assert.Equal(t, "0", invoice["balanceDue"])
}

func TestNotFound_RutaDesconocida(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/api/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "HTTP_NOT_FOUND", body["code"])
}
