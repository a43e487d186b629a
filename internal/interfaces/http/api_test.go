package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/primegestor/primegestor-api/internal/application/audit"
	"github.com/primegestor/primegestor-api/internal/application/auth"
	"github.com/primegestor/primegestor-api/internal/application/inventory"
	"github.com/primegestor/primegestor-api/internal/application/report"
	"github.com/primegestor/primegestor-api/internal/application/usecase"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/infrastructure/memory"
	apphttp "github.com/primegestor/primegestor-api/internal/interfaces/http"
	"github.com/primegestor/primegestor-api/pkg/logger"
	"github.com/primegestor/primegestor-api/pkg/metrics"
	pkgjwt "github.com/primegestor/primegestor-api/pkg/jwt"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
	admin string
	staff string
}

// newTestServer arma la API completa sobre el store en memoria, con auditoría síncrona.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	reg := prometheus.NewRegistry()
	recorder := audit.Sync{Repo: store.ActivityLogs(), Log: log}

	deps := inventory.Deps{
		Tx:         store,
		Products:   store.Products(),
		Suppliers:  store.Suppliers(),
		Customers:  store.Customers(),
		Audit:      recorder,
		Metrics:    metrics.NewInventoryMetrics(reg),
		Log:        log,
		MaxRetries: 1,
		Backoff:    time.Millisecond,
	}
	jwtCfg := auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}

	app := apphttp.NewApp("primegestor-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(store.Users(), jwtCfg).WithBcryptCost(bcrypt.MinCost),
		UserUC:      usecase.NewUserUseCase(store.Users()),
		WarehouseUC: usecase.NewWarehouseUseCase(store.Warehouses()),
		ProductUC:   usecase.NewProductUseCase(store.Products(), store.Warehouses(), store.Suppliers(), recorder),
		SupplierUC:  usecase.NewSupplierUseCase(store.Suppliers()),
		CustomerUC:  usecase.NewCustomerUseCase(store.Customers()),
		ActivityUC:  usecase.NewActivityLogUseCase(store.ActivityLogs()),
		Purchase:    inventory.NewCreatePurchaseUseCase(deps),
		Sale:        inventory.NewCreateSaleUseCase(deps),
		Query:       inventory.NewQueryUseCase(store.Products(), store.Sales(), store.Purchases(), store.Batches(), store.Movements()),
		Reports:     report.NewReportUseCase(store.Reports()),
		JWTSecret:   testJWTSecret,
		Gatherer:    reg,
		Log:         log,
	})

	return &testServer{
		app:   app,
		store: store,
		admin: seedUser(t, store, entity.RoleAdmin),
		staff: seedUser(t, store, entity.RoleStaff),
	}
}

// seedUser crea el usuario en el store y devuelve su header Authorization.
func seedUser(t *testing.T, store *memory.Store, role string) string {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		ID: uuid.NewString(), Email: role + "@primegestor.test", Name: role,
		Role: role, Status: "active", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Users().Create(context.Background(), u))
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *testServer) do(t *testing.T, method, path, authHeader string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) create(t *testing.T, path string, body any) string {
	t.Helper()
	status, out := s.do(t, http.MethodPost, path, s.admin, body)
	require.Equal(t, http.StatusCreated, status, "%v", out)
	id, _ := out["id"].(string)
	require.NotEmpty(t, id)
	return id
}

type catalog struct {
	supplierID, customerID, productID string
}

func (s *testServer) seedCatalog(t *testing.T) catalog {
	t.Helper()
	return catalog{
		supplierID: s.create(t, "/api/suppliers", map[string]any{"name": "Distribuidora Norte"}),
		customerID: s.create(t, "/api/customers", map[string]any{"name": "Cliente Mostrador"}),
		productID:  s.create(t, "/api/products", map[string]any{"sku": "CAF-500", "name": "Café 500g", "price": "25", "min_quantity": 5}),
	}
}

func (s *testServer) buy(t *testing.T, c catalog, qty int, price string) map[string]any {
	t.Helper()
	status, out := s.do(t, http.MethodPost, "/api/purchases", s.admin, map[string]any{
		"supplier_id": c.supplierID, "product_id": c.productID,
		"purchased_quantity": qty, "purchase_price": price,
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	return out
}

func TestAPI_CompraYVentaFIFO(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)

	p1 := s.buy(t, c, 5, "10")
	assert.Equal(t, "50", p1["total_cost"])
	batch := p1["batch"].(map[string]any)
	assert.EqualValues(t, 5, batch["quantity_remaining"])
	assert.EqualValues(t, 5, p1["product"].(map[string]any)["quantity"])
	s.buy(t, c, 5, "20")

	status, sale := s.do(t, http.MethodPost, "/api/sales", s.staff, map[string]any{
		"customer_id": c.customerID, "product_id": c.productID,
		"sold_quantity": 7, "sale_price": "25",
	})
	require.Equal(t, http.StatusCreated, status, "%v", sale)
	assert.Equal(t, "90", sale["cost_of_goods_sold"])
	assert.Equal(t, "175", sale["revenue"])
	assert.Equal(t, "85", sale["profit"])
	assert.Len(t, sale["consumptions"], 2)
	assert.EqualValues(t, 3, sale["product"].(map[string]any)["quantity"])

	_, product := s.do(t, http.MethodGet, "/api/products/"+c.productID, s.staff, nil)
	assert.EqualValues(t, 3, product["quantity"])

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+c.productID+"/batches", nil)
	req.Header.Set("Authorization", s.staff)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	var batches []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&batches))
	resp.Body.Close()
	require.Len(t, batches, 2)
	assert.EqualValues(t, 0, batches[0]["quantity_remaining"])
	assert.EqualValues(t, 3, batches[1]["quantity_remaining"])

	_, movements := s.do(t, http.MethodGet, "/api/products/"+c.productID+"/movements", s.staff, nil)
	items := movements["items"].([]any)
	require.Len(t, items, 3)
	// Más reciente primero: la salida de la venta.
	out := items[0].(map[string]any)
	assert.Equal(t, "OUT", out["type"])
	assert.EqualValues(t, -7, out["quantity"])
	assert.Equal(t, sale["id"], out["reference"])

	_, fetched := s.do(t, http.MethodGet, "/api/sales/"+sale["id"].(string), s.staff, nil)
	assert.Equal(t, "90", fetched["cost_of_goods_sold"])
}

func TestAPI_StockInsuficiente(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)
	s.buy(t, c, 2, "10")

	status, body := s.do(t, http.MethodPost, "/api/sales", s.staff, map[string]any{
		"customer_id": c.customerID, "product_id": c.productID,
		"sold_quantity": 5, "sale_price": "25",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Contains(t, body["message"], "disponible 2")
	assert.Contains(t, body["message"], "solicitado 5")

	_, product := s.do(t, http.MethodGet, "/api/products/"+c.productID, s.staff, nil)
	assert.EqualValues(t, 2, product["quantity"])
}

func TestAPI_ValidacionPorCampo(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)

	status, body := s.do(t, http.MethodPost, "/api/sales", s.staff, map[string]any{
		"customer_id": c.customerID, "product_id": c.productID, "sold_quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "sold_quantity")
	assert.Contains(t, fields, "sale_price")
}

func TestAPI_CuerpoMalformado(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.staff)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ReferenciasInexistentes(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)

	status, body := s.do(t, http.MethodPost, "/api/purchases", s.admin, map[string]any{
		"supplier_id": uuid.NewString(), "product_id": c.productID,
		"purchased_quantity": 1, "purchase_price": "10",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, _ = s.do(t, http.MethodGet, "/api/products/"+uuid.NewString(), s.staff, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_StaffNoPuedeComprar(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)

	status, body := s.do(t, http.MethodPost, "/api/purchases", s.staff, map[string]any{
		"supplier_id": c.supplierID, "product_id": c.productID,
		"purchased_quantity": 1, "purchase_price": "10",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = s.do(t, http.MethodGet, "/api/reports/stock-valuation", s.staff, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAPI_DesincronizacionRetornaErrorGenerico(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)
	s.buy(t, c, 2, "10")
	// Product.quantity queda en 7 pero los lotes solo cubren 2.
	require.NoError(t, s.store.Products().AdjustQuantity(context.Background(), c.productID, 5))

	status, body := s.do(t, http.MethodPost, "/api/sales", s.staff, map[string]any{
		"customer_id": c.customerID, "product_id": c.productID,
		"sold_quantity": 6, "sale_price": "25",
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.NotContains(t, body["message"], c.productID)

	batches, err := s.store.Batches().ListByProduct(context.Background(), c.productID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, int64(2), batches[0].QuantityRemaining)
}

func TestAPI_Reportes(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)
	s.buy(t, c, 5, "10")
	s.buy(t, c, 5, "20")
	status, _ := s.do(t, http.MethodPost, "/api/sales", s.staff, map[string]any{
		"customer_id": c.customerID, "product_id": c.productID,
		"sold_quantity": 7, "sale_price": "25",
	})
	require.Equal(t, http.StatusCreated, status)

	_, sales := s.do(t, http.MethodGet, "/api/reports/sales", s.admin, nil)
	rows := sales["rows"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.EqualValues(t, 7, row["units_sold"])
	assert.Equal(t, "90", row["cogs"])
	assert.Equal(t, "85", row["profit"])

	_, valuation := s.do(t, http.MethodGet, "/api/reports/stock-valuation", s.admin, nil)
	assert.Equal(t, "60", valuation["total_value"])

	_, low := s.do(t, http.MethodGet, "/api/reports/low-stock", s.admin, nil)
	assert.EqualValues(t, 1, low["total"])

	status, body := s.do(t, http.MethodGet, "/api/reports/sales?from=2024-13-01", s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAPI_AuditoriaRegistraVenta(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)
	s.buy(t, c, 3, "10")
	status, sale := s.do(t, http.MethodPost, "/api/sales", s.staff, map[string]any{
		"customer_id": c.customerID, "product_id": c.productID,
		"sold_quantity": 1, "sale_price": "25",
	})
	require.Equal(t, http.StatusCreated, status)

	_, logs := s.do(t, http.MethodGet, "/api/activity-logs", s.admin, nil)
	items := logs["items"].([]any)
	require.NotEmpty(t, items)
	latest := items[0].(map[string]any)
	assert.Equal(t, "SALE", latest["action"])
	assert.Equal(t, sale["id"], latest["entity_id"])
}

func TestAPI_RegistroLoginYMe(t *testing.T) {
	s := newTestServer(t)

	status, user := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "Ana@Tienda.co", "password": "secreto123", "name": "Ana", "role": "manager",
	})
	require.Equal(t, http.StatusCreated, status, "%v", user)
	assert.Equal(t, "ana@tienda.co", user["email"])

	status, _ = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "ana@tienda.co", "password": "secreto123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ana@tienda.co", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "nadie@tienda.co", "password": "secreto123",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, login := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ana@tienda.co", "password": "secreto123",
	})
	require.Equal(t, http.StatusOK, status)
	token := login["token"].(string)

	status, me := s.do(t, http.MethodGet, "/api/auth/me", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, user["id"], me["id"])
	assert.Equal(t, "manager", me["role"])
}

func TestAPI_HealthYMetrics(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog(t)
	s.buy(t, c, 1, "10")

	status, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `inventory_operations_total{operation="purchase",outcome="success"} 1`)
}
