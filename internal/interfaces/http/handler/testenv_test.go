package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	billingapp "github.com/sid/billing-service/internal/application/billing"
	"github.com/sid/billing-service/internal/infrastructure/config"
	"github.com/sid/billing-service/internal/infrastructure/persistence"
	"github.com/sid/billing-service/internal/infrastructure/remote"
	"github.com/sid/billing-service/internal/interfaces/http/middleware"
)

// fakeRemote serves /customers/{id} and /products/{id} from fixed maps.
// failWith, when set, answers every request with that status.
type fakeRemote struct {
	mu        sync.Mutex
	resources map[string]any
	failWith  int
	delay     time.Duration
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	resource, ok := f.resources[r.URL.Path]
	failWith, delay := f.failWith, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if failWith != 0 {
		w.WriteHeader(failWith)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/hal+json")
	_ = json.NewEncoder(w).Encode(resource)
}

func (f *fakeRemote) set(fn func(*fakeRemote)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// testEnv wires handlers over an in-memory database and fake remotes
type testEnv struct {
	engine    *gin.Engine
	customers *fakeRemote
	inventory *fakeRemote
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		customers: &fakeRemote{resources: map[string]any{
			"/customers/1": map[string]any{"id": 1, "name": "Alice", "email": "alice@example.com"},
		}},
		inventory: &fakeRemote{resources: map[string]any{
			"/products/10": map[string]any{"id": 10, "name": "Computer", "price": 980},
			"/products/11": map[string]any{"id": 11, "name": "Printer", "price": "120.50"},
		}},
	}
	customerSrv := httptest.NewServer(env.customers)
	inventorySrv := httptest.NewServer(env.inventory)
	t.Cleanup(customerSrv.Close)
	t.Cleanup(inventorySrv.Close)

	customerClient, err := remote.NewCustomerClient(remote.Config{BaseURL: customerSrv.URL, Timeout: 200 * time.Millisecond})
	require.NoError(t, err)
	inventoryClient, err := remote.NewInventoryClient(remote.Config{BaseURL: inventorySrv.URL, Timeout: 200 * time.Millisecond})
	require.NoError(t, err)

	billRepo := persistence.NewGormBillRepository(db.DB)
	itemRepo := persistence.NewGormProductItemRepository(db.DB)
	bills := billingapp.NewBillService(billRepo, itemRepo, nil, nil)
	items := billingapp.NewProductItemService(itemRepo, billRepo)
	enrichment := billingapp.NewEnrichmentService(billRepo, customerClient, inventoryClient)

	base := NewBaseHandler("")
	billHandler := NewBillHandler(base, bills)
	itemHandler := NewProductItemHandler(base, items, bills)
	fullBillHandler := NewFullBillHandler(base, enrichment)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	engine.GET("/bills", billHandler.List)
	engine.POST("/bills", billHandler.Create)
	engine.GET("/bills/:id", billHandler.Get)
	engine.PUT("/bills/:id", billHandler.Update)
	engine.DELETE("/bills/:id", billHandler.Delete)
	engine.GET("/bills/:id/productItems", billHandler.ListItems)

	engine.GET("/productItems", itemHandler.List)
	engine.POST("/productItems", itemHandler.Create)
	engine.GET("/productItems/:id", itemHandler.Get)
	engine.GET("/productItems/:id/bill", itemHandler.GetBill)
	engine.PUT("/productItems/:id", itemHandler.Update)
	engine.DELETE("/productItems/:id", itemHandler.Delete)

	engine.GET("/fullBill/:id", fullBillHandler.Get)

	env.engine = engine
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// createBill posts a bill for customerID with the given products and
// returns the new bill's id
func (e *testEnv) createBill(t *testing.T, customerID int64, productIDs ...int64) int64 {
	t.Helper()
	items := make([]string, len(productIDs))
	for i, id := range productIDs {
		items[i] = fmt.Sprintf(`{"productId": %d, "price": "9.99", "quantity": 2}`, id)
	}
	body := fmt.Sprintf(`{"customerId": %d, "billingDate": "2024-03-01T10:00:00Z", "productItems": [%s]}`,
		customerID, strings.Join(items, ","))

	w := e.do(http.MethodPost, "/bills", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created.ID
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func href(t *testing.T, resource map[string]any, rel string) string {
	t.Helper()
	links, ok := resource["_links"].(map[string]any)
	require.True(t, ok, "resource has no _links")
	link, ok := links[rel].(map[string]any)
	require.True(t, ok, "missing link %q", rel)
	return link["href"].(string)
}
