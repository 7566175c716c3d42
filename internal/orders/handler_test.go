package orders

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead-erp/farmstead-erp/internal/stock"
)

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(repo *mockRepository) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := newTestService(repo, ServiceConfig{})
	h := NewHandler(logger, svc)

	r := chi.NewRouter()
	h.MountRoutes(r, passthrough)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func msgOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Msg
}

func TestCreateOrderEndpoint(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)

	rec := doJSON(t, r, http.MethodPost, "/orders", map[string]any{"buyer_id": 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order OrderWithDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, StatusOngoing, order.Status)
	assert.Equal(t, "Green Valley Market", order.BuyerName)
}

func TestCreateOrderMissingBuyerID(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)

	rec := doJSON(t, r, http.MethodPost, "/orders", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", msgOf(t, rec))
}

func TestGetOrderNotFound(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)

	rec := doJSON(t, r, http.MethodGet, "/orders/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", msgOf(t, rec))
}

func TestAddItemEndpointInsufficientStock(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)
	seedOrder(repo, StatusOngoing)
	seedPool(repo, stock.TypeEgg, 3, 10)

	rec := doJSON(t, r, http.MethodPost, "/orders/1/items", map[string]any{
		"egg_record_id": 3,
		"quantity":      50,
		"unit_price":    1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient stock quantity", msgOf(t, rec))
}

func TestAddItemEndpointTwoRefs(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)
	seedOrder(repo, StatusOngoing)
	seedPool(repo, stock.TypeInventory, 1, 100)
	seedPool(repo, stock.TypeEgg, 2, 100)

	rec := doJSON(t, r, http.MethodPost, "/orders/1/items", map[string]any{
		"inventory_id":  1,
		"egg_record_id": 2,
		"quantity":      5,
		"unit_price":    1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Exactly one stock reference is required", msgOf(t, rec))
}

func TestItemOwnershipCheckedAgainstPath(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)
	seedOrder(repo, StatusOngoing)
	seedOrder(repo, StatusOngoing)
	seedPool(repo, stock.TypeInventory, 1, 100)

	rec := doJSON(t, r, http.MethodPost, "/orders/1/items", map[string]any{
		"inventory_id": 1,
		"quantity":     5,
		"unit_price":   2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// the item belongs to order 1, so the order 2 path returns 404
	rec = doJSON(t, r, http.MethodGet, "/orders/2/items/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order item not found", msgOf(t, rec))

	rec = doJSON(t, r, http.MethodGet, "/orders/1/items/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteOrderEndpointRestoresStock(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)
	seedOrder(repo, StatusOngoing)
	ref := seedPool(repo, stock.TypeInventory, 1, 100)

	rec := doJSON(t, r, http.MethodPost, "/orders/1/items", map[string]any{
		"inventory_id": 1,
		"quantity":     40,
		"unit_price":   2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 60.0, repo.pools[ref].quantity)

	rec = doJSON(t, r, http.MethodDelete, "/orders/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order deleted successfully", msgOf(t, rec))
	assert.Equal(t, 100.0, repo.pools[ref].quantity)
}

func TestListOrdersEndpointReturnsBareArray(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)
	seedOrder(repo, StatusOngoing)
	seedOrder(repo, StatusCompleted)

	rec := doJSON(t, r, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	var orders []OrderWithDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}

func TestListItemsEndpointReturnsBareArray(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)
	seedOrder(repo, StatusOngoing)
	seedPool(repo, stock.TypeInventory, 1, 100)

	rec := doJSON(t, r, http.MethodPost, "/orders/1/items", map[string]any{
		"inventory_id": 1,
		"quantity":     5,
		"unit_price":   2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/orders/1/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []ItemWithDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 5.0, items[0].Quantity)
}

func TestListOrdersEndpointBadStatusFilter(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)

	rec := doJSON(t, r, http.MethodGet, "/orders?status=Pending", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid order status", msgOf(t, rec))
}

func TestInvalidOrderIDPath(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)

	rec := doJSON(t, r, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid order id", msgOf(t, rec))
}

func TestUpdateStatusEndpoint(t *testing.T) {
	repo := newMockRepository()
	r := newTestRouter(repo)
	seedOrder(repo, StatusOngoing)

	rec := doJSON(t, r, http.MethodPatch, "/orders/1/status", map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	var order OrderWithDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, StatusCompleted, order.Status)
}
