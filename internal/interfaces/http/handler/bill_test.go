package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sid/billing-service/internal/interfaces/http/dto"
)

func TestBillHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates bill with inline items", func(t *testing.T) {
		w := env.do(http.MethodPost, "/bills", `{
			"customerId": 1,
			"billingDate": "2024-03-01T10:00:00Z",
			"productItems": [
				{"productId": 10, "price": "980", "quantity": 2},
				{"productId": 11, "price": 120.5, "quantity": "1"}
			]
		}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		bill := decodeJSON(t, w)
		id := int64(bill["id"].(float64))
		assert.Equal(t, fmt.Sprintf("http://example.com/bills/%d", id), w.Header().Get("Location"))
		assert.Equal(t, w.Header().Get("Location"), href(t, bill, "self"))
		assert.Equal(t, fmt.Sprintf("http://example.com/bills/%d/productItems", id), href(t, bill, "productItems"))
		assert.Equal(t, float64(1), bill["customerId"])
		assert.Equal(t, float64(1), bill["version"])
		assert.Len(t, bill["productItems"], 2)
	})

	t.Run("billing date defaults to now", func(t *testing.T) {
		w := env.do(http.MethodPost, "/bills", `{"customerId": 1}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotEmpty(t, decodeJSON(t, w)["billingDate"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := env.do(http.MethodPost, "/bills", `{"customerId": 1,`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeError(t, w).Code)
	})

	t.Run("missing customer", func(t *testing.T) {
		w := env.do(http.MethodPost, "/bills", `{"billingDate": "2024-03-01T10:00:00Z"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		info := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeValidation, info.Code)
		assert.NotEmpty(t, info.RequestID)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		w := env.do(http.MethodPost, "/bills", `{"customerId": 1, "productItems": [{"productId": 10, "price": 1, "quantity": 0}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decodeError(t, w).Code)
	})
}

func TestBillHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	id := env.createBill(t, 1, 10, 11)

	t.Run("plain resource", func(t *testing.T) {
		w := env.do(http.MethodGet, fmt.Sprintf("/bills/%d", id), "")
		require.Equal(t, http.StatusOK, w.Code)

		bill := decodeJSON(t, w)
		assert.Equal(t, float64(id), bill["id"])
		assert.Equal(t, "2024-03-01T10:00:00Z", bill["billingDate"])
		assert.NotContains(t, bill, "productItems")
		assert.Equal(t, href(t, bill, "self"), href(t, bill, "bill"))
	})

	t.Run("fullBill projection", func(t *testing.T) {
		w := env.do(http.MethodGet, fmt.Sprintf("/bills/%d?projection=fullBill", id), "")
		require.Equal(t, http.StatusOK, w.Code)

		bill := decodeJSON(t, w)
		assert.Equal(t, float64(1), bill["customerId"])
		assert.NotContains(t, bill, "version")
		items := bill["productItems"].([]any)
		require.Len(t, items, 2)
		assert.Equal(t, float64(10), items[0].(map[string]any)["productId"])
		assert.Equal(t, float64(11), items[1].(map[string]any)["productId"])
	})

	t.Run("unknown projection falls back to plain view", func(t *testing.T) {
		w := env.do(http.MethodGet, fmt.Sprintf("/bills/%d?projection=other", id), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, decodeJSON(t, w), "version")
	})

	t.Run("missing bill", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills/999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBillHandler_List(t *testing.T) {
	env := newTestEnv(t)
	for range 3 {
		env.createBill(t, 1)
	}
	env.createBill(t, 2)

	t.Run("pages bills", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills?page=0&size=3", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		bills := body["_embedded"].(map[string]any)["bills"].([]any)
		assert.Len(t, bills, 3)

		page := body["page"].(map[string]any)
		assert.Equal(t, float64(3), page["size"])
		assert.Equal(t, float64(4), page["totalElements"])
		assert.Equal(t, float64(2), page["totalPages"])
		assert.Equal(t, float64(0), page["number"])

		assert.Equal(t, "http://example.com/bills?page=1&size=3", href(t, body, "next"))
		assert.NotContains(t, body["_links"], "prev")
	})

	t.Run("second page", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills?page=1&size=3", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		assert.Len(t, body["_embedded"].(map[string]any)["bills"], 1)
		assert.Equal(t, "http://example.com/bills?page=0&size=3", href(t, body, "prev"))
	})

	t.Run("filters by customer", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills?customer_id=2", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		bills := body["_embedded"].(map[string]any)["bills"].([]any)
		require.Len(t, bills, 1)
		assert.Equal(t, float64(2), bills[0].(map[string]any)["customerId"])
		assert.Equal(t, "http://example.com/bills?page=0&size=20&customer_id=2", href(t, body, "self"))
	})

	t.Run("empty page keeps the envelope", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills?customer_id=99", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		assert.Empty(t, body["_embedded"].(map[string]any)["bills"])
		assert.Equal(t, float64(0), body["page"].(map[string]any)["totalPages"])
	})

	t.Run("size above limit", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills?size=1000", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeError(t, w).Code)
	})

	t.Run("non-numeric page", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills?page=first", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBillHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	id := env.createBill(t, 1)
	path := fmt.Sprintf("/bills/%d", id)

	w := env.do(http.MethodPut, path, `{"customerId": 2, "billingDate": "2024-04-01T00:00:00Z", "version": 1}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	bill := decodeJSON(t, env.do(http.MethodGet, path, ""))
	assert.Equal(t, float64(2), bill["customerId"])
	assert.Equal(t, float64(2), bill["version"])

	t.Run("stale version conflicts", func(t *testing.T) {
		w := env.do(http.MethodPut, path, `{"customerId": 3, "billingDate": "2024-04-01T00:00:00Z", "version": 1}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeConcurrencyConflict, decodeError(t, w).Code)
	})

	t.Run("version required", func(t *testing.T) {
		w := env.do(http.MethodPut, path, `{"customerId": 3, "billingDate": "2024-04-01T00:00:00Z"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing bill", func(t *testing.T) {
		w := env.do(http.MethodPut, "/bills/999", `{"customerId": 3, "billingDate": "2024-04-01T00:00:00Z", "version": 1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBillHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	id := env.createBill(t, 1, 10)

	items := decodeJSON(t, env.do(http.MethodGet, fmt.Sprintf("/bills/%d/productItems", id), ""))
	item := items["_embedded"].(map[string]any)["productItems"].([]any)[0].(map[string]any)
	itemID := int64(item["id"].(float64))

	w := env.do(http.MethodDelete, fmt.Sprintf("/bills/%d", id), "")
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, fmt.Sprintf("/bills/%d", id), "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, fmt.Sprintf("/productItems/%d", itemID), "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, fmt.Sprintf("/bills/%d", id), "").Code)
}

func TestBillHandler_ListItems(t *testing.T) {
	env := newTestEnv(t)
	id := env.createBill(t, 1, 10, 11)

	w := env.do(http.MethodGet, fmt.Sprintf("/bills/%d/productItems", id), "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	items := body["_embedded"].(map[string]any)["productItems"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.IsType(t, float64(0), first["price"])
	assert.Equal(t, 9.99, first["price"])
	assert.Equal(t, float64(2), first["quantity"])
	assert.Contains(t, href(t, first, "bill"), "/productItems/")
	assert.Equal(t, fmt.Sprintf("http://example.com/bills/%d/productItems", id), href(t, body, "self"))
	assert.NotContains(t, body, "page")

	t.Run("missing bill", func(t *testing.T) {
		w := env.do(http.MethodGet, "/bills/999/productItems", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
