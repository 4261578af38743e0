package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sid/billing-service/internal/interfaces/http/dto"
)

func TestProductItemHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	billID := env.createBill(t, 1)

	t.Run("adds item to bill", func(t *testing.T) {
		w := env.do(http.MethodPost, "/productItems",
			fmt.Sprintf(`{"billId": %d, "productId": 10, "price": "980.00", "quantity": 3}`, billID))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		item := decodeJSON(t, w)
		id := int64(item["id"].(float64))
		assert.Equal(t, fmt.Sprintf("http://example.com/productItems/%d", id), w.Header().Get("Location"))
		assert.Equal(t, href(t, item, "self"), href(t, item, "productItem"))
		assert.Equal(t, fmt.Sprintf("http://example.com/productItems/%d/bill", id), href(t, item, "bill"))
		assert.Equal(t, float64(billID), item["billId"])
		assert.Equal(t, float64(1), item["version"])
		assert.Equal(t, float64(980), item["price"])
		assert.Equal(t, float64(3), item["quantity"])
	})

	t.Run("unknown bill", func(t *testing.T) {
		w := env.do(http.MethodPost, "/productItems", `{"billId": 999, "productId": 10, "price": 1, "quantity": 1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Code)
	})

	t.Run("negative price", func(t *testing.T) {
		w := env.do(http.MethodPost, "/productItems",
			fmt.Sprintf(`{"billId": %d, "productId": 10, "price": -1, "quantity": 1}`, billID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		info := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeInvalidInput, info.Code)
		assert.Equal(t, "Price cannot be negative", info.Message)
	})

	t.Run("bad price literal", func(t *testing.T) {
		w := env.do(http.MethodPost, "/productItems",
			fmt.Sprintf(`{"billId": %d, "productId": 10, "price": "cheap", "quantity": 1}`, billID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeError(t, w).Code)
	})
}

func TestProductItemHandler_GetAndBill(t *testing.T) {
	env := newTestEnv(t)
	billID := env.createBill(t, 1, 10)

	list := decodeJSON(t, env.do(http.MethodGet, fmt.Sprintf("/productItems?bill_id=%d", billID), ""))
	items := list["_embedded"].(map[string]any)["productItems"].([]any)
	require.Len(t, items, 1)
	itemID := int64(items[0].(map[string]any)["id"].(float64))

	w := env.do(http.MethodGet, fmt.Sprintf("/productItems/%d", itemID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), decodeJSON(t, w)["productId"])

	w = env.do(http.MethodGet, fmt.Sprintf("/productItems/%d/bill", itemID), "")
	require.Equal(t, http.StatusOK, w.Code)
	bill := decodeJSON(t, w)
	assert.Equal(t, float64(billID), bill["id"])
	assert.Equal(t, fmt.Sprintf("http://example.com/bills/%d", billID), href(t, bill, "self"))

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/productItems/999", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/productItems/999/bill", "").Code)
}

func TestProductItemHandler_List(t *testing.T) {
	env := newTestEnv(t)
	first := env.createBill(t, 1, 10, 11)
	env.createBill(t, 1, 10)

	t.Run("all items", func(t *testing.T) {
		body := decodeJSON(t, env.do(http.MethodGet, "/productItems", ""))
		assert.Equal(t, float64(3), body["page"].(map[string]any)["totalElements"])
	})

	t.Run("by bill", func(t *testing.T) {
		body := decodeJSON(t, env.do(http.MethodGet, fmt.Sprintf("/productItems?bill_id=%d", first), ""))
		assert.Len(t, body["_embedded"].(map[string]any)["productItems"], 2)
	})

	t.Run("by product", func(t *testing.T) {
		body := decodeJSON(t, env.do(http.MethodGet, "/productItems?product_id=10&size=1", ""))
		assert.Len(t, body["_embedded"].(map[string]any)["productItems"], 1)
		assert.Equal(t, float64(2), body["page"].(map[string]any)["totalPages"])
		assert.Equal(t, "http://example.com/productItems?page=1&size=1&product_id=10", href(t, body, "next"))
	})
}

func TestProductItemHandler_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	billID := env.createBill(t, 1)
	other := env.createBill(t, 1)

	w := env.do(http.MethodPost, "/productItems",
		fmt.Sprintf(`{"billId": %d, "productId": 10, "price": 5, "quantity": 1}`, billID))
	require.Equal(t, http.StatusCreated, w.Code)
	path := fmt.Sprintf("/productItems/%d", int64(decodeJSON(t, w)["id"].(float64)))

	t.Run("moves item to another bill", func(t *testing.T) {
		w := env.do(http.MethodPut, path,
			fmt.Sprintf(`{"billId": %d, "productId": 11, "price": 6, "quantity": 2, "version": 1}`, other))
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		item := decodeJSON(t, env.do(http.MethodGet, path, ""))
		assert.Equal(t, float64(other), item["billId"])
		assert.Equal(t, float64(2), item["version"])
	})

	t.Run("stale version", func(t *testing.T) {
		w := env.do(http.MethodPut, path,
			fmt.Sprintf(`{"billId": %d, "productId": 11, "price": 6, "quantity": 2, "version": 1}`, other))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown target bill", func(t *testing.T) {
		w := env.do(http.MethodPut, path, `{"billId": 999, "productId": 11, "price": 6, "quantity": 2, "version": 2}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path, "").Code)
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, "").Code)
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, "").Code)
	})
}
