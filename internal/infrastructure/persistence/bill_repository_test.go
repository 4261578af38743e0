package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sid/billing-service/internal/domain/billing"
	"github.com/sid/billing-service/internal/domain/shared"
)

func newTestBill(t *testing.T, customerID int64) *billing.Bill {
	t.Helper()
	bill, err := billing.NewBill(customerID, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return bill
}

func TestGormBillRepository_ImplementsInterface(t *testing.T) {
	var _ billing.BillRepository = NewGormBillRepository(nil)
}

func TestGormBillRepository_Create(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormBillRepository(db)
	ctx := context.Background()

	t.Run("assigns distinct ids", func(t *testing.T) {
		first := newTestBill(t, 1)
		second := newTestBill(t, 1)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		assert.NotZero(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("creates inline items in order", func(t *testing.T) {
		bill := newTestBill(t, 2)
		_, err := bill.AddItem(7, decimal.NewFromFloat(9.99), decimal.NewFromInt(2))
		require.NoError(t, err)
		_, err = bill.AddItem(8, decimal.NewFromInt(1), decimal.NewFromInt(30))
		require.NoError(t, err)

		require.NoError(t, repo.Create(ctx, bill))
		require.Len(t, bill.ProductItems, 2)
		for _, item := range bill.ProductItems {
			assert.NotZero(t, item.ID)
			assert.Equal(t, bill.ID, item.BillID)
		}

		loaded, err := repo.FindByIDWithItems(ctx, bill.ID)
		require.NoError(t, err)
		require.Len(t, loaded.ProductItems, 2)
		assert.Equal(t, int64(7), loaded.ProductItems[0].ProductID)
		assert.Equal(t, int64(8), loaded.ProductItems[1].ProductID)
		assert.True(t, decimal.NewFromFloat(9.99).Equal(loaded.ProductItems[0].Price))
	})
}

func TestGormBillRepository_FindByID(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormBillRepository(db)
	ctx := context.Background()

	bill := newTestBill(t, 5)
	require.NoError(t, repo.Create(ctx, bill))

	t.Run("finds existing bill without items", func(t *testing.T) {
		got, err := repo.FindByID(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, bill.ID, got.ID)
		assert.Equal(t, int64(5), got.CustomerID)
		assert.True(t, bill.BillingDate.Equal(got.BillingDate))
		assert.Equal(t, 1, got.Version)
		assert.Empty(t, got.ProductItems)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByIDWithItems(ctx, 999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("bill without items has empty item list", func(t *testing.T) {
		got, err := repo.FindByIDWithItems(ctx, bill.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.ProductItems)
		assert.Empty(t, got.ProductItems)
	})
}

func TestGormBillRepository_FindAllAndCount(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormBillRepository(db)
	ctx := context.Background()

	for _, customerID := range []int64{1, 2, 1, 1} {
		require.NoError(t, repo.Create(ctx, newTestBill(t, customerID)))
	}

	t.Run("pages in id order", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 3

		page1, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page1, 3)
		assert.Less(t, page1[0].ID, page1[1].ID)

		filter.Page = 2
		page2, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page2, 1)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("filters by customer", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["customer_id"] = int64(1)

		bills, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, bills, 3)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("orders descending", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderDir = "desc"

		bills, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, bills, 4)
		assert.Greater(t, bills[0].ID, bills[3].ID)
	})
}

func TestGormBillRepository_Update(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormBillRepository(db)
	ctx := context.Background()

	bill := newTestBill(t, 1)
	require.NoError(t, repo.Create(ctx, bill))

	t.Run("replaces fields and bumps version", func(t *testing.T) {
		newDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, bill.Replace(9, newDate))
		require.NoError(t, repo.Update(ctx, bill))
		assert.Equal(t, 2, bill.Version)

		got, err := repo.FindByID(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.CustomerID)
		assert.True(t, newDate.Equal(got.BillingDate))
		assert.Equal(t, 2, got.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale := *bill
		stale.Version = 1
		err := repo.Update(ctx, &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("missing bill is not found", func(t *testing.T) {
		missing := newTestBill(t, 1)
		missing.ID = 12345
		err := repo.Update(ctx, missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBillRepository_Delete(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormBillRepository(db)
	itemRepo := NewGormProductItemRepository(db)
	ctx := context.Background()

	bill := newTestBill(t, 1)
	_, err := bill.AddItem(7, decimal.NewFromInt(1), decimal.NewFromInt(1))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, bill))

	other := newTestBill(t, 2)
	_, err = other.AddItem(8, decimal.NewFromInt(1), decimal.NewFromInt(1))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	t.Run("cascades to items", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, bill.ID))

		_, err := repo.FindByID(ctx, bill.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		items, err := itemRepo.FindByBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		remaining, err := itemRepo.FindByBill(ctx, other.ID)
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})

	t.Run("unknown bill is not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, bill.ID), shared.ErrNotFound)
	})
}
