package repository

import (
	"context"
	"testing"
	"time"

	"shams-elarab/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(phone string) *model.Order {
	return &model.Order{
		ProductID:   "go-basics",
		ProductType: model.ProductTypeCourse,
		Items: []model.OrderItem{
			{Title: "Go Basics", Type: model.ProductTypeCourse, Price: decimal.RequireFromString("100")},
		},
		Breakdown: model.PriceBreakdown{
			Subtotal:      decimal.RequireFromString("100"),
			Discount:      decimal.RequireFromString("20"),
			Tax:           decimal.RequireFromString("15"),
			Total:         decimal.RequireFromString("115"),
			OriginalPrice: decimal.RequireFromString("120"),
		},
		TotalAmount:   decimal.RequireFromString("115"),
		CustomerName:  "Mona",
		CustomerEmail: "mona@example.com",
		CustomerPhone: phone,
		PaymentMethod: model.PaymentInstapay,
		ReceiptURL:    "https://media.example/receipts/r.png",
		ReceiptID:     "receipts/r.png",
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder("0101234567")
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, 1, order.Version)
	assert.False(t, order.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, model.PaymentInstapay, got.PaymentMethod)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("115")))
	assert.True(t, got.Breakdown.OriginalPrice.Equal(decimal.RequireFromString("120")))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Go Basics", got.Items[0].Title)
	assert.Nil(t, got.IdempotencyKey)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_CreateIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	key := "checkout-123"
	first := newTestOrder("0100000000")
	first.IdempotencyKey = &key
	created, err := repo.Create(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := newTestOrder("0100000000")
	second.IdempotencyKey = &key
	created, err = repo.Create(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	orders, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	byKey, err := repo.GetByIdempotencyKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, byKey)
	assert.Equal(t, first.ID, byKey.ID)
}

func TestOrderRepository_FindLatestByPhone(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	older := newTestOrder("0109999999")
	_, err := repo.Create(ctx, older)
	require.NoError(t, err)

	newer := newTestOrder("0109999999")
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	t1 := time.Now().Add(-2 * time.Hour)
	t2 := time.Now().Add(-1 * time.Hour)
	_, err = pool.Exec(ctx, `UPDATE orders SET created_at = $2 WHERE id = $1`, older.ID, t1)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE orders SET created_at = $2 WHERE id = $1`, newer.ID, t2)
	require.NoError(t, err)

	got, err := repo.FindLatestByPhone(ctx, "0109999999")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)

	none, err := repo.FindLatestByPhone(ctx, "0000000000")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestOrderRepository_UpdateLifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder("0101111111")
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	staleVersion := order.Version
	require.NoError(t, order.Approve("https://cloud.example/access/abc"))
	require.NoError(t, repo.UpdateLifecycle(ctx, order, model.StatusPending, staleVersion))
	assert.Equal(t, 2, order.Version)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.Equal(t, "https://cloud.example/access/abc", got.AccessLink)

	// A second writer holding the old version loses
	competing := *got
	competing.Status = model.StatusRejected
	competing.AccessLink = ""
	err = repo.UpdateLifecycle(ctx, &competing, model.StatusPending, staleVersion)
	assert.ErrorIs(t, err, model.ErrConcurrentUpdate)

	got, err = repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestOrderRepository_ListCountDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	pending := newTestOrder("01")
	_, err := repo.Create(ctx, pending)
	require.NoError(t, err)

	rejected := newTestOrder("02")
	_, err = repo.Create(ctx, rejected)
	require.NoError(t, err)
	require.NoError(t, rejected.Reject())
	require.NoError(t, repo.UpdateLifecycle(ctx, rejected, model.StatusPending, 1))

	tests := []struct {
		name     string
		status   model.OrderStatus
		expected int
	}{
		{name: "All orders", status: "", expected: 2},
		{name: "Pending orders", status: model.StatusPending, expected: 1},
		{name: "Rejected orders", status: model.StatusRejected, expected: 1},
		{name: "Approved orders", status: model.StatusApproved, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := repo.List(ctx, tt.status)
			require.NoError(t, err)
			assert.Len(t, orders, tt.expected)
		})
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[model.OrderStatus]int{
		model.StatusPending:  1,
		model.StatusApproved: 0,
		model.StatusRejected: 1,
	}, counts)

	deleted, err := repo.Delete(ctx, pending.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, pending.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
