package repository

import (
	"context"
	"errors"
	"fmt"

	"shams-elarab/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `
	id, product_id, product_type, items, breakdown, total_amount,
	customer_name, customer_email, customer_phone, payment_method,
	receipt_url, receipt_id, status, access_link, idempotency_key,
	version, created_at, updated_at
`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.ProductID,
		&o.ProductType,
		&o.Items,
		&o.Breakdown,
		&o.TotalAmount,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.PaymentMethod,
		&o.ReceiptURL,
		&o.ReceiptID,
		&o.Status,
		&o.AccessLink,
		&o.IdempotencyKey,
		&o.Version,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new pending order. The ID, version and timestamps come
// from the database.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) (bool, error) {
	query := `
		INSERT INTO orders (
			product_id, product_type, items, breakdown, total_amount,
			customer_name, customer_email, customer_phone, payment_method,
			receipt_url, receipt_id, status, idempotency_key
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id, version, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		order.ProductID,
		order.ProductType,
		order.Items,
		order.Breakdown,
		order.TotalAmount,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.PaymentMethod,
		order.ReceiptURL,
		order.ReceiptID,
		model.StatusPending,
		order.IdempotencyKey,
	).Scan(&order.ID, &order.Version, &order.CreatedAt, &order.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) && order.IdempotencyKey != nil {
		// Another request with the same key won the insert
		existing, getErr := r.GetByIdempotencyKey(ctx, *order.IdempotencyKey)
		if getErr != nil {
			return false, getErr
		}
		if existing == nil {
			return false, fmt.Errorf("failed to create order: idempotency key conflict without stored order")
		}
		r.logger.Info().
			Str("order_id", existing.ID.String()).
			Msg("idempotent replay of existing order")
		*order = *existing
		return false, nil
	}
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", order.ProductID).
			Str("receipt_id", order.ReceiptID).
			Msg("failed to create order")
		return false, fmt.Errorf("failed to create order: %w", err)
	}

	order.Status = model.StatusPending
	order.AccessLink = ""

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return true, nil
}

func (r *orderRepository) getOne(ctx context.Context, where string, arg any, field string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where

	order, err := scanOrder(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Interface(field, arg).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Interface(field, arg).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return order, nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.getOne(ctx, `id = $1`, id, "order_id")
}

// GetByIdempotencyKey retrieves the order submitted with key.
func (r *orderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	return r.getOne(ctx, `idempotency_key = $1`, key, "idempotency_key")
}

// FindLatestByPhone retrieves the most recently created order for phone.
func (r *orderRepository) FindLatestByPhone(ctx context.Context, phone string) (*model.Order, error) {
	return r.getOne(ctx, `customer_phone = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, phone, "customer_phone")
}

// List retrieves orders newest first.
func (r *orderRepository) List(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, string(status))
	if err != nil {
		r.logger.Error().Err(err).Str("status", string(status)).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateLifecycle persists status and access link under an optimistic
// version check.
func (r *orderRepository) UpdateLifecycle(ctx context.Context, order *model.Order, fromStatus model.OrderStatus, expectedVersion int) error {
	query := `
		UPDATE orders
		SET status = $2, access_link = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = $4 AND version = $5
		RETURNING version, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		order.ID,
		order.Status,
		order.AccessLink,
		fromStatus,
		expectedVersion,
	).Scan(&order.Version, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn().
				Str("order_id", order.ID.String()).
				Str("from_status", string(fromStatus)).
				Int("expected_version", expectedVersion).
				Msg("order changed concurrently")
			return model.ErrConcurrentUpdate
		}
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to update order")
		return fmt.Errorf("failed to update order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("status", string(order.Status)).
		Int("version", order.Version).
		Msg("order lifecycle updated")

	return nil
}

// Delete removes an order.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountByStatus returns the number of orders per status. Every status is
// present in the result.
func (r *orderRepository) CountByStatus(ctx context.Context) (map[model.OrderStatus]int, error) {
	counts := map[model.OrderStatus]int{
		model.StatusPending:  0,
		model.StatusApproved: 0,
		model.StatusRejected: 0,
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status model.OrderStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan order count: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order counts: %w", err)
	}

	return counts, nil
}
