package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/anordqvist/shopdesk/internal/domain"
	pgtx "github.com/anordqvist/shopdesk/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return pgtx.WithTx(ctx, r.DB, fn)
}

func (r *Repo) InsertOrder(ctx context.Context, order domain.Order) error {
	var externalID *string
	if order.ExternalID != "" {
		externalID = &order.ExternalID
	}
	_, err := pgtx.Exec(ctx, r.DB, `
		INSERT INTO orders(id, external_id, customer_id, status, total_cents, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, externalID, order.CustomerID, order.Status, order.TotalCents, order.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repo) InsertLines(ctx context.Context, lines []domain.OrderLine) error {
	for _, l := range lines {
		if _, err := pgtx.Exec(ctx, r.DB, `
			INSERT INTO order_lines(order_id, product_id, qty, unit_price_cents, subtotal_cents)
			VALUES ($1, $2, $3, $4, $5)`,
			l.OrderID, l.ProductID, l.Qty, l.UnitPriceCents, l.SubtotalCents,
		); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func (r *Repo) GetOrder(ctx context.Context, orderID string) (domain.Order, []domain.OrderLine, error) {
	var o domain.Order
	var externalID *string
	err := pgtx.QueryRow(ctx, r.DB, `
		SELECT o.id, o.external_id, o.customer_id, c.name, o.status, o.total_cents, o.placed_at
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1`,
		orderID,
	).Scan(&o.ID, &externalID, &o.CustomerID, &o.CustomerName, &o.Status, &o.TotalCents, &o.PlacedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, nil, domain.ErrOrderNotFound
		}
		return domain.Order{}, nil, fmt.Errorf("get order: %w", err)
	}
	if externalID != nil {
		o.ExternalID = *externalID
	}

	rows, err := pgtx.Query(ctx, r.DB, `
		SELECT l.id, l.order_id, l.product_id, p.name, l.qty, l.unit_price_cents, l.subtotal_cents
		FROM order_lines l JOIN products p ON p.id = l.product_id
		WHERE l.order_id = $1
		ORDER BY l.id`,
		orderID,
	)
	if err != nil {
		return domain.Order{}, nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Qty, &l.UnitPriceCents, &l.SubtotalCents); err != nil {
			return domain.Order{}, nil, err
		}
		lines = append(lines, l)
	}
	return o, lines, rows.Err()
}

// GetOrderByExternalID supports idempotent creates over HTTP: retried requests
// map back to the order already committed for that external id.
func (r *Repo) GetOrderByExternalID(ctx context.Context, externalID string) (*domain.Order, error) {
	var o domain.Order
	err := pgtx.QueryRow(ctx, r.DB, `
		SELECT id, external_id, customer_id, status, total_cents, placed_at
		FROM orders WHERE external_id = $1`,
		externalID,
	).Scan(&o.ID, &o.ExternalID, &o.CustomerID, &o.Status, &o.TotalCents, &o.PlacedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by external id: %w", err)
	}
	return &o, nil
}

// GetOrderStatus is the cheap read behind the status endpoint; the full
// GetOrder join is overkill when the caller only wants the status string.
func (r *Repo) GetOrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	var s domain.OrderStatus
	err := pgtx.QueryRow(ctx, r.DB, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrOrderNotFound
		}
		return "", fmt.Errorf("get order status: %w", err)
	}
	return s, nil
}

func (r *Repo) DeleteOrder(ctx context.Context, orderID string) error {
	ct, err := pgtx.Exec(ctx, r.DB, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// UpdateStatus applies a business status transition (Pending → Paid → Shipped).
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, to domain.OrderStatus) error {
	var from domain.OrderStatus
	return pgtx.WithTx(ctx, r.DB, func(txCtx context.Context) error {
		err := pgtx.QueryRow(txCtx, r.DB, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&from)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}
		if !domain.CanTransition(from, to) {
			return fmt.Errorf("%w: cannot move order from %s to %s", domain.ErrInvalidInput, from, to)
		}
		if _, err := pgtx.Exec(txCtx, r.DB, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, to); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
}
