package reports

import (
	"context"
	"fmt"

	"github.com/anordqvist/shopdesk/internal/domain"
	pgtx "github.com/anordqvist/shopdesk/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ProductSales(ctx context.Context) ([]ProductSales, error) {
	rows, err := pgtx.Query(ctx, r.DB, `
		SELECT p.id, p.name, COALESCE(c.name, 'Uncategorized'), p.price_cents,
		       SUM(l.qty), SUM(l.subtotal_cents)
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		LEFT JOIN product_categories c ON c.id = p.category_id
		GROUP BY p.id, p.name, c.name, p.price_cents
		ORDER BY SUM(l.subtotal_cents) DESC`)
	if err != nil {
		return nil, fmt.Errorf("product sales: %w", err)
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var s ProductSales
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.CategoryName,
			&s.PriceCents, &s.TotalQuantity, &s.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) CategorySales(ctx context.Context) ([]CategorySales, error) {
	rows, err := pgtx.Query(ctx, r.DB, `
		SELECT c.id, c.name, SUM(l.qty), SUM(l.subtotal_cents)
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		JOIN product_categories c ON c.id = p.category_id
		GROUP BY c.id, c.name
		ORDER BY SUM(l.subtotal_cents) DESC`)
	if err != nil {
		return nil, fmt.Errorf("category sales: %w", err)
	}
	defer rows.Close()

	var out []CategorySales
	for rows.Next() {
		var s CategorySales
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.TotalQuantity, &s.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const orderColumns = `
	SELECT o.id, o.customer_id, c.name, o.status, o.total_cents, o.placed_at
	FROM orders o JOIN customers c ON c.id = o.customer_id`

func (r *Repo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, orderColumns+` ORDER BY o.placed_at`)
}

func (r *Repo) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.queryOrders(ctx, orderColumns+` WHERE o.status = $1 ORDER BY o.placed_at`, status)
}

func (r *Repo) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return r.queryOrders(ctx, orderColumns+` WHERE o.customer_id = $1 ORDER BY o.placed_at`, customerID)
}

func (r *Repo) ListOrdersPaged(ctx context.Context, offset, limit int) ([]domain.Order, int, error) {
	var total int
	if err := pgtx.QueryRow(ctx, r.DB, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	orders, err := r.queryOrders(ctx, orderColumns+` ORDER BY o.placed_at OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *Repo) queryOrders(ctx context.Context, sql string, args ...any) ([]domain.Order, error) {
	rows, err := pgtx.Query(ctx, r.DB, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.Status, &o.TotalCents, &o.PlacedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
