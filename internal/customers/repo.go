package customers

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

func (r *Repo) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := pgtx.Query(ctx, r.DB,
		`SELECT id, name, city, email, created_at FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	var c domain.Customer
	err := pgtx.QueryRow(ctx, r.DB,
		`SELECT id, name, city, email, created_at FROM customers WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.City, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *Repo) CustomerExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := pgtx.QueryRow(ctx, r.DB,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id=$1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return exists, nil
}

func (r *Repo) InsertCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	var id int64
	err := pgtx.QueryRow(ctx, r.DB, `
		INSERT INTO customers(name, city, email, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.City, c.Email, c.CreatedAt,
	).Scan(&id)
	if err != nil {
		if pgtx.IsUniqueViolation(err) {
			return 0, domain.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return id, nil
}

func (r *Repo) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	ct, err := pgtx.Exec(ctx, r.DB,
		`UPDATE customers SET name=$2, city=$3, email=$4 WHERE id=$1`,
		c.ID, c.Name, c.City, c.Email,
	)
	if err != nil {
		if pgtx.IsUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *Repo) DeleteCustomer(ctx context.Context, id int64) error {
	ct, err := pgtx.Exec(ctx, r.DB, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *Repo) CountOrders(ctx context.Context, customerID int64) (int, error) {
	var n int
	err := pgtx.QueryRow(ctx, r.DB,
		`SELECT COUNT(*) FROM orders WHERE customer_id=$1`, customerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *Repo) InsertDeletedLog(ctx context.Context, entry domain.DeletedCustomerLog) error {
	_, err := pgtx.Exec(ctx, r.DB, `
		INSERT INTO deleted_customers_log(customer_id, name, city, email, deleted_at)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.CustomerID, entry.Name, entry.City, entry.Email, entry.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deleted customer log: %w", err)
	}
	return nil
}
