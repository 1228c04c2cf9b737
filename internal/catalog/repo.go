package catalog

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

func (r *Repo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := pgtx.Query(ctx, r.DB, `
		SELECT p.id, p.category_id, COALESCE(c.name, 'Uncategorized'), p.name,
		       p.price_cents, p.stock, p.created_at, p.updated_at
		FROM products p LEFT JOIN product_categories c ON c.id = p.category_id
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name,
			&p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := pgtx.QueryRow(ctx, r.DB, `
		SELECT p.id, p.category_id, COALESCE(c.name, 'Uncategorized'), p.name,
		       p.price_cents, p.stock, p.created_at, p.updated_at
		FROM products p LEFT JOIN product_categories c ON c.id = p.category_id
		WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name,
		&p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repo) InsertProduct(ctx context.Context, p domain.Product) (int64, error) {
	var id int64
	err := pgtx.QueryRow(ctx, r.DB, `
		INSERT INTO products(category_id, name, price_cents, stock)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		p.CategoryID, p.Name, p.PriceCents, p.Stock,
	).Scan(&id)
	if err != nil {
		if pgtx.IsUniqueViolation(err) {
			return 0, domain.ErrDuplicateName
		}
		if pgtx.IsForeignKeyViolation(err) {
			return 0, domain.ErrCategoryNotFound
		}
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, p domain.Product) error {
	ct, err := pgtx.Exec(ctx, r.DB, `
		UPDATE products SET name=$2, price_cents=$3, updated_at=NOW() WHERE id=$1`,
		p.ID, p.Name, p.PriceCents,
	)
	if err != nil {
		if pgtx.IsUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id int64) error {
	ct, err := pgtx.Exec(ctx, r.DB, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *Repo) CountOrderLines(ctx context.Context, productID int64) (int, error) {
	var n int
	err := pgtx.QueryRow(ctx, r.DB,
		`SELECT COUNT(*) FROM order_lines WHERE product_id=$1`, productID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count order lines: %w", err)
	}
	return n, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := pgtx.Query(ctx, r.DB,
		`SELECT id, name, COALESCE(description, '') FROM product_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	err := pgtx.QueryRow(ctx, r.DB,
		`SELECT id, name, COALESCE(description, '') FROM product_categories WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *Repo) InsertCategory(ctx context.Context, c domain.Category) (int64, error) {
	var id int64
	var description *string
	if c.Description != "" {
		description = &c.Description
	}
	err := pgtx.QueryRow(ctx, r.DB, `
		INSERT INTO product_categories(name, description)
		VALUES ($1, $2) RETURNING id`,
		c.Name, description,
	).Scan(&id)
	if err != nil {
		if pgtx.IsUniqueViolation(err) {
			return 0, domain.ErrDuplicateName
		}
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}

func (r *Repo) UpdateCategory(ctx context.Context, c domain.Category) error {
	ct, err := pgtx.Exec(ctx, r.DB,
		`UPDATE product_categories SET name=$2, description=$3 WHERE id=$1`,
		c.ID, c.Name, c.Description,
	)
	if err != nil {
		if pgtx.IsUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id int64) error {
	ct, err := pgtx.Exec(ctx, r.DB, `DELETE FROM product_categories WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *Repo) CountProductsInCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int
	err := pgtx.QueryRow(ctx, r.DB,
		`SELECT COUNT(*) FROM products WHERE category_id=$1`, categoryID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products in category: %w", err)
	}
	return n, nil
}
