package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/anordqvist/shopdesk/internal/domain"
)

type Store interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	InsertProduct(ctx context.Context, p domain.Product) (int64, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	CountOrderLines(ctx context.Context, productID int64) (int, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	InsertCategory(ctx context.Context, c domain.Category) (int64, error)
	UpdateCategory(ctx context.Context, c domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CountProductsInCategory(ctx context.Context, categoryID int64) (int, error)
}

const maxNameLen = 100

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

// GetProduct returns the product with its live stock level.
func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *Service) AddProduct(ctx context.Context, name string, categoryID *int64, priceCents int64, stock int) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return domain.Product{}, err
	}
	if priceCents < 0 {
		return domain.Product{}, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}

	p := domain.Product{Name: name, CategoryID: categoryID, PriceCents: priceCents, Stock: stock}
	id, err := s.store.InsertProduct(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	return p, nil
}

func (s *Service) EditProduct(ctx context.Context, id int64, name string, priceCents *int64) (domain.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		if err := validateName(name); err != nil {
			return domain.Product{}, err
		}
		p.Name = name
	}
	if priceCents != nil {
		if *priceCents < 0 {
			return domain.Product{}, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
		}
		p.PriceCents = *priceCents
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// DeleteProduct refuses while any order line references the product, so
// committed order history never loses its product rows.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.store.GetProduct(ctx, id); err != nil {
		return err
	}
	n, err := s.store.CountOrderLines(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrProductReferenced
	}
	return s.store.DeleteProduct(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) AddCategory(ctx context.Context, name, description string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return domain.Category{}, err
	}
	description = strings.TrimSpace(description)
	if len(description) > maxNameLen {
		return domain.Category{}, fmt.Errorf("%w: description cannot exceed %d characters", domain.ErrInvalidInput, maxNameLen)
	}

	c := domain.Category{Name: name, Description: description}
	id, err := s.store.InsertCategory(ctx, c)
	if err != nil {
		return domain.Category{}, err
	}
	c.ID = id
	return c, nil
}

func (s *Service) EditCategory(ctx context.Context, id int64, name, description string) (domain.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		if err := validateName(name); err != nil {
			return domain.Category{}, err
		}
		c.Name = name
	}
	if description = strings.TrimSpace(description); description != "" {
		if len(description) > maxNameLen {
			return domain.Category{}, fmt.Errorf("%w: description cannot exceed %d characters", domain.ErrInvalidInput, maxNameLen)
		}
		c.Description = description
	}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// DeleteCategory refuses while products remain in the category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return err
	}
	n, err := s.store.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCategoryNotEmpty
	}
	return s.store.DeleteCategory(ctx, id)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: name cannot exceed %d characters", domain.ErrInvalidInput, maxNameLen)
	}
	return nil
}
