package reports

import (
	"context"

	"github.com/anordqvist/shopdesk/internal/domain"
)

type ProductSales struct {
	ProductID     int64
	ProductName   string
	CategoryName  string
	PriceCents    int64
	TotalQuantity int
	TotalCents    int64
}

type CategorySales struct {
	CategoryID    int64
	CategoryName  string
	TotalQuantity int
	TotalCents    int64
}

type OrderPage struct {
	Orders     []domain.Order
	Page       int
	PageSize   int
	TotalPages int
}

type Store interface {
	ProductSales(ctx context.Context) ([]ProductSales, error)
	CategorySales(ctx context.Context) ([]CategorySales, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	ListOrdersPaged(ctx context.Context, offset, limit int) ([]domain.Order, int, error)
}

// Service reads committed orders only; drafts never reach these tables, so
// every total it reports equals the sum of its persisted line subtotals.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ProductSales(ctx context.Context) ([]ProductSales, error) {
	return s.store.ProductSales(ctx)
}

func (s *Service) CategorySales(ctx context.Context) ([]CategorySales, error) {
	return s.store.CategorySales(ctx)
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *Service) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.store.ListOrdersByStatus(ctx, status)
}

func (s *Service) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return s.store.ListOrdersByCustomer(ctx, customerID)
}

func (s *Service) ListOrdersPaged(ctx context.Context, page, pageSize int) (OrderPage, error) {
	if page < 1 || pageSize < 1 {
		return OrderPage{}, domain.ErrInvalidInput
	}
	orders, total, err := s.store.ListOrdersPaged(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return OrderPage{}, err
	}
	totalPages := (total + pageSize - 1) / pageSize
	return OrderPage{Orders: orders, Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}
