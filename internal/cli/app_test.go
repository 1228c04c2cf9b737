package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/anordqvist/shopdesk/internal/admin"
	"github.com/anordqvist/shopdesk/internal/catalog"
	"github.com/anordqvist/shopdesk/internal/clock"
	"github.com/anordqvist/shopdesk/internal/customers"
	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/anordqvist/shopdesk/internal/inventory"
	"github.com/anordqvist/shopdesk/internal/orders"
	"github.com/anordqvist/shopdesk/internal/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fakes below back a whole scripted session: one admin, one customer, two
// products, everything in memory.

type scriptAdminStore struct{ hash []byte }

func (s *scriptAdminStore) GetAdmin(_ context.Context, username string) (domain.Admin, error) {
	if username != "root" {
		return domain.Admin{}, domain.ErrAdminNotFound
	}
	return domain.Admin{ID: 1, Username: "root", PasswordHash: s.hash}, nil
}

type scriptCustomerStore struct{ customers map[int64]domain.Customer }

func (s *scriptCustomerStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (s *scriptCustomerStore) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	return out, nil
}
func (s *scriptCustomerStore) GetCustomer(_ context.Context, id int64) (domain.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}
func (s *scriptCustomerStore) CustomerExists(_ context.Context, id int64) (bool, error) {
	_, ok := s.customers[id]
	return ok, nil
}
func (s *scriptCustomerStore) InsertCustomer(_ context.Context, c domain.Customer) (int64, error) {
	id := int64(len(s.customers) + 1)
	c.ID = id
	s.customers[id] = c
	return id, nil
}
func (s *scriptCustomerStore) UpdateCustomer(_ context.Context, c domain.Customer) error {
	s.customers[c.ID] = c
	return nil
}
func (s *scriptCustomerStore) DeleteCustomer(_ context.Context, id int64) error {
	delete(s.customers, id)
	return nil
}
func (s *scriptCustomerStore) CountOrders(_ context.Context, _ int64) (int, error) { return 0, nil }
func (s *scriptCustomerStore) InsertDeletedLog(_ context.Context, _ domain.DeletedCustomerLog) error {
	return nil
}

type scriptCatalogStore struct{ products map[int64]domain.Product }

func (s *scriptCatalogStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}
func (s *scriptCatalogStore) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}
func (s *scriptCatalogStore) InsertProduct(_ context.Context, p domain.Product) (int64, error) {
	id := int64(len(s.products) + 1)
	p.ID = id
	s.products[id] = p
	return id, nil
}
func (s *scriptCatalogStore) UpdateProduct(_ context.Context, p domain.Product) error {
	s.products[p.ID] = p
	return nil
}
func (s *scriptCatalogStore) DeleteProduct(_ context.Context, id int64) error {
	delete(s.products, id)
	return nil
}
func (s *scriptCatalogStore) CountOrderLines(_ context.Context, _ int64) (int, error) { return 0, nil }
func (s *scriptCatalogStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	return nil, nil
}
func (s *scriptCatalogStore) GetCategory(_ context.Context, _ int64) (domain.Category, error) {
	return domain.Category{}, domain.ErrCategoryNotFound
}
func (s *scriptCatalogStore) InsertCategory(_ context.Context, c domain.Category) (int64, error) {
	return 1, nil
}
func (s *scriptCatalogStore) UpdateCategory(_ context.Context, _ domain.Category) error { return nil }
func (s *scriptCatalogStore) DeleteCategory(_ context.Context, _ int64) error           { return nil }
func (s *scriptCatalogStore) CountProductsInCategory(_ context.Context, _ int64) (int, error) {
	return 0, nil
}

// scriptInventoryStore shares the catalog's product map so reservations debit
// the stock the menus display.
type scriptInventoryStore struct {
	products     map[int64]domain.Product
	reservations map[string]domain.Reservation
}

func (s *scriptInventoryStore) ReserveStock(_ context.Context, res domain.Reservation) (int, error) {
	p, ok := s.products[res.ProductID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if p.Stock < res.Qty {
		return p.Stock, domain.ErrInsufficientStock
	}
	p.Stock -= res.Qty
	s.products[res.ProductID] = p
	s.reservations[res.ID] = res
	return p.Stock, nil
}
func (s *scriptInventoryStore) ReleaseReservation(_ context.Context, reservationID string) (bool, error) {
	res, ok := s.reservations[reservationID]
	if !ok || res.Status != domain.ReservationReserved {
		return false, nil
	}
	res.Status = domain.ReservationReleased
	s.reservations[reservationID] = res
	p := s.products[res.ProductID]
	p.Stock += res.Qty
	s.products[res.ProductID] = p
	return true, nil
}
func (s *scriptInventoryStore) FinalizeReservation(_ context.Context, reservationID string) error {
	res := s.reservations[reservationID]
	res.Status = domain.ReservationFinalized
	s.reservations[reservationID] = res
	return nil
}
func (s *scriptInventoryStore) ReleaseStaleReservations(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type scriptOrderStore struct {
	orders map[string]domain.Order
	lines  map[string][]domain.OrderLine
}

func (s *scriptOrderStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (s *scriptOrderStore) InsertOrder(_ context.Context, order domain.Order) error {
	s.orders[order.ID] = order
	return nil
}
func (s *scriptOrderStore) InsertLines(_ context.Context, lines []domain.OrderLine) error {
	for _, l := range lines {
		s.lines[l.OrderID] = append(s.lines[l.OrderID], l)
	}
	return nil
}
func (s *scriptOrderStore) GetOrder(_ context.Context, orderID string) (domain.Order, []domain.OrderLine, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, nil, domain.ErrOrderNotFound
	}
	o.CustomerName = "Alice"
	return o, s.lines[orderID], nil
}
func (s *scriptOrderStore) DeleteOrder(_ context.Context, orderID string) error {
	if _, ok := s.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, orderID)
	return nil
}

type scriptReportStore struct{}

func (scriptReportStore) ProductSales(_ context.Context) ([]reports.ProductSales, error) {
	return nil, nil
}
func (scriptReportStore) CategorySales(_ context.Context) ([]reports.CategorySales, error) {
	return nil, nil
}
func (scriptReportStore) ListOrders(_ context.Context) ([]domain.Order, error) { return nil, nil }
func (scriptReportStore) ListOrdersByStatus(_ context.Context, _ domain.OrderStatus) ([]domain.Order, error) {
	return nil, nil
}
func (scriptReportStore) ListOrdersByCustomer(_ context.Context, _ int64) ([]domain.Order, error) {
	return nil, nil
}
func (scriptReportStore) ListOrdersPaged(_ context.Context, _, _ int) ([]domain.Order, int, error) {
	return nil, 0, nil
}

func newScriptedApp(t *testing.T, script string) (*App, *bytes.Buffer, *scriptOrderStore, *scriptCatalogStore) {
	t.Helper()
	hash, err := admin.HashPassword("s3cret")
	require.NoError(t, err)

	products := map[int64]domain.Product{
		1: {ID: 1, Name: "Keyboard", PriceCents: 4500, Stock: 5},
		2: {ID: 2, Name: "Mouse", PriceCents: 1500, Stock: 1},
	}
	catalogStore := &scriptCatalogStore{products: products}
	invStore := &scriptInventoryStore{products: products, reservations: map[string]domain.Reservation{}}
	orderStore := &scriptOrderStore{orders: map[string]domain.Order{}, lines: map[string][]domain.OrderLine{}}

	clk := clock.NewSystem()
	customerSvc := customers.NewService(
		&scriptCustomerStore{customers: map[int64]domain.Customer{1: {ID: 1, Name: "Alice", City: "Oslo", Email: "alice@example.com"}}},
		customers.PlainCodec{}, clk,
	)
	catalogSvc := catalog.NewService(catalogStore)
	ledger := inventory.NewLedger(invStore, clk)

	var out bytes.Buffer
	app := &App{
		Prompt:      NewPrompter(strings.NewReader(script), &out),
		Admins:      admin.NewService(&scriptAdminStore{hash: hash}),
		Customers:   customerSvc,
		Catalog:     catalogSvc,
		Builder:     orders.NewBuilder(customerSvc, catalogSvc, ledger, clk),
		Coordinator: orders.NewCoordinator(orderStore, ledger),
		Orders:      orderStore,
		Reports:     reports.NewService(scriptReportStore{}),
		ServiceName: "shopdesk-test",
	}
	return app, &out, orderStore, catalogStore
}

func TestScriptedOrderFlow(t *testing.T) {
	t.Run("rejected quantity re-prompts, order commits", func(t *testing.T) {
		// Login, Orders menu, new order for customer 1: ask for 3 mice
		// (only 1 in stock), retry with 1, add 2 keyboards, confirm, quit.
		script := strings.Join([]string{
			"root", "s3cret",
			"2", "3",
			"1",
			"2", "3",
			"2", "1",
			"y",
			"1", "2",
			"n",
			"5",
		}, "\n") + "\n"

		app, out, orderStore, catalogStore := newScriptedApp(t, script)
		require.NoError(t, app.Run(context.Background()))

		text := out.String()
		assert.Contains(t, text, "Not enough stock. Only 1 left.")
		assert.Contains(t, text, "Order completed! Total: 105.00")

		require.Len(t, orderStore.orders, 1)
		for _, o := range orderStore.orders {
			assert.Equal(t, domain.StatusPending, o.Status)
			assert.Equal(t, int64(10500), o.TotalCents)
			assert.Len(t, orderStore.lines[o.ID], 2)
		}
		assert.Equal(t, 0, catalogStore.products[2].Stock)
		assert.Equal(t, 3, catalogStore.products[1].Stock)
	})

	t.Run("declining with no lines cancels and restores nothing", func(t *testing.T) {
		// Ask for an unknown product, then a bad quantity, then give up.
		script := strings.Join([]string{
			"root", "s3cret",
			"2", "3",
			"1",
			"99", "1",
			"1", "abc",
			"1", "6",
			"",
			"5",
		}, "\n") + "\n"

		app, out, orderStore, catalogStore := newScriptedApp(t, script)
		require.NoError(t, app.Run(context.Background()))

		text := out.String()
		assert.Contains(t, text, "Product not found.")
		assert.Contains(t, text, "Invalid quantity.")
		assert.Contains(t, text, "Not enough stock. Only 5 left.")
		assert.Contains(t, text, "Order cancelled: no products were added.")

		assert.Empty(t, orderStore.orders)
		assert.Equal(t, 5, catalogStore.products[1].Stock)
	})

	t.Run("three failed logins deny access", func(t *testing.T) {
		script := strings.Join([]string{
			"root", "wrong",
			"root", "wrong",
			"root", "wrong",
		}, "\n") + "\n"

		app, out, orderStore, _ := newScriptedApp(t, script)
		err := app.Run(context.Background())
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Contains(t, out.String(), "Maximum login attempts reached.")
		assert.Empty(t, orderStore.orders)
	})
}
