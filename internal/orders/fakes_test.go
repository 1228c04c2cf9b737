package orders

import (
	"context"
	"errors"
	"time"

	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/google/uuid"
)

type fakeCustomers struct {
	ids map[int64]bool
}

func (f *fakeCustomers) Exists(_ context.Context, customerID int64) (bool, error) {
	return f.ids[customerID], nil
}

type fakeCatalog struct {
	products map[int64]domain.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// fakeLedger tracks stock and reservation state in memory and can be told to
// fail Finalize, to drive the rollback paths.
type fakeLedger struct {
	stock       map[int64]int
	state       map[string]domain.ReservationStatus
	qty         map[string]int
	product     map[string]int64
	finalizeErr error
}

func newFakeLedger(stock map[int64]int) *fakeLedger {
	return &fakeLedger{
		stock:   stock,
		state:   map[string]domain.ReservationStatus{},
		qty:     map[string]int{},
		product: map[string]int64{},
	}
}

func (f *fakeLedger) CheckAndReserve(_ context.Context, draftID string, productID int64, qty int) (domain.Reservation, int, error) {
	if qty <= 0 {
		return domain.Reservation{}, 0, domain.ErrInvalidQuantity
	}
	s, ok := f.stock[productID]
	if !ok {
		return domain.Reservation{}, 0, domain.ErrProductNotFound
	}
	if s < qty {
		return domain.Reservation{}, s, domain.ErrInsufficientStock
	}
	f.stock[productID] = s - qty
	res := domain.Reservation{
		ID:        uuid.NewString(),
		DraftID:   draftID,
		ProductID: productID,
		Qty:       qty,
		Status:    domain.ReservationReserved,
		CreatedAt: time.Now(),
	}
	f.state[res.ID] = domain.ReservationReserved
	f.qty[res.ID] = qty
	f.product[res.ID] = productID
	return res, s - qty, nil
}

func (f *fakeLedger) Release(_ context.Context, res domain.Reservation) error {
	if f.state[res.ID] != domain.ReservationReserved {
		return nil
	}
	f.state[res.ID] = domain.ReservationReleased
	f.stock[f.product[res.ID]] += f.qty[res.ID]
	return nil
}

func (f *fakeLedger) Finalize(_ context.Context, res domain.Reservation) error {
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	if f.state[res.ID] != domain.ReservationReserved {
		return errors.New("not reserved")
	}
	f.state[res.ID] = domain.ReservationFinalized
	return nil
}

// fakeOrderStore records inserts and simulates a transaction by discarding
// them when the tx func fails.
type fakeOrderStore struct {
	orders    []domain.Order
	lines     []domain.OrderLine
	insertErr error
}

func (f *fakeOrderStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ordersBefore, linesBefore := len(f.orders), len(f.lines)
	if err := fn(ctx); err != nil {
		f.orders = f.orders[:ordersBefore]
		f.lines = f.lines[:linesBefore]
		return err
	}
	return nil
}

func (f *fakeOrderStore) InsertOrder(_ context.Context, order domain.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderStore) InsertLines(_ context.Context, lines []domain.OrderLine) error {
	f.lines = append(f.lines, lines...)
	return nil
}
