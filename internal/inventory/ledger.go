package inventory

import (
	"context"
	"time"

	"github.com/anordqvist/shopdesk/internal/clock"
	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/google/uuid"
)

// Store is the persistence surface the ledger drives. ReserveStock must
// perform its check-then-decrement as one atomic step relative to concurrent
// reservations against the same product.
type Store interface {
	// ReserveStock records res and debits its product's stock. It returns the
	// stock remaining after the debit; on domain.ErrInsufficientStock it
	// returns the untouched stock level instead.
	ReserveStock(ctx context.Context, res domain.Reservation) (int, error)
	// ReleaseReservation reverses a tentative debit. It reports false when the
	// reservation was not in RESERVED state, without touching stock.
	ReleaseReservation(ctx context.Context, reservationID string) (bool, error)
	// FinalizeReservation flips a RESERVED row to FINALIZED. It joins a
	// transaction carried on ctx when one is present.
	FinalizeReservation(ctx context.Context, reservationID string) error
	// ReleaseStaleReservations releases every RESERVED row created before
	// cutoff and restores the debited stock. Returns the number released.
	ReleaseStaleReservations(ctx context.Context, cutoff time.Time) (int, error)
}

// Ledger is the single gate through which stock decreases. A reservation is a
// tentative debit: durable enough that concurrent sessions see reduced
// availability, reversible until finalized.
type Ledger struct {
	store Store
	clock clock.Clock
}

func NewLedger(store Store, clk clock.Clock) *Ledger {
	return &Ledger{store: store, clock: clk}
}

// CheckAndReserve validates qty against current stock and, on success, debits
// the stock and returns the reservation plus the remaining stock level. On
// domain.ErrInsufficientStock the second return value is the available stock.
func (l *Ledger) CheckAndReserve(ctx context.Context, draftID string, productID int64, qty int) (domain.Reservation, int, error) {
	if qty <= 0 {
		return domain.Reservation{}, 0, domain.ErrInvalidQuantity
	}

	res := domain.Reservation{
		ID:        uuid.NewString(),
		DraftID:   draftID,
		ProductID: productID,
		Qty:       qty,
		Status:    domain.ReservationReserved,
		CreatedAt: l.clock.Now(),
	}

	remaining, err := l.store.ReserveStock(ctx, res)
	if err != nil {
		return domain.Reservation{}, remaining, err
	}
	return res, remaining, nil
}

// Release reverses a tentative debit. Releasing an already released or
// finalized reservation is a no-op.
func (l *Ledger) Release(ctx context.Context, res domain.Reservation) error {
	_, err := l.store.ReleaseReservation(ctx, res.ID)
	return err
}

// Finalize marks a tentative debit permanent. Meant to run inside the commit
// transaction so the debit and the order rows land together.
func (l *Ledger) Finalize(ctx context.Context, res domain.Reservation) error {
	return l.store.FinalizeReservation(ctx, res.ID)
}

// ReleaseStale undoes reservations older than maxAge. Covers sessions that
// crashed between reserving and deciding, so no debit leaks permanently.
func (l *Ledger) ReleaseStale(ctx context.Context, maxAge time.Duration) (int, error) {
	return l.store.ReleaseStaleReservations(ctx, l.clock.Now().Add(-maxAge))
}
