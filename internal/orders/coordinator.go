package orders

import (
	"context"
	"fmt"
	"log"

	"github.com/anordqvist/shopdesk/internal/domain"
)

type OrderStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	InsertOrder(ctx context.Context, order domain.Order) error
	InsertLines(ctx context.Context, lines []domain.OrderLine) error
}

// Coordinator decides a draft's fate as one atomic unit: either the order
// header, its lines, and the finalized stock debits all land together, or
// none of them do and every reservation is released.
type Coordinator struct {
	store  OrderStore
	ledger StockLedger
}

func NewCoordinator(store OrderStore, ledger StockLedger) *Coordinator {
	return &Coordinator{store: store, ledger: ledger}
}

// Finalize persists the draft. On any persistence failure the transaction is
// rolled back, all reservations are released, and the error reported is
// domain.ErrPersistenceFailed; the store is left in pre-draft state.
func (c *Coordinator) Finalize(ctx context.Context, d *Draft) (domain.Order, error) {
	if d.state != draftBuilding {
		return domain.Order{}, domain.ErrDraftClosed
	}
	if len(d.Lines) == 0 {
		return domain.Order{}, domain.ErrEmptyDraft
	}

	order := domain.Order{
		ID:         d.ID,
		ExternalID: d.ExternalID,
		CustomerID: d.CustomerID,
		Status:     domain.StatusPending,
		TotalCents: d.TotalCents,
		PlacedAt:   d.PlacedAt,
	}

	err := c.store.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.store.InsertOrder(txCtx, order); err != nil {
			return err
		}
		if err := c.store.InsertLines(txCtx, d.Lines); err != nil {
			return err
		}
		for _, res := range d.Reservations {
			if err := c.ledger.Finalize(txCtx, res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.releaseAll(ctx, d)
		d.state = draftAbandoned
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	d.state = draftCommitted
	return order, nil
}

// Abandon releases every outstanding reservation and discards the draft
// without touching persisted order state.
func (c *Coordinator) Abandon(ctx context.Context, d *Draft) error {
	if d.state != draftBuilding {
		return domain.ErrDraftClosed
	}
	d.state = draftAbandoned
	return c.releaseAll(ctx, d)
}

func (c *Coordinator) releaseAll(ctx context.Context, d *Draft) error {
	var firstErr error
	for _, res := range d.Reservations {
		if err := c.ledger.Release(ctx, res); err != nil {
			// Keep going: the remaining reservations must still be returned.
			log.Printf("release reservation %s: %v", res.ID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
