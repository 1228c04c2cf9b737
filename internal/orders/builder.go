package orders

import (
	"context"
	"time"

	"github.com/anordqvist/shopdesk/internal/clock"
	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/google/uuid"
)

type CustomerDirectory interface {
	Exists(ctx context.Context, customerID int64) (bool, error)
}

type ProductCatalog interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

type StockLedger interface {
	CheckAndReserve(ctx context.Context, draftID string, productID int64, qty int) (domain.Reservation, int, error)
	Release(ctx context.Context, res domain.Reservation) error
	Finalize(ctx context.Context, res domain.Reservation) error
}

type draftState int

const (
	draftBuilding draftState = iota
	draftCommitted
	draftAbandoned
)

// Draft is an order being assembled. It lives only between StartDraft and the
// commit/abandon decision and is never visible to reporting.
type Draft struct {
	ID           string
	ExternalID   string
	CustomerID   int64
	PlacedAt     time.Time
	Lines        []domain.OrderLine
	Reservations []domain.Reservation
	TotalCents   int64

	state draftState
}

// Builder drives the accumulation of line items for exactly one draft.
type Builder struct {
	customers CustomerDirectory
	catalog   ProductCatalog
	ledger    StockLedger
	clock     clock.Clock
}

func NewBuilder(customers CustomerDirectory, catalog ProductCatalog, ledger StockLedger, clk clock.Clock) *Builder {
	return &Builder{customers: customers, catalog: catalog, ledger: ledger, clock: clk}
}

func (b *Builder) StartDraft(ctx context.Context, customerID int64) (*Draft, error) {
	ok, err := b.customers.Exists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &Draft{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		PlacedAt:   b.clock.Now(),
	}, nil
}

// AddResult reports one accepted line back to the operator loop.
type AddResult struct {
	Line           domain.OrderLine
	RemainingStock int
	TotalCents     int64
}

// AddLine reserves qty of the product and appends a line with the unit price
// captured at this moment. A failed add leaves the draft unmodified; the
// ledger's error kinds pass through unchanged so callers can re-prompt.
func (b *Builder) AddLine(ctx context.Context, d *Draft, productID int64, qty int) (AddResult, error) {
	if d.state != draftBuilding {
		return AddResult{}, domain.ErrDraftClosed
	}

	product, err := b.catalog.GetProduct(ctx, productID)
	if err != nil {
		return AddResult{}, err
	}

	res, remaining, err := b.ledger.CheckAndReserve(ctx, d.ID, productID, qty)
	if err != nil {
		return AddResult{RemainingStock: remaining}, err
	}

	line := domain.OrderLine{
		OrderID:        d.ID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		Qty:            qty,
		UnitPriceCents: product.PriceCents,
		SubtotalCents:  product.PriceCents * int64(qty),
	}
	d.Lines = append(d.Lines, line)
	d.Reservations = append(d.Reservations, res)
	d.TotalCents += line.SubtotalCents

	return AddResult{Line: line, RemainingStock: remaining, TotalCents: d.TotalCents}, nil
}
