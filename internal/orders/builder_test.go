package orders

import (
	"context"
	"testing"
	"time"

	"github.com/anordqvist/shopdesk/internal/clock"
	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(stock map[int64]int, products map[int64]domain.Product) (*Builder, *fakeLedger) {
	ledger := newFakeLedger(stock)
	b := NewBuilder(
		&fakeCustomers{ids: map[int64]bool{1: true}},
		&fakeCatalog{products: products},
		ledger,
		clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	)
	return b, ledger
}

func testProducts() map[int64]domain.Product {
	return map[int64]domain.Product{
		10: {ID: 10, Name: "Keyboard", PriceCents: 4500},
		11: {ID: 11, Name: "Mouse", PriceCents: 1500},
	}
}

func TestStartDraft(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuilder(map[int64]int{}, testProducts())

	t.Run("unknown customer", func(t *testing.T) {
		_, err := b.StartDraft(ctx, 99)
		require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	})

	t.Run("starts empty", func(t *testing.T) {
		d, err := b.StartDraft(ctx, 1)
		require.NoError(t, err)
		assert.NotEmpty(t, d.ID)
		assert.Empty(t, d.Lines)
		assert.Zero(t, d.TotalCents)
	})
}

func TestAddLine(t *testing.T) {
	ctx := context.Background()

	t.Run("accumulates lines and total", func(t *testing.T) {
		b, _ := newTestBuilder(map[int64]int{10: 5, 11: 5}, testProducts())
		d, err := b.StartDraft(ctx, 1)
		require.NoError(t, err)

		res, err := b.AddLine(ctx, d, 10, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(9000), res.Line.SubtotalCents)
		assert.Equal(t, 3, res.RemainingStock)
		assert.Equal(t, int64(9000), res.TotalCents)

		res, err = b.AddLine(ctx, d, 11, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10500), res.TotalCents)

		assert.Len(t, d.Lines, 2)
		assert.Len(t, d.Reservations, 2)
		assert.Equal(t, int64(10500), d.TotalCents)
	})

	t.Run("rejected line leaves the draft unchanged", func(t *testing.T) {
		b, ledger := newTestBuilder(map[int64]int{10: 1}, testProducts())
		d, err := b.StartDraft(ctx, 1)
		require.NoError(t, err)

		res, err := b.AddLine(ctx, d, 10, 3)
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 1, res.RemainingStock)
		assert.Empty(t, d.Lines)
		assert.Zero(t, d.TotalCents)
		assert.Equal(t, 1, ledger.stock[10])

		// The draft survives the rejection: a smaller quantity still works.
		_, err = b.AddLine(ctx, d, 10, 1)
		require.NoError(t, err)
		assert.Len(t, d.Lines, 1)
	})

	t.Run("unknown product", func(t *testing.T) {
		b, _ := newTestBuilder(map[int64]int{10: 5}, testProducts())
		d, err := b.StartDraft(ctx, 1)
		require.NoError(t, err)

		_, err = b.AddLine(ctx, d, 77, 1)
		require.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Empty(t, d.Lines)
	})

	t.Run("captures price at add time", func(t *testing.T) {
		products := testProducts()
		b, _ := newTestBuilder(map[int64]int{10: 5}, products)
		d, err := b.StartDraft(ctx, 1)
		require.NoError(t, err)

		_, err = b.AddLine(ctx, d, 10, 1)
		require.NoError(t, err)

		// A later price change must not affect the already-added line.
		p := products[10]
		p.PriceCents = 9900
		products[10] = p

		assert.Equal(t, int64(4500), d.Lines[0].UnitPriceCents)
		assert.Equal(t, int64(4500), d.TotalCents)
	})

	t.Run("same product twice becomes two lines with two reservations", func(t *testing.T) {
		b, _ := newTestBuilder(map[int64]int{10: 5}, testProducts())
		d, err := b.StartDraft(ctx, 1)
		require.NoError(t, err)

		_, err = b.AddLine(ctx, d, 10, 2)
		require.NoError(t, err)
		res, err := b.AddLine(ctx, d, 10, 2)
		require.NoError(t, err)

		assert.Equal(t, 1, res.RemainingStock)
		assert.Len(t, d.Lines, 2)
		assert.Len(t, d.Reservations, 2)
		assert.Equal(t, int64(18000), d.TotalCents)
	})

	t.Run("closed draft rejects further lines", func(t *testing.T) {
		b, _ := newTestBuilder(map[int64]int{10: 5}, testProducts())
		d, err := b.StartDraft(ctx, 1)
		require.NoError(t, err)
		d.state = draftAbandoned

		_, err = b.AddLine(ctx, d, 10, 1)
		require.ErrorIs(t, err, domain.ErrDraftClosed)
	})
}
