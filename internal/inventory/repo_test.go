package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/anordqvist/shopdesk/internal/testutil"
	"github.com/google/uuid"
)

func newReservation(productID int64, qty int) domain.Reservation {
	return domain.Reservation{
		ID:        uuid.NewString(),
		DraftID:   uuid.NewString(),
		ProductID: productID,
		Qty:       qty,
		Status:    domain.ReservationReserved,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRepoReserveStock(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := &Repo{DB: pool}
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("debits stock atomically", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Keyboard", 4500, 10)

		remaining, err := repo.ReserveStock(ctx, newReservation(productID, 3))
		if err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if remaining != 7 {
			t.Fatalf("expected remaining 7, got %d", remaining)
		}
		if got := testutil.ProductStock(t, ctx, pool, productID); got != 7 {
			t.Fatalf("expected stock 7, got %d", got)
		}
	})

	t.Run("insufficient stock returns untouched level", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Keyboard", 4500, 2)

		remaining, err := repo.ReserveStock(ctx, newReservation(productID, 5))
		if err != domain.ErrInsufficientStock {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		if remaining != 2 {
			t.Fatalf("expected remaining 2, got %d", remaining)
		}
		if got := testutil.ProductStock(t, ctx, pool, productID); got != 2 {
			t.Fatalf("stock must be untouched, got %d", got)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		_, err := repo.ReserveStock(ctx, newReservation(99999, 1))
		if err != domain.ErrProductNotFound {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("two sessions race for the last unit", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Keyboard", 4500, 1)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.ReserveStock(ctx, newReservation(productID, 1))
			}(i)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			switch err {
			case nil:
				wins++
			case domain.ErrInsufficientStock:
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if wins != 1 {
			t.Fatalf("expected exactly one winner, got %d", wins)
		}
		if got := testutil.ProductStock(t, ctx, pool, productID); got != 0 {
			t.Fatalf("expected stock 0, got %d", got)
		}
	})
}

func TestRepoReleaseReservation(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := &Repo{DB: pool}
	testutil.ApplyMigrations(t, context.Background(), pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)
	productID := testutil.InsertProduct(t, ctx, pool, "Mouse", 1500, 5)

	res := newReservation(productID, 2)
	if _, err := repo.ReserveStock(ctx, res); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	released, err := repo.ReleaseReservation(ctx, res.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if !released {
		t.Fatal("expected release to report true")
	}
	if got := testutil.ProductStock(t, ctx, pool, productID); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	// Second release is a no-op.
	released, err = repo.ReleaseReservation(ctx, res.ID)
	if err != nil {
		t.Fatalf("second release: %v", err)
	}
	if released {
		t.Fatal("expected second release to report false")
	}
	if got := testutil.ProductStock(t, ctx, pool, productID); got != 5 {
		t.Fatalf("stock must not be credited twice, got %d", got)
	}
}

func TestRepoFinalizeReservation(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := &Repo{DB: pool}
	testutil.ApplyMigrations(t, context.Background(), pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)
	productID := testutil.InsertProduct(t, ctx, pool, "Monitor", 25000, 3)

	res := newReservation(productID, 1)
	if _, err := repo.ReserveStock(ctx, res); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := repo.FinalizeReservation(ctx, res.ID); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	// Finalized debits stay debited.
	released, err := repo.ReleaseReservation(ctx, res.ID)
	if err != nil {
		t.Fatalf("release after finalize: %v", err)
	}
	if released {
		t.Fatal("finalized reservation must not release")
	}
	if got := testutil.ProductStock(t, ctx, pool, productID); got != 2 {
		t.Fatalf("expected stock 2, got %d", got)
	}

	// Finalizing a second time fails loudly.
	if err := repo.FinalizeReservation(ctx, res.ID); err == nil {
		t.Fatal("expected error on double finalize")
	}
}

func TestRepoReleaseStaleReservations(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := &Repo{DB: pool}
	testutil.ApplyMigrations(t, context.Background(), pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)
	productID := testutil.InsertProduct(t, ctx, pool, "Webcam", 8000, 10)

	stale := newReservation(productID, 4)
	stale.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	if _, err := repo.ReserveStock(ctx, stale); err != nil {
		t.Fatalf("reserve stale: %v", err)
	}
	live := newReservation(productID, 1)
	if _, err := repo.ReserveStock(ctx, live); err != nil {
		t.Fatalf("reserve live: %v", err)
	}

	n, err := repo.ReleaseStaleReservations(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("release stale: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 released, got %d", n)
	}
	if got := testutil.ProductStock(t, ctx, pool, productID); got != 9 {
		t.Fatalf("expected stock 9, got %d", got)
	}
}
