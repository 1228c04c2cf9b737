package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anordqvist/shopdesk/internal/domain"
	pgtx "github.com/anordqvist/shopdesk/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Store against Postgres. The check-then-decrement runs under
// a row lock on the product, so two sessions can never both pass the
// availability check for stock that only covers one of them.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ReserveStock(ctx context.Context, res domain.Reservation) (int, error) {
	var remaining int
	err := pgtx.WithTx(ctx, r.DB, func(txCtx context.Context) error {
		var stock int
		err := pgtx.QueryRow(txCtx, r.DB, `SELECT stock FROM products WHERE id=$1 FOR UPDATE`, res.ProductID).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("lock product: %w", err)
		}
		if stock < res.Qty {
			remaining = stock
			return domain.ErrInsufficientStock
		}

		if _, err := pgtx.Exec(txCtx, r.DB,
			`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id=$1`,
			res.ProductID, res.Qty,
		); err != nil {
			return fmt.Errorf("debit stock: %w", err)
		}

		if _, err := pgtx.Exec(txCtx, r.DB, `
			INSERT INTO reservations(id, draft_id, product_id, qty, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			res.ID, res.DraftID, res.ProductID, res.Qty, res.Status, res.CreatedAt,
		); err != nil {
			return fmt.Errorf("record reservation: %w", err)
		}

		remaining = stock - res.Qty
		return nil
	})
	return remaining, err
}

func (r *Repo) ReleaseReservation(ctx context.Context, reservationID string) (bool, error) {
	released := false
	err := pgtx.WithTx(ctx, r.DB, func(txCtx context.Context) error {
		var productID int64
		var qty int
		err := pgtx.QueryRow(txCtx, r.DB, `
			UPDATE reservations SET status=$2
			WHERE id=$1 AND status=$3
			RETURNING product_id, qty`,
			reservationID, domain.ReservationReleased, domain.ReservationReserved,
		).Scan(&productID, &qty)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil // already released or finalized
			}
			return fmt.Errorf("release reservation: %w", err)
		}

		if _, err := pgtx.Exec(txCtx, r.DB,
			`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id=$1`,
			productID, qty,
		); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		released = true
		return nil
	})
	return released, err
}

func (r *Repo) FinalizeReservation(ctx context.Context, reservationID string) error {
	ct, err := pgtx.Exec(ctx, r.DB, `
		UPDATE reservations SET status=$2
		WHERE id=$1 AND status=$3`,
		reservationID, domain.ReservationFinalized, domain.ReservationReserved,
	)
	if err != nil {
		return fmt.Errorf("finalize reservation: %w", err)
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("finalize reservation %s: not in reserved state", reservationID)
	}
	return nil
}

func (r *Repo) ReleaseStaleReservations(ctx context.Context, cutoff time.Time) (int, error) {
	released := 0
	err := pgtx.WithTx(ctx, r.DB, func(txCtx context.Context) error {
		rows, err := pgtx.Query(txCtx, r.DB, `
			SELECT id, product_id, qty FROM reservations
			WHERE status=$1 AND created_at < $2
			FOR UPDATE`,
			domain.ReservationReserved, cutoff,
		)
		if err != nil {
			return fmt.Errorf("list stale reservations: %w", err)
		}
		defer rows.Close()

		type rec struct {
			id  string
			pid int64
			qty int
		}
		var stale []rec
		for rows.Next() {
			var x rec
			if err := rows.Scan(&x.id, &x.pid, &x.qty); err != nil {
				return err
			}
			stale = append(stale, x)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, x := range stale {
			if _, err := pgtx.Exec(txCtx, r.DB,
				`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id=$1`,
				x.pid, x.qty,
			); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
			if _, err := pgtx.Exec(txCtx, r.DB,
				`UPDATE reservations SET status=$2 WHERE id=$1`,
				x.id, domain.ReservationReleased,
			); err != nil {
				return fmt.Errorf("release reservation: %w", err)
			}
			released++
		}
		return nil
	})
	return released, err
}
