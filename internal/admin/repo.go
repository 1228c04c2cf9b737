package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/anordqvist/shopdesk/internal/domain"
	pgtx "github.com/anordqvist/shopdesk/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetAdmin(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	var hash string
	err := pgtx.QueryRow(ctx, r.DB,
		`SELECT id, username, password_hash FROM admins WHERE username=$1`, username,
	).Scan(&a.ID, &a.Username, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Admin{}, domain.ErrAdminNotFound
		}
		return domain.Admin{}, fmt.Errorf("get admin: %w", err)
	}
	a.PasswordHash = []byte(hash)
	return a, nil
}
