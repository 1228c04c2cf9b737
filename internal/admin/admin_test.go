package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	admins map[string]domain.Admin
	err    error
}

func (f *fakeStore) GetAdmin(_ context.Context, username string) (domain.Admin, error) {
	if f.err != nil {
		return domain.Admin{}, f.err
	}
	a, ok := f.admins[username]
	if !ok {
		return domain.Admin{}, domain.ErrAdminNotFound
	}
	return a, nil
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	store := &fakeStore{admins: map[string]domain.Admin{
		"root": {ID: 1, Username: "root", PasswordHash: hash},
	}}
	svc := NewService(store)

	t.Run("correct credentials", func(t *testing.T) {
		require.NoError(t, svc.Login(ctx, "root", "s3cret"))
	})

	t.Run("wrong password", func(t *testing.T) {
		require.ErrorIs(t, svc.Login(ctx, "root", "guess"), domain.ErrInvalidCredentials)
	})

	t.Run("unknown user looks identical to wrong password", func(t *testing.T) {
		require.ErrorIs(t, svc.Login(ctx, "nobody", "s3cret"), domain.ErrInvalidCredentials)
	})

	t.Run("store failures pass through", func(t *testing.T) {
		boom := errors.New("connection refused")
		svc := NewService(&fakeStore{err: boom})
		require.ErrorIs(t, svc.Login(ctx, "root", "s3cret"), boom)
	})
}
