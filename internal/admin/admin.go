package admin

import (
	"context"
	"errors"

	"github.com/anordqvist/shopdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type Store interface {
	GetAdmin(ctx context.Context, username string) (domain.Admin, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Login verifies the password against the stored bcrypt hash. Unknown
// usernames and wrong passwords both come back as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) error {
	a, err := s.store.GetAdmin(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces a bcrypt hash for seeding admin accounts.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
