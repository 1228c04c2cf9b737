package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/anordqvist/shopdesk/internal/clock"
	"github.com/anordqvist/shopdesk/internal/domain"
)

type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (domain.Customer, error)
	CustomerExists(ctx context.Context, id int64) (bool, error)
	InsertCustomer(ctx context.Context, c domain.Customer) (int64, error)
	UpdateCustomer(ctx context.Context, c domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	CountOrders(ctx context.Context, customerID int64) (int, error)
	InsertDeletedLog(ctx context.Context, entry domain.DeletedCustomerLog) error
}

const maxFieldLen = 100

type Service struct {
	store Store
	codec Codec
	clock clock.Clock
}

func NewService(store Store, codec Codec, clk clock.Clock) *Service {
	return &Service{store: store, codec: codec, clock: clk}
}

func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	out, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Email, err = s.codec.Decode(out[i].Email); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if c.Email, err = s.codec.Decode(c.Email); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

// Exists serves the order builder's customer lookup.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.store.CustomerExists(ctx, id)
}

func (s *Service) Add(ctx context.Context, name, city, email string) (domain.Customer, error) {
	if err := validateField("name", name); err != nil {
		return domain.Customer{}, err
	}
	if err := validateField("city", city); err != nil {
		return domain.Customer{}, err
	}
	if err := validateField("email", email); err != nil {
		return domain.Customer{}, err
	}

	c := domain.Customer{
		Name:      strings.TrimSpace(name),
		City:      strings.TrimSpace(city),
		Email:     s.codec.Encode(strings.TrimSpace(email)),
		CreatedAt: s.clock.Now(),
	}
	id, err := s.store.InsertCustomer(ctx, c)
	if err != nil {
		return domain.Customer{}, err
	}
	c.ID = id
	c.Email = strings.TrimSpace(email)
	return c, nil
}

// Edit updates only the fields given; blank values keep the stored ones.
func (s *Service) Edit(ctx context.Context, id int64, name, city, email string) (domain.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		if err := validateField("name", name); err != nil {
			return domain.Customer{}, err
		}
		c.Name = name
	}
	if city = strings.TrimSpace(city); city != "" {
		if err := validateField("city", city); err != nil {
			return domain.Customer{}, err
		}
		c.City = city
	}
	if email = strings.TrimSpace(email); email != "" {
		if err := validateField("email", email); err != nil {
			return domain.Customer{}, err
		}
		c.Email = s.codec.Encode(email)
	}
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	if c.Email, err = s.codec.Decode(c.Email); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

// Delete refuses while the customer has orders, then removes the row and
// writes the audit log entry in the same transaction. The log keeps the
// stored (possibly obfuscated) email value, exactly as the row held it.
func (s *Service) Delete(ctx context.Context, id int64) (domain.DeletedCustomerLog, error) {
	var entry domain.DeletedCustomerLog
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		c, err := s.store.GetCustomer(txCtx, id)
		if err != nil {
			return err
		}
		n, err := s.store.CountOrders(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrCustomerHasOrders
		}

		entry = domain.DeletedCustomerLog{
			CustomerID: c.ID,
			Name:       c.Name,
			City:       c.City,
			Email:      c.Email,
			DeletedAt:  s.clock.Now(),
		}
		if err := s.store.InsertDeletedLog(txCtx, entry); err != nil {
			return err
		}
		return s.store.DeleteCustomer(txCtx, id)
	})
	if err != nil {
		return domain.DeletedCustomerLog{}, err
	}
	return entry, nil
}

func validateField(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, field)
	}
	if len(value) > maxFieldLen {
		return fmt.Errorf("%w: %s cannot exceed %d characters", domain.ErrInvalidInput, field, maxFieldLen)
	}
	return nil
}
