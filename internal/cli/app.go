package cli

import (
	"context"
	"errors"

	"github.com/anordqvist/shopdesk/internal/admin"
	"github.com/anordqvist/shopdesk/internal/catalog"
	"github.com/anordqvist/shopdesk/internal/customers"
	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/anordqvist/shopdesk/internal/events"
	"github.com/anordqvist/shopdesk/internal/orders"
	"github.com/anordqvist/shopdesk/internal/reports"
)

// OrderDirectory is the slice of order persistence the CLI reads and prunes.
type OrderDirectory interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, []domain.OrderLine, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

const maxLoginAttempts = 3

// App wires the interactive menus over the services. Event producers are
// optional; without brokers configured the tool works the same, just silent.
type App struct {
	Prompt      *Prompter
	Admins      *admin.Service
	Customers   *customers.Service
	Catalog     *catalog.Service
	Builder     *orders.Builder
	Coordinator *orders.Coordinator
	Orders      OrderDirectory
	Reports     *reports.Service

	OrderEvents    *events.Producer
	CustomerEvents *events.Producer
	ServiceName    string
}

// Run blocks on the operator session until quit or EOF.
func (a *App) Run(ctx context.Context) error {
	if !a.login(ctx) {
		return domain.ErrInvalidCredentials
	}

	for {
		a.Prompt.Printf("\nWelcome to shopdesk!\n")
		a.Prompt.Printf("1. Customers\n2. Orders\n3. Catalog\n4. Reports\n5. Quit\n")
		switch a.Prompt.Line("> ") {
		case "1":
			a.customersMenu(ctx)
		case "2":
			a.ordersMenu(ctx)
		case "3":
			a.catalogMenu(ctx)
		case "4":
			a.reportsMenu(ctx)
		case "5", "":
			return nil
		default:
			a.Prompt.Printf("Invalid input: enter a number between 1 and 5.\n")
		}
	}
}

func (a *App) login(ctx context.Context) bool {
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		a.Prompt.Printf("\n---- Admin Login ----\n")
		username := a.Prompt.Line("Username: ")
		password := a.Prompt.Line("Password: ")

		err := a.Admins.Login(ctx, username, password)
		if err == nil {
			a.Prompt.Printf("Welcome, %s! Access granted.\n", username)
			return true
		}
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			a.Prompt.Printf("Login error: %v\n", err)
			return false
		}
		if attempt < maxLoginAttempts {
			a.Prompt.Printf("Attempt %d/%d failed. Try again.\n", attempt, maxLoginAttempts)
		}
	}
	a.Prompt.Printf("Maximum login attempts reached. Access denied.\n")
	return false
}
