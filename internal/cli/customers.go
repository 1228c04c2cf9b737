package cli

import (
	"context"
	"errors"
	"time"

	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/anordqvist/shopdesk/internal/events"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

func (a *App) customersMenu(ctx context.Context) {
	a.Prompt.Printf("\n1. List customers\n2. Add customer\n3. Edit customer\n4. Delete customer\n5. Back\n")
	switch a.Prompt.Line("> ") {
	case "1":
		a.listCustomers(ctx)
	case "2":
		a.addCustomer(ctx)
	case "3":
		a.editCustomer(ctx)
	case "4":
		a.deleteCustomer(ctx)
	case "5":
	default:
		a.Prompt.Printf("Invalid input: enter a number between 1 and 5.\n")
	}
}

func (a *App) listCustomers(ctx context.Context) {
	list, err := a.Customers.List(ctx)
	if err != nil {
		a.Prompt.Printf("Error: %v\n", err)
		return
	}
	a.Prompt.Printf("\n%-6s | %-25s | %-20s | %-30s\n", "ID", "Name", "City", "Email")
	for _, c := range list {
		a.Prompt.Printf("%-6d | %-25s | %-20s | %-30s\n", c.ID, c.Name, c.City, c.Email)
	}
}

func (a *App) addCustomer(ctx context.Context) {
	name := a.Prompt.Line("Name: ")
	city := a.Prompt.Line("City: ")
	email := a.Prompt.Line("Email: ")

	c, err := a.Customers.Add(ctx, name, city, email)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.Prompt.Printf("Invalid input: %v\n", err)
	case errors.Is(err, domain.ErrDuplicateEmail):
		a.Prompt.Printf("A customer with that email already exists.\n")
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
	default:
		a.Prompt.Printf("Customer %s added with ID %d.\n", c.Name, c.ID)
	}
}

func (a *App) editCustomer(ctx context.Context) {
	a.listCustomers(ctx)
	id, err := a.Prompt.Int64("Customer ID: ")
	if err != nil {
		a.Prompt.Printf("Invalid customer ID.\n")
		return
	}
	a.Prompt.Printf("Leave a field blank to keep its current value.\n")
	name := a.Prompt.Line("Name: ")
	city := a.Prompt.Line("City: ")
	email := a.Prompt.Line("Email: ")

	c, err := a.Customers.Edit(ctx, id, name, city, email)
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		a.Prompt.Printf("Customer not found.\n")
	case errors.Is(err, domain.ErrInvalidInput):
		a.Prompt.Printf("Invalid input: %v\n", err)
	case errors.Is(err, domain.ErrDuplicateEmail):
		a.Prompt.Printf("A customer with that email already exists.\n")
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
	default:
		a.Prompt.Printf("Customer %d updated.\n", c.ID)
	}
}

func (a *App) deleteCustomer(ctx context.Context) {
	a.listCustomers(ctx)
	id, err := a.Prompt.Int64("Customer ID: ")
	if err != nil {
		a.Prompt.Printf("Invalid customer ID.\n")
		return
	}
	if !a.Prompt.YesNo("Delete this customer? (y/n): ") {
		return
	}

	entry, err := a.Customers.Delete(ctx, id)
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		a.Prompt.Printf("Customer not found.\n")
		return
	case errors.Is(err, domain.ErrCustomerHasOrders):
		a.Prompt.Printf("Customer has orders and cannot be deleted.\n")
		return
	case err != nil:
		a.Prompt.Printf("Error: %v\n", err)
		return
	}
	a.Prompt.Printf("Customer %s deleted.\n", entry.Name)
	a.publishCustomerDeleted(entry)
}

func (a *App) publishCustomerDeleted(entry domain.DeletedCustomerLog) {
	if a.CustomerEvents == nil {
		return
	}
	payload := events.CustomerDeletedPayload{
		CustomerID: entry.CustomerID,
		Name:       entry.Name,
		DeletedAt:  entry.DeletedAt,
	}
	ev := events.Envelope{
		EventID:      uuid.NewString(),
		EventType:    events.EventCustomerDeleted,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     a.ServiceName,
		Payload:      events.MustMarshal(payload),
	}
	a.CustomerEvents.Publish([]byte(uuid.NewString()), events.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventCustomerDeleted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
