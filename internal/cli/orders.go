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

func (a *App) ordersMenu(ctx context.Context) {
	a.Prompt.Printf("\n1. List orders\n2. Order details\n3. Add new order\n4. Delete order\n5. Back\n")
	switch a.Prompt.Line("> ") {
	case "1":
		a.listOrdersMenu(ctx)
	case "2":
		a.orderDetails(ctx)
	case "3":
		a.createOrder(ctx)
	case "4":
		a.deleteOrder(ctx)
	case "5":
	default:
		a.Prompt.Printf("Invalid input: enter a number between 1 and 5.\n")
	}
}

// createOrder drives the operator loop: pick a product and quantity, reserve,
// repeat. A rejected line never ends the loop; the decision at the end is
// all-or-nothing.
func (a *App) createOrder(ctx context.Context) {
	a.listCustomers(ctx)
	customerID, err := a.Prompt.Int64("Customer ID: ")
	if err != nil {
		a.Prompt.Printf("Invalid customer ID.\n")
		return
	}

	draft, err := a.Builder.StartDraft(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			a.Prompt.Printf("Customer not found.\n")
		} else {
			a.Prompt.Printf("Error: %v\n", err)
		}
		return
	}
	a.Prompt.Printf("Customer found! Let's add some products to the order.\n")

	for {
		a.listProducts(ctx)
		s := a.Prompt.Line("Product ID (blank to finish): ")
		if s == "" {
			break
		}
		productID, err := a.Prompt.parseID(s)
		if err != nil {
			a.Prompt.Printf("Invalid product ID.\n")
			continue
		}
		qty, err := a.Prompt.Quantity("Quantity: ")
		if err != nil {
			a.Prompt.Printf("Invalid quantity.\n")
			continue
		}

		res, err := a.Builder.AddLine(ctx, draft, productID, qty)
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			a.Prompt.Printf("Product not found.\n")
			continue
		case errors.Is(err, domain.ErrInvalidQuantity):
			a.Prompt.Printf("Invalid quantity.\n")
			continue
		case errors.Is(err, domain.ErrInsufficientStock):
			a.Prompt.Printf("Not enough stock. Only %d left.\n", res.RemainingStock)
			continue
		case err != nil:
			a.Prompt.Printf("Error: %v\n", err)
			continue
		}

		a.Prompt.Printf("%d x %s added to order (subtotal: %s). Remaining stock: %d. Order total: %s\n",
			res.Line.Qty, res.Line.ProductName, money(res.Line.SubtotalCents),
			res.RemainingStock, money(res.TotalCents))

		if !a.Prompt.YesNo("Add another product? (y/n): ") {
			break
		}
	}

	if len(draft.Lines) == 0 {
		if err := a.Coordinator.Abandon(ctx, draft); err != nil {
			a.Prompt.Printf("Error: %v\n", err)
			return
		}
		a.Prompt.Printf("Order cancelled: no products were added.\n")
		return
	}

	order, err := a.Coordinator.Finalize(ctx, draft)
	if err != nil {
		a.Prompt.Printf("The order was not saved: %v\n", err)
		return
	}
	a.Prompt.Printf("Order completed! Total: %s\n", money(order.TotalCents))
	a.publishOrderCommitted(order, draft.Lines)
	a.printOrderDetails(ctx, order.ID)
}

func (a *App) publishOrderCommitted(order domain.Order, lines []domain.OrderLine) {
	if a.OrderEvents == nil {
		return
	}
	payload := events.OrderCommittedPayload{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalCents: order.TotalCents,
	}
	for _, l := range lines {
		payload.Lines = append(payload.Lines, events.LinePayload{
			ProductID: l.ProductID, Qty: l.Qty, SubtotalCents: l.SubtotalCents,
		})
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOrderCommitted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      a.ServiceName,
		CorrelationID: order.ID,
		Payload:       events.MustMarshal(payload),
	}
	a.OrderEvents.Publish(events.PartitionKey(order.ID), events.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderCommitted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (a *App) listOrdersMenu(ctx context.Context) {
	a.Prompt.Printf("\n1. All orders\n2. By status\n3. By customer\n4. Paged\n5. Back\n")
	switch a.Prompt.Line("> ") {
	case "1":
		orders, err := a.Reports.ListOrders(ctx)
		if err != nil {
			a.Prompt.Printf("Error: %v\n", err)
			return
		}
		a.printOrders(orders)
	case "2":
		a.Prompt.Printf("1. Pending\n2. Paid\n3. Shipped\n")
		var status domain.OrderStatus
		switch a.Prompt.Line("> ") {
		case "1":
			status = domain.StatusPending
		case "2":
			status = domain.StatusPaid
		case "3":
			status = domain.StatusShipped
		default:
			a.Prompt.Printf("Invalid input: enter a number between 1 and 3.\n")
			return
		}
		orders, err := a.Reports.ListOrdersByStatus(ctx, status)
		if err != nil {
			a.Prompt.Printf("Error: %v\n", err)
			return
		}
		a.printOrders(orders)
	case "3":
		a.listCustomers(ctx)
		customerID, err := a.Prompt.Int64("Customer ID: ")
		if err != nil {
			a.Prompt.Printf("Invalid customer ID.\n")
			return
		}
		orders, err := a.Reports.ListOrdersByCustomer(ctx, customerID)
		if err != nil {
			a.Prompt.Printf("Error: %v\n", err)
			return
		}
		a.printOrders(orders)
	case "4":
		page, err := a.Prompt.Quantity("Page: ")
		if err != nil {
			a.Prompt.Printf("Invalid page.\n")
			return
		}
		size, err := a.Prompt.Quantity("Page size: ")
		if err != nil {
			a.Prompt.Printf("Invalid page size.\n")
			return
		}
		res, err := a.Reports.ListOrdersPaged(ctx, page, size)
		if err != nil {
			a.Prompt.Printf("Error: %v\n", err)
			return
		}
		a.Prompt.Printf("Page %d/%d\n", res.Page, res.TotalPages)
		a.printOrders(res.Orders)
	case "5":
	default:
		a.Prompt.Printf("Invalid input: enter a number between 1 and 5.\n")
	}
}

func (a *App) printOrders(orders []domain.Order) {
	a.Prompt.Printf("\n%-36s | %-25s | %-12s | %-12s | %-10s\n", "ID", "Customer", "Date", "Total", "Status")
	for _, o := range orders {
		a.Prompt.Printf("%-36s | %-25s | %-12s | %-12s | %-10s\n",
			o.ID, o.CustomerName, o.PlacedAt.Format("2006-01-02"), money(o.TotalCents), o.Status)
	}
}

func (a *App) orderDetails(ctx context.Context) {
	orderID := a.Prompt.Line("Order ID: ")
	a.printOrderDetails(ctx, orderID)
}

func (a *App) printOrderDetails(ctx context.Context, orderID string) {
	order, lines, err := a.Orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			a.Prompt.Printf("Order not found.\n")
		} else {
			a.Prompt.Printf("Error: %v\n", err)
		}
		return
	}
	a.Prompt.Printf("\n%-35s | %-10s | %-10s | %-12s\n", "Product", "Price", "Quantity", "Total")
	for _, l := range lines {
		a.Prompt.Printf("%-35s | %-10s | %-10d | %-12s\n",
			l.ProductName, money(l.UnitPriceCents), l.Qty, money(l.SubtotalCents))
	}
	a.Prompt.Printf("%-35s | %-10s | %-10s | %-12s\n", "Total", "", "", money(order.TotalCents))
}

func (a *App) deleteOrder(ctx context.Context) {
	orderID := a.Prompt.Line("Order ID: ")
	if err := a.Orders.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			a.Prompt.Printf("Order not found.\n")
		} else {
			a.Prompt.Printf("Error: %v\n", err)
		}
		return
	}
	a.Prompt.Printf("Order deleted!\n")
}
