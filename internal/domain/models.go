package domain

import "time"

type Category struct {
	ID          int64
	Name        string
	Description string
}

type Product struct {
	ID           int64
	CategoryID   *int64
	CategoryName string
	Name         string
	PriceCents   int64
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Customer struct {
	ID        int64
	Name      string
	City      string
	Email     string
	CreatedAt time.Time
}

type Order struct {
	ID           string
	ExternalID   string
	CustomerID   int64
	CustomerName string
	Status       OrderStatus
	TotalCents   int64
	PlacedAt     time.Time
}

type OrderLine struct {
	ID             int64
	OrderID        string
	ProductID      int64
	ProductName    string
	Qty            int
	UnitPriceCents int64
	SubtotalCents  int64
}

// Reservation is a tentative stock debit tied to one draft line. It stays
// reversible until the draft commits; the row doubles as the compensating
// record used to undo leaked debits after a crash.
type Reservation struct {
	ID        string
	DraftID   string
	ProductID int64
	Qty       int
	Status    ReservationStatus
	CreatedAt time.Time
}

type Admin struct {
	ID           int64
	Username     string
	PasswordHash []byte
}

// DeletedCustomerLog records a customer row at the moment of deletion,
// written in the same transaction as the delete.
type DeletedCustomerLog struct {
	CustomerID int64
	Name       string
	City       string
	Email      string
	DeletedAt  time.Time
}
