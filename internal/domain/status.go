package domain

type OrderStatus string

const (
	StatusPending OrderStatus = "Pending"
	StatusPaid    OrderStatus = "Paid"
	StatusShipped OrderStatus = "Shipped"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending: {StatusPaid: true},
	StatusPaid:    {StatusShipped: true},
	StatusShipped: {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "RESERVED"
	ReservationFinalized ReservationStatus = "FINALIZED"
	ReservationReleased  ReservationStatus = "RELEASED"
)
