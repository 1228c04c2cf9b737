package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventOrderCommitted  = "OrderCommitted"
	EventCustomerDeleted = "CustomerDeleted"
)

const (
	TopicOrderCommitted  = "shop.order.committed"
	TopicCustomerDeleted = "shop.customer.deleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type LinePayload struct {
	ProductID     int64 `json:"product_id"`
	Qty           int   `json:"qty"`
	SubtotalCents int64 `json:"subtotal_cents"`
}

type OrderCommittedPayload struct {
	OrderID    string        `json:"order_id"`
	CustomerID int64         `json:"customer_id"`
	Lines      []LinePayload `json:"lines"`
	TotalCents int64         `json:"total_cents"`
}

type CustomerDeletedPayload struct {
	CustomerID int64     `json:"customer_id"`
	Name       string    `json:"name"`
	DeletedAt  time.Time `json:"deleted_at"`
}

// PartitionKey keeps all events for one order on one partition, in order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// UnwrapPayload decodes an envelope's payload into a concrete event type.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
