package redisx

import "time"

const (
	// Idempotency for order creation over HTTP: idem:shop:order:{external_id} -> order_id
	KeyIdemOrderCreate = "idem:shop:order:%s"

	// Cached order status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Sales counters maintained by the salesfeed consumer.
	KeySalesQty = "sales:qty" // hash: product_id -> units sold
	KeySalesTop = "sales:top" // zset: product_id scored by cents of revenue
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
