package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anordqvist/shopdesk/internal/catalog"
	"github.com/anordqvist/shopdesk/internal/domain"
	"github.com/anordqvist/shopdesk/internal/events"
	"github.com/anordqvist/shopdesk/internal/orders"
	"github.com/anordqvist/shopdesk/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type ItemInput struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

type CreateOrderReq struct {
	ExternalID string      `json:"external_id"`
	CustomerID int64       `json:"customer_id"`
	Items      []ItemInput `json:"items"`
}

type CreateOrderResp struct {
	OrderID    string `json:"order_id"`
	TotalCents int64  `json:"total_cents"`
	Idempotent bool   `json:"idempotent"`
}

type LineResp struct {
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"`
	Qty           int    `json:"qty"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

type OrderResp struct {
	OrderID    string     `json:"order_id"`
	CustomerID int64      `json:"customer_id"`
	Status     string     `json:"status"`
	TotalCents int64      `json:"total_cents"`
	PlacedAt   time.Time  `json:"placed_at"`
	Lines      []LineResp `json:"lines,omitempty"`
}

// Cache is the slice of the Redis client the order handlers use. *redis.Client
// satisfies it; tests plug in a map-backed fake.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type OrdersHandler struct {
	Builder     *orders.Builder
	Coordinator *orders.Coordinator
	Orders      *orders.Repo
	Catalog     *catalog.Service
	Redis       Cache
	Producer    *events.Producer
	Service     string
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getOrderStatus)
	r.Get("/products", h.listProducts)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyDraft):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// createOrder runs the whole workflow non-interactively: start a draft, add
// every item, then finalize. Any rejected item abandons the draft so no
// reservation outlives the request.
func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CustomerID == 0 || len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	idemKey := ""
	if req.ExternalID != "" {
		idemKey = fmt.Sprintf(redisx.KeyIdemOrderCreate, req.ExternalID)
		// Cached retries skip the database entirely.
		if s, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && s != "" {
			var resp CreateOrderResp
			if json.Unmarshal([]byte(s), &resp) == nil && resp.OrderID != "" {
				resp.Idempotent = true
				writeJSON(w, http.StatusOK, resp)
				return
			}
		}
		existing, err := h.Orders.GetOrderByExternalID(ctx, req.ExternalID)
		if err != nil {
			writeError(w, err)
			return
		}
		if existing != nil {
			h.cacheIdem(ctx, idemKey, existing.ID, existing.TotalCents)
			writeJSON(w, http.StatusOK, CreateOrderResp{OrderID: existing.ID, TotalCents: existing.TotalCents, Idempotent: true})
			return
		}
	}

	draft, err := h.Builder.StartDraft(ctx, req.CustomerID)
	if err != nil {
		writeError(w, err)
		return
	}
	draft.ExternalID = req.ExternalID

	for _, it := range req.Items {
		if _, err := h.Builder.AddLine(ctx, draft, it.ProductID, it.Qty); err != nil {
			_ = h.Coordinator.Abandon(ctx, draft)
			writeError(w, err)
			return
		}
	}

	order, err := h.Coordinator.Finalize(ctx, draft)
	if err != nil {
		writeError(w, err)
		return
	}

	if idemKey != "" {
		h.cacheIdem(ctx, idemKey, order.ID, order.TotalCents)
	}
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, order.ID)
	_ = h.Redis.Set(ctx, statusKey, fmt.Sprintf(`{"status":%q}`, order.Status), redisx.TTLStatusCache).Err()

	h.publishCommitted(order, draft.Lines)

	writeJSON(w, http.StatusCreated, CreateOrderResp{OrderID: order.ID, TotalCents: order.TotalCents})
}

func (h *OrdersHandler) cacheIdem(ctx context.Context, key, orderID string, totalCents int64) {
	b, _ := json.Marshal(CreateOrderResp{OrderID: orderID, TotalCents: totalCents})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLIdempotency).Err()
}

func (h *OrdersHandler) publishCommitted(order domain.Order, lines []domain.OrderLine) {
	if h.Producer == nil {
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
		Producer:      h.Service,
		CorrelationID: order.ID,
		Payload:       events.MustMarshal(payload),
	}
	h.Producer.Publish(events.PartitionKey(order.ID), events.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderCommitted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, lines, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := OrderResp{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
		PlacedAt:   order.PlacedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, LineResp{
			ProductID: l.ProductID, ProductName: l.ProductName, Qty: l.Qty, SubtotalCents: l.SubtotalCents,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// getOrderStatus serves the hot status poll from Redis, falling back to the
// database and refilling the cache on a miss.
func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	status, err := h.Orders.GetOrderStatus(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	body := fmt.Sprintf(`{"status":%q}`, status)
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
	writeJSON(w, http.StatusOK, json.RawMessage(body))
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}
