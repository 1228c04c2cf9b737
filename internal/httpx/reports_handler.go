package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/anordqvist/shopdesk/internal/reports"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type ReportsHandler struct {
	Reports *reports.Service
	Redis   *redis.Client
}

func (h *ReportsHandler) Register(r *chi.Mux) {
	r.Get("/reports/product-sales", h.productSales)
	r.Get("/reports/category-sales", h.categorySales)
	r.Get("/reports/top-products", h.topProducts)
}

func (h *ReportsHandler) productSales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rows, err := h.Reports.ProductSales(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportsHandler) categorySales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rows, err := h.Reports.CategorySales(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// topProducts serves the Redis leaderboard maintained by the salesfeed
// consumer, falling back on nothing: an empty feed means an empty list.
func (h *ReportsHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := reports.TopProducts(ctx, h.Redis, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
