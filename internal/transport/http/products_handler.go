package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/app/batch/queries/list_products"
	"github.com/light-bringer/procat-batch/internal/app/batch/queries/product_stats"
)

// Product is one row of the products table in HTTP responses.
type Product struct {
	ID      int64  `json:"id"`
	SKU     int64  `json:"sku"`
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	Payload string `json:"payload"`
}

// ListProductsResponse is the body of GET /api/products.
type ListProductsResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

// ProductsHandler serves the products read side.
type ProductsHandler struct {
	listProducts *list_products.Query
	productStats *product_stats.Query
	logger       *slog.Logger
}

// NewProductsHandler creates a new HTTP products handler.
func NewProductsHandler(listProducts *list_products.Query, productStats *product_stats.Query, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{
		listProducts: listProducts,
		productStats: productStats,
		logger:       logger,
	}
}

// List handles GET /api/products?payload=&limit=.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &list_products.Request{Payload: query.Get("payload")}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		req.Limit = limit
	}

	records, err := h.listProducts.Execute(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list products", "error", err)
		writeJSON(w, statusForError(err), map[string]string{"error": "failed to list products"})
		return
	}

	products := make([]Product, 0, len(records))
	for _, rec := range records {
		products = append(products, toProduct(rec))
	}
	writeJSON(w, http.StatusOK, ListProductsResponse{Products: products, Count: len(products)})
}

// Stats handles GET /api/products/stats.
func (h *ProductsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.productStats.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "product stats", "error", err)
		writeJSON(w, statusForError(err), map[string]string{"error": "failed to read product stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func toProduct(rec domain.ProductRecord) Product {
	return Product{
		ID:      rec.ID,
		SKU:     rec.SKU,
		Name:    rec.Name,
		Amount:  rec.Amount,
		Payload: rec.Payload,
	}
}
