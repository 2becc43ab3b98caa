package handlers

import (
	"net/http"
	"time"

	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
)

// KassaHandler serves the cashier-facing product browse. Only products whose
// availability window covers today are returned; the filter is the same
// SellableScope checkout re-validates against.
type KassaHandler struct {
	Store *catalog.Store
}

func NewKassaHandler(store *catalog.Store) *KassaHandler { return &KassaHandler{Store: store} }

// Products: GET /kassa/products?q=...
func (h *KassaHandler) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	products, err := h.Store.SearchSellable(r.Context(), q, time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}
