package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdullo200604/idealmarket/internal/cart"
	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/checkout"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// DomainError maps well-known domain errors to HTTP responses. Unknown
// errors become a 500 with a generic message so internals never leak.
func DomainError(w http.ResponseWriter, err error) {
	var notFound *catalog.ProductNotFoundError
	var unavailable *catalog.ProductUnavailableError
	var stock *catalog.InsufficientStockError
	var dup *catalog.DuplicateNameError
	switch {
	case errors.As(err, &notFound):
		JSONError(w, http.StatusNotFound, "product_not_found", map[string]any{"id": notFound.ID})
	case errors.As(err, &unavailable):
		JSONError(w, http.StatusConflict, "product_unavailable", map[string]any{
			"barcode":     unavailable.Barcode,
			"description": unavailable.Description,
		})
	case errors.As(err, &stock):
		JSONError(w, http.StatusConflict, "insufficient_stock", map[string]any{
			"barcode":     stock.Barcode,
			"description": stock.Description,
			"requested":   stock.Requested,
			"available":   stock.Available,
		})
	case errors.As(err, &dup):
		JSONError(w, http.StatusConflict, "duplicate_name", map[string]any{
			"field": dup.Field,
			"value": dup.Value,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		JSONError(w, http.StatusBadRequest, "empty_cart", nil)
	case errors.Is(err, cart.ErrInvalidQuantity):
		JSONError(w, http.StatusBadRequest, "invalid_quantity", nil)
	default:
		JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// DecodeJSON reads a JSON request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
