package handlers

import (
	"net/http"
	"time"

	"github.com/Abdullo200604/idealmarket/internal/auth"
	"github.com/Abdullo200604/idealmarket/internal/cart"
	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/checkout"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

const cartCookieName = "cart_session"

// CartHandler manages the per-session working cart and hands it to the
// checkout service. The cart is an explicit in-memory value keyed by an
// opaque cookie; nothing about it touches the database until checkout.
type CartHandler struct {
	Store    *catalog.Store
	Sessions *cart.SessionStore
	Checkout *checkout.Service
}

func NewCartHandler(store *catalog.Store, sessions *cart.SessionStore, svc *checkout.Service) *CartHandler {
	return &CartHandler{Store: store, Sessions: sessions, Checkout: svc}
}

// sessionCart returns the caller's cart, minting the session cookie on
// first use.
func (h *CartHandler) sessionCart(w http.ResponseWriter, r *http.Request) *cart.Cart {
	if c, err := r.Cookie(cartCookieName); err == nil && c.Value != "" {
		return h.Sessions.Get(c.Value)
	}
	id := cart.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return h.Sessions.Get(id)
}

func (h *CartHandler) lookup(r *http.Request) cart.Lookup {
	return func(productID uint) (*models.Product, error) {
		return h.Store.ProductByID(r.Context(), productID)
	}
}

// Show: GET /cart resolves every line against the live catalog so prices
// reflect current values until checkout freezes them.
func (h *CartHandler) Show(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(w, r)
	lines, total, err := c.Snapshot(h.lookup(r))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": lines, "total": total})
}

// Add: POST /cart/items accepts a product id or a scanned barcode.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint   `json:"product_id"`
		Barcode   string `json:"barcode"`
		Quantity  int    `json:"quantity"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	// A scan without an explicit quantity means one unit.
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var (
		p   *models.Product
		err error
	)
	if req.Barcode != "" {
		p, err = h.Store.ProductByBarcode(r.Context(), req.Barcode)
	} else {
		p, err = h.Store.ProductByID(r.Context(), req.ProductID)
	}
	if err != nil {
		httpx.DomainError(w, err)
		return
	}

	c := h.sessionCart(w, r)
	if err := c.Add(p, req.Quantity, time.Now()); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product_id": p.ID,
		"quantity":   c.Quantity(p.ID),
		"items":      c.Len(),
	})
}

// Update: POST /cart/items/update bumps a line up or down by one.
// Decrementing a quantity of one removes the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint   `json:"product_id"`
		Direction string `json:"direction"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var dir cart.Direction
	switch req.Direction {
	case string(cart.Increment):
		dir = cart.Increment
	case string(cart.Decrement):
		dir = cart.Decrement
	default:
		httpx.JSONError(w, http.StatusBadRequest, "invalid_direction", nil)
		return
	}

	c := h.sessionCart(w, r)
	if c.Quantity(req.ProductID) == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_in_cart", nil)
		return
	}
	c.Update(req.ProductID, dir)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product_id": req.ProductID,
		"quantity":   c.Quantity(req.ProductID),
		"items":      c.Len(),
	})
}

// Remove: POST /cart/items/remove drops a line regardless of quantity.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	c := h.sessionCart(w, r)
	c.Remove(req.ProductID)
	httpx.JSON(w, http.StatusOK, map[string]any{"items": c.Len()})
}

// Clear: POST /cart/clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(w, r)
	c.Clear()
	httpx.JSON(w, http.StatusOK, map[string]any{"items": 0})
}

// Pay: POST /checkout runs the two-phase checkout against the session cart.
// On success the cart is already emptied by the service.
func (h *CartHandler) Pay(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(w, r)

	var actorID *uint
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		uid := id.UserID
		actorID = &uid
	}

	sale, err := h.Checkout.Checkout(r.Context(), c, actorID)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"sale_id":    sale.ID,
		"total":      sale.Total(),
		"created_at": sale.CreatedAt,
		"items":      sale.Items,
	})
}
