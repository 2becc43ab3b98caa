// Package cart holds the session-scoped pending purchase list. A cart is an
// explicit value owned by one session and handed to checkout by reference;
// nothing here touches persistence.
package cart

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

// ErrInvalidQuantity rejects non-positive quantities at add time.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Direction selects how Update moves a line's quantity.
type Direction string

const (
	Increment Direction = "increment"
	Decrement Direction = "decrement"
)

// Cart maps product identity to requested quantity. A cart is confined to a
// single session and never accessed concurrently, so it carries no lock.
type Cart struct {
	items map[uint]int
}

func New() *Cart {
	return &Cart{items: make(map[uint]int)}
}

// Add increments the stored quantity for the product. The product must be
// inside its availability window as of asOf; adding an expired product
// surfaces ProductUnavailableError so the cashier sees it immediately
// instead of at checkout.
func (c *Cart) Add(p *models.Product, qty int, asOf time.Time) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if !catalog.Sellable(p, asOf) {
		return &catalog.ProductUnavailableError{Barcode: p.Barcode, Description: p.Description}
	}
	c.items[p.ID] += qty
	return nil
}

// Update moves the quantity for productID one step in the given direction.
// Decrementing below one removes the line entirely; no zero-quantity entry
// ever persists. Returns false if the product is not in the cart.
func (c *Cart) Update(productID uint, dir Direction) bool {
	qty, ok := c.items[productID]
	if !ok {
		return false
	}
	switch dir {
	case Increment:
		c.items[productID] = qty + 1
	case Decrement:
		if qty <= 1 {
			delete(c.items, productID)
		} else {
			c.items[productID] = qty - 1
		}
	default:
		return false
	}
	return true
}

// Remove deletes the line if present; removing an absent product is a no-op.
func (c *Cart) Remove(productID uint) {
	delete(c.items, productID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = make(map[uint]int)
}

// Len returns the number of distinct product lines.
func (c *Cart) Len() int { return len(c.items) }

// Quantity returns the requested quantity for a product (0 if absent).
func (c *Cart) Quantity(productID uint) int { return c.items[productID] }

// Entries returns the cart contents as (productID, quantity) pairs in
// ascending product order. Checkout iterates this so lock acquisition is
// deterministic across concurrent transactions.
func (c *Cart) Entries() []Entry {
	entries := make([]Entry, 0, len(c.items))
	for id, qty := range c.items {
		entries = append(entries, Entry{ProductID: id, Quantity: qty})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ProductID < entries[j].ProductID })
	return entries
}

// Entry is one stored cart line before product resolution.
type Entry struct {
	ProductID uint
	Quantity  int
}

// Line is one resolved cart line with its current subtotal.
type Line struct {
	Product  models.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Lookup resolves a product identity against the catalog store.
type Lookup func(productID uint) (*models.Product, error)

// Snapshot resolves every line against the catalog at read time (never
// cached) and returns the lines with a grand total, so displayed prices
// always reflect current data. A vanished product propagates as a lookup
// failure. Calling Snapshot again restarts the resolution from scratch.
func (c *Cart) Snapshot(lookup Lookup) ([]Line, decimal.Decimal, error) {
	lines := make([]Line, 0, len(c.items))
	total := decimal.Zero
	for _, e := range c.Entries() {
		p, err := lookup(e.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		subtotal := p.SalePrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
		lines = append(lines, Line{Product: *p, Quantity: e.Quantity, Subtotal: subtotal})
		total = total.Add(subtotal)
	}
	return lines, total, nil
}
