package catalog

import "fmt"

// Typed domain errors surfaced to the web layer. None of these are retried
// automatically; the caller decides what to do after inspecting the type.

// ProductNotFoundError reports a product identity that does not exist in the
// catalog store.
type ProductNotFoundError struct {
	ID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ID)
}

// ProductUnavailableError reports a product outside its availability window
// at validation time. Description is carried so the UI can name the product.
type ProductUnavailableError struct {
	Barcode     string
	Description string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %s (%s) is not available for sale", e.Barcode, e.Description)
}

// InsufficientStockError reports a requested quantity above current stock.
// Available carries the remaining stock so the UI can clamp.
type InsufficientStockError struct {
	Barcode     string
	Description string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Barcode, e.Requested, e.Available)
}

// DuplicateNameError reports a uniqueness violation on a name or barcode
// during administrative CRUD.
type DuplicateNameError struct {
	Field string
	Value string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}
