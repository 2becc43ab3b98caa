// Package checkout converts a session cart into a durable sale. The
// conversion is two-phase: validate every line against the live catalog,
// then commit the sale, its items, and the stock decrements as one
// transaction. A failure in either phase leaves the cart, the stock, and
// the sale ledger exactly as they were.
package checkout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/cart"
	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/metrics"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

// ErrEmptyCart rejects checkout of a cart with no entries.
var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	db      *gorm.DB
	catalog *catalog.Store
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(db *gorm.DB, store *catalog.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, catalog: store, logger: logger, now: time.Now}
}

// Checkout validates the cart and, if every line passes, commits a Sale
// with frozen line prices and decrements stock, all inside one
// transaction. On any validation or write failure the transaction rolls
// back and the cart is left untouched so the cashier can adjust and retry.
// actorID records which operator rang up the sale; nil is allowed.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, actorID *uint) (*models.Sale, error) {
	start := s.now()
	sale, err := s.checkout(ctx, c, actorID)
	metrics.CheckoutLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CheckoutsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}
	metrics.CheckoutsCompletedTotal.Inc()
	return sale, nil
}

func (s *Service) checkout(ctx context.Context, c *cart.Cart, actorID *uint) (*models.Sale, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}
	asOf := s.now()
	entries := c.Entries()

	// Phase 1: re-validate every line against the live catalog. Time passes
	// between add and checkout, so add-time checks are not trusted here.
	// Per line, in order: existence, availability window, stock.
	products := make([]*models.Product, 0, len(entries))
	for _, e := range entries {
		p, err := s.catalog.ProductByID(ctx, e.ProductID)
		if err != nil {
			return nil, err
		}
		if !catalog.Sellable(p, asOf) {
			return nil, &catalog.ProductUnavailableError{Barcode: p.Barcode, Description: p.Description}
		}
		if p.Stock < e.Quantity {
			return nil, &catalog.InsufficientStockError{
				Barcode:     p.Barcode,
				Description: p.Description,
				Requested:   e.Quantity,
				Available:   p.Stock,
			}
		}
		products = append(products, p)
	}

	// Phase 2: all-or-nothing commit. The guarded decrement re-checks stock
	// against the committed value, so a concurrent checkout that won the
	// race makes this one roll back with InsufficientStockError instead of
	// overdrawing.
	var sale models.Sale
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale = models.Sale{CreatedAt: asOf, CreatedByID: actorID}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		items := make([]models.SaleItem, 0, len(entries))
		for i, e := range entries {
			items = append(items, models.SaleItem{
				SaleID:    sale.ID,
				ProductID: e.ProductID,
				Quantity:  e.Quantity,
				Price:     products[i].SalePrice,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		sale.Items = items
		for i, e := range entries {
			if err := s.catalog.DecrementStock(tx, products[i], e.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	sold := 0
	for _, e := range entries {
		sold += e.Quantity
	}
	metrics.SaleItemsSoldTotal.Add(float64(sold))
	s.logger.Info("checkout committed",
		zap.Uint("sale_id", sale.ID),
		zap.Int("lines", len(entries)),
		zap.Int("items", sold),
		zap.String("total", sale.Total().String()))

	c.Clear()
	return &sale, nil
}

func failureReason(err error) string {
	var unavailable *catalog.ProductUnavailableError
	var insufficient *catalog.InsufficientStockError
	var notFound *catalog.ProductNotFoundError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.As(err, &insufficient):
		return "insufficient_stock"
	case errors.As(err, &unavailable):
		return "product_unavailable"
	case errors.As(err, &notFound):
		return "product_not_found"
	default:
		return "internal"
	}
}
