package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/models"
)

// Store is the catalog persistence layer: products, categories, warehouses
// and the guarded stock mutation used by checkout.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for read-only composition (stats, admin listings).
func (s *Store) DB() *gorm.DB { return s.db }

// ProductByID loads one product or returns ProductNotFoundError.
func (s *Store) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ProductNotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductByBarcode loads one product by its unique external barcode.
func (s *Store) ProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Where("barcode = ?", barcode).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ProductNotFoundError{}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchSellable lists currently sellable products, optionally filtered by a
// barcode/description substring. This is the cashier-facing browse query and
// shares its availability filter with checkout via SellableScope.
func (s *Store) SearchSellable(ctx context.Context, query string, asOf time.Time) ([]models.Product, error) {
	dbq := s.db.WithContext(ctx).Scopes(SellableScope(asOf))
	if q := strings.TrimSpace(query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(description) LIKE ? OR lower(barcode) LIKE ?", like, like)
	}
	var products []models.Product
	if err := dbq.Order("id desc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct inserts a new product, truncating its window bounds to dates.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	normalizeWindow(p)
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicate(err) {
			return &DuplicateNameError{Field: "barcode", Value: p.Barcode}
		}
		return err
	}
	return nil
}

// SaveProduct persists updates to an existing product.
func (s *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	normalizeWindow(p)
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		if isDuplicate(err) {
			return &DuplicateNameError{Field: "barcode", Value: p.Barcode}
		}
		return err
	}
	return nil
}

// ArchiveOrDeleteProduct removes a product without sales history, or closes
// its availability window when sale items reference it. Returns true when
// the product was archived rather than deleted.
func (s *Store) ArchiveOrDeleteProduct(ctx context.Context, id uint, asOf time.Time) (bool, error) {
	p, err := s.ProductByID(ctx, id)
	if err != nil {
		return false, err
	}
	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.SaleItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return false, err
	}
	if refs > 0 {
		yesterday := DateOf(asOf).AddDate(0, 0, -1)
		p.EndDate = &yesterday
		return true, s.db.WithContext(ctx).Save(p).Error
	}
	return false, s.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

// DecrementStock performs the guarded stock decrement inside the caller's
// transaction. The WHERE stock >= qty condition is the compare-and-swap that
// keeps two concurrent checkouts from jointly overdrawing a product: the
// second writer re-evaluates against the committed stock and gets zero rows.
func (s *Store) DecrementStock(tx *gorm.DB, p *models.Product, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", p.ID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var current models.Product
		if err := tx.Select("stock").First(&current, p.ID).Error; err != nil {
			return err
		}
		return &InsufficientStockError{
			Barcode:     p.Barcode,
			Description: p.Description,
			Requested:   qty,
			Available:   current.Stock,
		}
	}
	return nil
}

// CreateCategory inserts a category, surfacing name collisions as
// DuplicateNameError.
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicate(err) {
			return &DuplicateNameError{Field: "category", Value: c.Name}
		}
		return err
	}
	return nil
}

// CreateWarehouse inserts a warehouse, surfacing name collisions as
// DuplicateNameError.
func (s *Store) CreateWarehouse(ctx context.Context, w *models.Warehouse) error {
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		if isDuplicate(err) {
			return &DuplicateNameError{Field: "warehouse", Value: w.Name}
		}
		return err
	}
	return nil
}

// SaveCategory persists edits to an existing category.
func (s *Store) SaveCategory(ctx context.Context, c *models.Category) error {
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		if isDuplicate(err) {
			return &DuplicateNameError{Field: "category", Value: c.Name}
		}
		return err
	}
	return nil
}

// SaveWarehouse persists edits to an existing warehouse.
func (s *Store) SaveWarehouse(ctx context.Context, w *models.Warehouse) error {
	if err := s.db.WithContext(ctx).Save(w).Error; err != nil {
		if isDuplicate(err) {
			return &DuplicateNameError{Field: "warehouse", Value: w.Name}
		}
		return err
	}
	return nil
}

func normalizeWindow(p *models.Product) {
	if p.StartDate.IsZero() {
		p.StartDate = DateOf(time.Now())
	} else {
		p.StartDate = DateOf(p.StartDate)
	}
	if p.EndDate != nil {
		d := DateOf(*p.EndDate)
		p.EndDate = &d
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
