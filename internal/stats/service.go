// Package stats exposes read-only aggregations over the sale ledger. Every
// query here sees committed sales only; nothing in this package writes.
package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// CategoryTotal aggregates sold quantity and revenue per category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ProductTotal aggregates sold quantity and revenue per product.
type ProductTotal struct {
	Barcode     string          `json:"barcode"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// OperatorTotal aggregates receipts and revenue per cashier. Username is
// empty for sales whose operator account was deleted.
type OperatorTotal struct {
	Username string          `json:"username"`
	Receipts int64           `json:"receipts"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DateTotal aggregates receipts and revenue per calendar date.
type DateTotal struct {
	Date     string          `json:"date"`
	Receipts int64           `json:"receipts"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// HourTotal counts receipts per hour of day to show peak hours.
type HourTotal struct {
	Hour     int   `json:"hour"`
	Receipts int64 `json:"receipts"`
}

// ByCategory returns totals per category, busiest first.
func (s *Service) ByCategory(ctx context.Context) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := s.db.WithContext(ctx).
		Table("sale_items si").
		Select("c.name AS category, SUM(si.quantity) AS quantity, SUM(si.quantity * si.price) AS revenue").
		Joins("JOIN products p ON p.id = si.product_id").
		Joins("JOIN categories c ON c.id = p.category_id").
		Group("c.name").
		Order("quantity DESC").
		Scan(&rows).Error
	return rows, err
}

// ByProduct returns totals per product, busiest first.
func (s *Service) ByProduct(ctx context.Context) ([]ProductTotal, error) {
	var rows []ProductTotal
	err := s.db.WithContext(ctx).
		Table("sale_items si").
		Select("p.barcode AS barcode, p.description AS description, SUM(si.quantity) AS quantity, SUM(si.quantity * si.price) AS revenue").
		Joins("JOIN products p ON p.id = si.product_id").
		Group("p.barcode, p.description").
		Order("quantity DESC").
		Scan(&rows).Error
	return rows, err
}

// ByOperator returns receipt counts and revenue per cashier.
func (s *Service) ByOperator(ctx context.Context) ([]OperatorTotal, error) {
	var rows []OperatorTotal
	err := s.db.WithContext(ctx).
		Table("sales s").
		Select("COALESCE(u.username, '') AS username, COUNT(DISTINCT s.id) AS receipts, SUM(si.quantity * si.price) AS revenue").
		Joins("LEFT JOIN users u ON u.id = s.created_by_id").
		Joins("JOIN sale_items si ON si.sale_id = s.id").
		Group("u.username").
		Order("receipts DESC").
		Scan(&rows).Error
	return rows, err
}

// ByDate returns receipt counts and revenue per calendar date, newest first.
func (s *Service) ByDate(ctx context.Context) ([]DateTotal, error) {
	var rows []DateTotal
	err := s.db.WithContext(ctx).
		Table("sales s").
		Select(s.dateExpr("s.created_at") + " AS date, COUNT(DISTINCT s.id) AS receipts, SUM(si.quantity * si.price) AS revenue").
		Joins("JOIN sale_items si ON si.sale_id = s.id").
		Group(s.dateExpr("s.created_at")).
		Order("date DESC").
		Scan(&rows).Error
	return rows, err
}

// ByHour returns receipt counts per hour of day, busiest first.
func (s *Service) ByHour(ctx context.Context) ([]HourTotal, error) {
	var rows []HourTotal
	err := s.db.WithContext(ctx).
		Table("sales s").
		Select(s.hourExpr("s.created_at") + " AS hour, COUNT(*) AS receipts").
		Group(s.hourExpr("s.created_at")).
		Order("receipts DESC").
		Scan(&rows).Error
	return rows, err
}

// ExpiredProducts lists products whose availability window closed before asOf.
func (s *Service) ExpiredProducts(ctx context.Context, asOf time.Time) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Scopes(catalog.ExpiredScope(asOf)).
		Order("end_date desc").
		Find(&products).Error
	return products, err
}

// dateExpr renders "calendar date of" for the active SQL dialect.
func (s *Service) dateExpr(column string) string {
	if s.db.Dialector.Name() == "sqlite" {
		return "date(" + column + ")"
	}
	return "CAST(" + column + " AS date)"
}

// hourExpr renders "hour of day of" for the active SQL dialect.
func (s *Service) hourExpr(column string) string {
	if s.db.Dialector.Name() == "sqlite" {
		return "CAST(strftime('%H', " + column + ") AS INTEGER)"
	}
	return "CAST(EXTRACT(HOUR FROM " + column + ") AS INTEGER)"
}

// Summary bundles every breakdown for export endpoints.
type Summary struct {
	ByCategory []CategoryTotal `json:"by_category"`
	ByProduct  []ProductTotal  `json:"by_product"`
	ByOperator []OperatorTotal `json:"by_operator"`
	ByDate     []DateTotal     `json:"by_date"`
	ByHour     []HourTotal     `json:"by_hour"`
}

// Summarize runs all breakdowns and returns them together.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	var (
		out Summary
		err error
	)
	if out.ByCategory, err = s.ByCategory(ctx); err != nil {
		return nil, err
	}
	if out.ByProduct, err = s.ByProduct(ctx); err != nil {
		return nil, err
	}
	if out.ByOperator, err = s.ByOperator(ctx); err != nil {
		return nil, err
	}
	if out.ByDate, err = s.ByDate(ctx); err != nil {
		return nil, err
	}
	if out.ByHour, err = s.ByHour(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}
