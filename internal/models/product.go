package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. Stock must never go negative; the
// checkout transaction is the only writer that decrements it.
//
// The availability window (StartDate..EndDate) is the single source of truth
// for whether a product may be sold; there is no separate stored flag.
// Archiving a product with sales history closes the window instead of
// deleting the row, so SaleItem references stay intact.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID" json:"-"`
	WarehouseID uint      `gorm:"not null;index" json:"warehouse_id"`
	Warehouse   Warehouse `gorm:"foreignKey:WarehouseID" json:"-"`
	Barcode     string    `gorm:"size:100;not null;unique" json:"barcode"`
	Description string    `json:"description"`
	// CostPrice is what the shop paid, SalePrice what the customer pays.
	CostPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_price"`
	SalePrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sale_price"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	StartDate time.Time       `gorm:"not null" json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
