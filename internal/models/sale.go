package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the durable record of one completed checkout. CreatedAt is set
// once at commit time. CreatedBy is nulled (not cascaded) when the cashier
// account is later deleted.
type Sale struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedByID *uint      `gorm:"index" json:"created_by_id,omitempty"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	Items       []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
}

// Total recomputes the sale total from its items. It is never stored.
func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// SaleItem is one line of a sale. Price is the product's sale price frozen
// at checkout time; later price changes must never alter past totals.
// Deleting a product that still has sale items is blocked at the store
// level (such products are archived instead).
type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

// Subtotal is quantity times the frozen unit price.
func (it *SaleItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
