package models

import "time"

// Warehouse is a physical stock location. Every product belongs to one.
type Warehouse struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;unique" json:"name"`
	Description string    `json:"description"`
	Products    []Product `gorm:"foreignKey:WarehouseID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
