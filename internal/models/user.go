package models

import "time"

// User is an operator account. Password holds a bcrypt hash.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;not null;unique;index" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	RoleID    uint      `gorm:"not null;index" json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role names map to capability sets at the auth boundary
// (admin -> everything, cashier -> selling).
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;unique" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Built-in role names seeded at startup.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)
