package catalog

import (
	"time"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/models"
)

// DateOf truncates a time to its calendar date. Availability is decided at
// date granularity: a product whose window ends today is still sellable
// until midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Sellable reports whether the product may be sold on the given day.
// This predicate is the single source of truth for availability: catalog
// browsing and checkout validation both go through it (browsing via
// SellableScope, which must stay in lockstep; see the scope test).
func Sellable(p *models.Product, asOf time.Time) bool {
	day := DateOf(asOf)
	if DateOf(p.StartDate).After(day) {
		return false
	}
	if p.EndDate != nil && DateOf(*p.EndDate).Before(day) {
		return false
	}
	return true
}

// SellableScope is the SQL rendering of Sellable for list queries.
// Products are stored with date-truncated window bounds, so the comparison
// against the truncated asOf matches the predicate exactly.
func SellableScope(asOf time.Time) func(*gorm.DB) *gorm.DB {
	day := DateOf(asOf)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("start_date <= ? AND (end_date IS NULL OR end_date >= ?)", day, day)
	}
}

// Expired lists products whose availability window has closed before asOf.
// Used by the statistics screen to flag stock that can no longer be sold.
func ExpiredScope(asOf time.Time) func(*gorm.DB) *gorm.DB {
	day := DateOf(asOf)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("end_date IS NOT NULL AND end_date < ?", day)
	}
}
