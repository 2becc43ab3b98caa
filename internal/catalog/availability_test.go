package catalog

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestSellable(t *testing.T) {
	today := date(2026, 3, 15)
	cases := []struct {
		name  string
		start time.Time
		end   *time.Time
		want  bool
	}{
		{"open ended, started", date(2026, 1, 1), nil, true},
		{"starts today", today, nil, true},
		{"starts tomorrow", date(2026, 3, 16), nil, false},
		{"ends today", date(2026, 1, 1), datePtr(2026, 3, 15), true},
		{"ended yesterday", date(2026, 1, 1), datePtr(2026, 3, 14), false},
		{"one day window on today", today, datePtr(2026, 3, 15), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &models.Product{StartDate: tc.start, EndDate: tc.end}
			// mid-day timestamps must behave the same as midnight
			for _, asOf := range []time.Time{today, today.Add(13*time.Hour + 37*time.Minute)} {
				if got := Sellable(p, asOf); got != tc.want {
					t.Fatalf("Sellable(%v..%v, asOf=%v) = %v, want %v", tc.start, tc.end, asOf, got, tc.want)
				}
			}
		})
	}
}

// The Go predicate and the SQL scope must agree on every window shape, or
// the till would list products checkout then refuses (or the reverse).
func TestSellableScopeMatchesPredicate(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Warehouse{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cat := models.Category{Name: "drinks"}
	wh := models.Warehouse{Name: "main"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("category: %v", err)
	}
	if err := db.Create(&wh).Error; err != nil {
		t.Fatalf("warehouse: %v", err)
	}

	today := date(2026, 3, 15)
	windows := []struct {
		start time.Time
		end   *time.Time
	}{
		{date(2026, 1, 1), nil},
		{today, nil},
		{date(2026, 3, 16), nil},
		{date(2026, 1, 1), datePtr(2026, 3, 15)},
		{date(2026, 1, 1), datePtr(2026, 3, 14)},
		{today, datePtr(2026, 3, 15)},
	}
	for i, wnd := range windows {
		p := models.Product{
			CategoryID:  cat.ID,
			WarehouseID: wh.ID,
			Barcode:     fmt.Sprintf("bc-%d", i),
			StartDate:   wnd.start,
			EndDate:     wnd.end,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("product %d: %v", i, err)
		}
	}

	var fromScope []models.Product
	if err := db.Scopes(SellableScope(today)).Find(&fromScope).Error; err != nil {
		t.Fatalf("scope query: %v", err)
	}
	inScope := make(map[uint]bool, len(fromScope))
	for i := range fromScope {
		inScope[fromScope[i].ID] = true
	}

	var all []models.Product
	if err := db.Find(&all).Error; err != nil {
		t.Fatalf("all: %v", err)
	}
	for i := range all {
		p := &all[i]
		if Sellable(p, today) != inScope[p.ID] {
			t.Fatalf("predicate/scope disagree for %s: predicate=%v scope=%v", p.Barcode, Sellable(p, today), inScope[p.ID])
		}
	}
}

func TestDateOfTruncates(t *testing.T) {
	ts := time.Date(2026, 3, 15, 23, 59, 59, 999, time.UTC)
	got := DateOf(ts)
	if got != date(2026, 3, 15) {
		t.Fatalf("DateOf(%v) = %v", ts, got)
	}
}
