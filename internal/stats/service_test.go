package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/models"
)

func setupStatsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.Category{}, &models.Warehouse{},
		&models.Product{}, &models.Sale{}, &models.SaleItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seeds two categories, two cashiers and three sales across two days
func seedLedger(t *testing.T, db *gorm.DB) {
	t.Helper()
	drinks := models.Category{Name: "drinks"}
	snacks := models.Category{Name: "snacks"}
	wh := models.Warehouse{Name: "main"}
	require.NoError(t, db.Create(&drinks).Error)
	require.NoError(t, db.Create(&snacks).Error)
	require.NoError(t, db.Create(&wh).Error)

	cola := models.Product{CategoryID: drinks.ID, WarehouseID: wh.ID, Barcode: "cola", Description: "cola",
		SalePrice: decimal.NewFromFloat(2.00), StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	chips := models.Product{CategoryID: snacks.ID, WarehouseID: wh.ID, Barcode: "chips", Description: "chips",
		SalePrice: decimal.NewFromFloat(3.00), StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(&cola).Error)
	require.NoError(t, db.Create(&chips).Error)

	role := models.Role{Name: models.RoleCashier}
	require.NoError(t, db.Create(&role).Error)
	alice := models.User{Username: "alice", Password: "x", RoleID: role.ID}
	bob := models.User{Username: "bob", Password: "x", RoleID: role.ID}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	day1 := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 17, 45, 0, 0, time.UTC)

	mkSale := func(at time.Time, by *uint, lines map[*models.Product]int) {
		sale := models.Sale{CreatedAt: at, CreatedByID: by}
		require.NoError(t, db.Create(&sale).Error)
		for p, qty := range lines {
			item := models.SaleItem{SaleID: sale.ID, ProductID: p.ID, Quantity: qty, Price: p.SalePrice}
			require.NoError(t, db.Create(&item).Error)
		}
	}

	mkSale(day1, &alice.ID, map[*models.Product]int{&cola: 2})            // 4.00
	mkSale(day1, &bob.ID, map[*models.Product]int{&cola: 1, &chips: 2})  // 8.00
	mkSale(day2, &alice.ID, map[*models.Product]int{&chips: 1})          // 3.00
}

func TestByCategory(t *testing.T) {
	db := setupStatsDB(t)
	seedLedger(t, db)
	svc := NewService(db)

	rows, err := svc.ByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]CategoryTotal{}
	for _, r := range rows {
		byName[r.Category] = r
	}
	assert.EqualValues(t, 3, byName["drinks"].Quantity)
	assert.True(t, byName["drinks"].Revenue.Equal(decimal.NewFromFloat(6.00)), "drinks=%s", byName["drinks"].Revenue)
	assert.EqualValues(t, 3, byName["snacks"].Quantity)
	assert.True(t, byName["snacks"].Revenue.Equal(decimal.NewFromFloat(9.00)), "snacks=%s", byName["snacks"].Revenue)
}

func TestByProduct(t *testing.T) {
	db := setupStatsDB(t)
	seedLedger(t, db)
	svc := NewService(db)

	rows, err := svc.ByProduct(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	byBarcode := map[string]ProductTotal{}
	for _, r := range rows {
		byBarcode[r.Barcode] = r
	}
	assert.EqualValues(t, 3, byBarcode["cola"].Quantity)
	assert.EqualValues(t, 3, byBarcode["chips"].Quantity)
}

func TestByOperator(t *testing.T) {
	db := setupStatsDB(t)
	seedLedger(t, db)
	svc := NewService(db)

	rows, err := svc.ByOperator(context.Background())
	require.NoError(t, err)
	byUser := map[string]OperatorTotal{}
	for _, r := range rows {
		byUser[r.Username] = r
	}
	assert.EqualValues(t, 2, byUser["alice"].Receipts)
	assert.True(t, byUser["alice"].Revenue.Equal(decimal.NewFromFloat(7.00)), "alice=%s", byUser["alice"].Revenue)
	assert.EqualValues(t, 1, byUser["bob"].Receipts)
}

func TestByDateAndHour(t *testing.T) {
	db := setupStatsDB(t)
	seedLedger(t, db)
	svc := NewService(db)
	ctx := context.Background()

	dates, err := svc.ByDate(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	// newest first
	assert.Equal(t, "2026-03-15", dates[0].Date)
	assert.EqualValues(t, 1, dates[0].Receipts)
	assert.Equal(t, "2026-03-14", dates[1].Date)
	assert.EqualValues(t, 2, dates[1].Receipts)

	hours, err := svc.ByHour(ctx)
	require.NoError(t, err)
	byHour := map[int]int64{}
	for _, r := range hours {
		byHour[r.Hour] = r.Receipts
	}
	assert.EqualValues(t, 2, byHour[9])
	assert.EqualValues(t, 1, byHour[17])
}

func TestOperatorDeletionKeepsLedgerRows(t *testing.T) {
	db := setupStatsDB(t)
	seedLedger(t, db)
	svc := NewService(db)
	ctx := context.Background()

	var bob models.User
	require.NoError(t, db.Where("username = ?", "bob").First(&bob).Error)
	require.NoError(t, db.Model(&models.Sale{}).Where("created_by_id = ?", bob.ID).Update("created_by_id", nil).Error)
	require.NoError(t, db.Delete(&models.User{}, bob.ID).Error)

	rows, err := svc.ByOperator(ctx)
	require.NoError(t, err)
	var orphanReceipts int64
	for _, r := range rows {
		if r.Username == "" {
			orphanReceipts = r.Receipts
		}
	}
	assert.EqualValues(t, 1, orphanReceipts, "sale of a deleted cashier must survive with no operator")
}

func TestExpiredProducts(t *testing.T) {
	db := setupStatsDB(t)
	svc := NewService(db)
	ctx := context.Background()

	cat := models.Category{Name: "c"}
	wh := models.Warehouse{Name: "w"}
	require.NoError(t, db.Create(&cat).Error)
	require.NoError(t, db.Create(&wh).Error)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	gone := models.Product{CategoryID: cat.ID, WarehouseID: wh.ID, Barcode: "gone",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &end}
	live := models.Product{CategoryID: cat.ID, WarehouseID: wh.ID, Barcode: "live",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(&gone).Error)
	require.NoError(t, db.Create(&live).Error)

	rows, err := svc.ExpiredProducts(ctx, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "gone", rows[0].Barcode)
}
