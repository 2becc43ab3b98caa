package reports

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/models"
	"github.com/Abdullo200604/idealmarket/internal/stats"
)

func sampleSummary() *stats.Summary {
	return &stats.Summary{
		ByCategory: []stats.CategoryTotal{{Category: "drinks", Quantity: 3, Revenue: decimal.NewFromFloat(6.00)}},
		ByProduct:  []stats.ProductTotal{{Barcode: "cola", Description: "cola", Quantity: 3, Revenue: decimal.NewFromFloat(6.00)}},
		ByOperator: []stats.OperatorTotal{{Username: "alice", Receipts: 2, Revenue: decimal.NewFromFloat(7.00)}},
		ByDate:     []stats.DateTotal{{Date: "2026-03-14", Receipts: 2, Revenue: decimal.NewFromFloat(12.00)}},
		ByHour:     []stats.HourTotal{{Hour: 9, Receipts: 2}},
	}
}

func TestStatisticsPDFProducesDocument(t *testing.T) {
	data, err := StatisticsPDF(sampleSummary())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("not a PDF: % x", data[:8])
	}
}

func TestSalePDFProducesDocument(t *testing.T) {
	sale := &models.Sale{
		ID:        7,
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Items: []models.SaleItem{
			{ProductID: 1, Quantity: 2, Price: decimal.NewFromFloat(2.00), Product: models.Product{Description: "cola"}},
		},
	}
	data, err := SalePDF(sale)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("not a PDF")
	}
}

func TestStatisticsXLSXSheets(t *testing.T) {
	data, err := StatisticsXLSX(sampleSummary())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"By category", "By product", "By operator", "By date", "By hour"} {
		idx, err := f.GetSheetIndex(sheet)
		if err != nil || idx < 0 {
			t.Fatalf("missing sheet %q", sheet)
		}
	}
	got, err := f.GetCellValue("By category", "A2")
	if err != nil {
		t.Fatalf("cell: %v", err)
	}
	if got != "drinks" {
		t.Fatalf("A2 = %q, want drinks", got)
	}
}

func setupReportsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Warehouse{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestImportCatalogRejectsUnknownCategory(t *testing.T) {
	db := setupReportsDB(t)

	dump := `{"categories":[],"warehouses":[{"name":"main"}],"products":[{"barcode":"1","category":"ghost","warehouse":"main","start_date":"2026-01-01T00:00:00Z"}]}`
	_, err := ImportCatalog(context.Background(), db, strings.NewReader(dump))
	if err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Fatalf("expected unknown category error, got %v", err)
	}
	// the failed import leaves nothing behind
	var warehouses int64
	db.Model(&models.Warehouse{}).Count(&warehouses)
	if warehouses != 0 {
		t.Fatal("transaction not rolled back")
	}
}

func TestExportCatalogUsesNames(t *testing.T) {
	db := setupReportsDB(t)
	cat := models.Category{Name: "drinks"}
	wh := models.Warehouse{Name: "main"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("category: %v", err)
	}
	if err := db.Create(&wh).Error; err != nil {
		t.Fatalf("warehouse: %v", err)
	}
	p := models.Product{CategoryID: cat.ID, WarehouseID: wh.ID, Barcode: "1",
		SalePrice: decimal.NewFromFloat(1.50), StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("product: %v", err)
	}

	dump, err := ExportCatalog(context.Background(), db)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(dump.Products) != 1 {
		t.Fatalf("products = %d", len(dump.Products))
	}
	if dump.Products[0].Category != "drinks" || dump.Products[0].Warehouse != "main" {
		t.Fatalf("references not resolved to names: %+v", dump.Products[0])
	}
}
