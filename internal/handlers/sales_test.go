package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/models"
)

func seedSale(t *testing.T, db *gorm.DB, p *models.Product, qty int) *models.Sale {
	t.Helper()
	sale := models.Sale{
		Items: []models.SaleItem{
			{ProductID: p.ID, Quantity: qty, Price: p.SalePrice},
		},
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	return &sale
}

func TestSaleDeleteRemovesItems(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewSalesHandler(db)
	p := seedHandlerProduct(t, db, "9001", 3.00, 10)
	sale := seedSale(t, db, p, 2)

	body := fmt.Sprintf(`{"id":%d}`, sale.ID)
	w, _ := doJSON(t, h.Delete, http.MethodPost, "/sales/delete", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var sales, items int64
	db.Model(&models.Sale{}).Where("id = ?", sale.ID).Count(&sales)
	db.Model(&models.SaleItem{}).Where("sale_id = ?", sale.ID).Count(&items)
	if sales != 0 || items != 0 {
		t.Fatalf("leftovers after delete: sales=%d items=%d", sales, items)
	}

	// stock is not restored; the ledger row simply disappears
	var got models.Product
	if err := db.First(&got, p.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if got.Stock != 10 {
		t.Fatalf("stock = %d, want 10", got.Stock)
	}
}

func TestSaleDeleteUnknown(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewSalesHandler(db)

	w, _ := doJSON(t, h.Delete, http.MethodPost, "/sales/delete", `{"id":404}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
}
