package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/models"
	"github.com/Abdullo200604/idealmarket/internal/reports"
)

// ProductHandler is the admin-side catalog CRUD. Unlike the till view it
// lists every product, expired ones included.
type ProductHandler struct {
	DB    *gorm.DB
	Store *catalog.Store
}

func NewProductHandler(db *gorm.DB, store *catalog.Store) *ProductHandler {
	return &ProductHandler{DB: db, Store: store}
}

type productReq struct {
	Barcode     string          `json:"barcode"`
	Description string          `json:"description"`
	CategoryID  uint            `json:"category_id"`
	WarehouseID uint            `json:"warehouse_id"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Stock       int             `json:"stock"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
}

func (req *productReq) validate() (start time.Time, end *time.Time, msg string) {
	if strings.TrimSpace(req.Barcode) == "" {
		return start, nil, "barcode_required"
	}
	if req.CategoryID == 0 || req.WarehouseID == 0 {
		return start, nil, "category_and_warehouse_required"
	}
	if req.CostPrice.IsNegative() || req.SalePrice.IsNegative() {
		return start, nil, "negative_price"
	}
	if req.Stock < 0 {
		return start, nil, "negative_stock"
	}
	if req.StartDate != "" {
		d, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return start, nil, "invalid_start_date"
		}
		start = d
	}
	if req.EndDate != "" {
		d, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return start, nil, "invalid_end_date"
		}
		end = &d
	}
	if end != nil && !start.IsZero() && end.Before(start) {
		return start, nil, "end_before_start"
	}
	return start, end, ""
}

// List: GET /products lists the full catalog with a sellable flag per row.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Preload("Category").Preload("Warehouse")
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(description) LIKE ? OR lower(barcode) LIKE ?", like, like)
	}
	var products []models.Product
	if err := dbq.Order("id desc").Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	now := time.Now()
	items := make([]map[string]any, 0, len(products))
	for i := range products {
		p := &products[i]
		items = append(items, map[string]any{
			"id":          p.ID,
			"barcode":     p.Barcode,
			"description": p.Description,
			"category":    p.Category.Name,
			"warehouse":   p.Warehouse.Name,
			"cost_price":  p.CostPrice,
			"sale_price":  p.SalePrice,
			"stock":       p.Stock,
			"start_date":  p.StartDate,
			"end_date":    p.EndDate,
			"sellable":    catalog.Sellable(p, now),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Create: POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	start, end, msg := req.validate()
	if msg != "" {
		httpx.JSONError(w, http.StatusBadRequest, msg, nil)
		return
	}
	p := models.Product{
		Barcode:     strings.TrimSpace(req.Barcode),
		Description: strings.TrimSpace(req.Description),
		CategoryID:  req.CategoryID,
		WarehouseID: req.WarehouseID,
		CostPrice:   req.CostPrice,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		StartDate:   start,
		EndDate:     end,
	}
	if err := h.Store.CreateProduct(r.Context(), &p); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update: POST /products/update
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID uint `json:"id"`
		productReq
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	start, end, msg := req.validate()
	if msg != "" {
		httpx.JSONError(w, http.StatusBadRequest, msg, nil)
		return
	}
	p, err := h.Store.ProductByID(r.Context(), req.ID)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	p.Barcode = strings.TrimSpace(req.Barcode)
	p.Description = strings.TrimSpace(req.Description)
	p.CategoryID = req.CategoryID
	p.WarehouseID = req.WarehouseID
	p.CostPrice = req.CostPrice
	p.SalePrice = req.SalePrice
	p.Stock = req.Stock
	if !start.IsZero() {
		p.StartDate = start
	}
	p.EndDate = end
	if err := h.Store.SaveProduct(r.Context(), p); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete: POST /products/delete archives products with sales history and
// deletes the rest, reporting which happened.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	archived, err := h.Store.ArchiveOrDeleteProduct(r.Context(), req.ID, time.Now())
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": req.ID, "archived": archived})
}

// BulkDelete: POST /products/bulk-delete applies the archive-or-delete rule
// to each id independently; failures on one id do not stop the rest.
func (h *ProductHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	now := time.Now()
	archived, deleted, missing := 0, 0, 0
	for _, id := range req.IDs {
		wasArchived, err := h.Store.ArchiveOrDeleteProduct(r.Context(), id, now)
		if err != nil {
			missing++
			continue
		}
		if wasArchived {
			archived++
		} else {
			deleted++
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"archived": archived, "deleted": deleted, "missing": missing})
}

// Export: GET /catalog/export serializes categories, warehouses and
// products to JSON for backup or transfer.
func (h *ProductHandler) Export(w http.ResponseWriter, r *http.Request) {
	dump, err := reports.ExportCatalog(r.Context(), h.DB)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\"catalog.json\"")
	httpx.JSON(w, http.StatusOK, dump)
}

// Import: POST /catalog/import upserts a previously exported dump. Products
// match by barcode, categories and warehouses by name.
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	result, err := reports.ImportCatalog(r.Context(), h.DB, r.Body)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "import_failed", map[string]string{"reason": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

