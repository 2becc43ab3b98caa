package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

type WarehouseHandler struct {
	DB    *gorm.DB
	Store *catalog.Store
}

func NewWarehouseHandler(db *gorm.DB, store *catalog.Store) *WarehouseHandler {
	return &WarehouseHandler{DB: db, Store: store}
}

// List: GET /warehouses with stock-on-hand per warehouse.
func (h *WarehouseHandler) List(w http.ResponseWriter, r *http.Request) {
	var warehouses []models.Warehouse
	if err := h.DB.Order("name").Find(&warehouses).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_warehouses", nil)
		return
	}
	items := make([]map[string]any, 0, len(warehouses))
	for i := range warehouses {
		wh := &warehouses[i]
		var stock struct {
			Products int64
			Units    int64
		}
		h.DB.Model(&models.Product{}).
			Select("COUNT(*) AS products, COALESCE(SUM(stock), 0) AS units").
			Where("warehouse_id = ?", wh.ID).
			Scan(&stock)
		items = append(items, map[string]any{
			"id":          wh.ID,
			"name":        wh.Name,
			"description": wh.Description,
			"products":    stock.Products,
			"units":       stock.Units,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Create: POST /warehouses
func (h *WarehouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpx.JSONError(w, http.StatusBadRequest, "name_required", nil)
		return
	}
	wh := models.Warehouse{Name: req.Name, Description: req.Description}
	if err := h.Store.CreateWarehouse(r.Context(), &wh); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, wh)
}

// Update: POST /warehouses/update renames a warehouse or edits its
// description.
func (h *WarehouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpx.JSONError(w, http.StatusBadRequest, "name_required", nil)
		return
	}
	var wh models.Warehouse
	if err := h.DB.First(&wh, req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "warehouse_not_found", nil)
		return
	}
	wh.Name = req.Name
	wh.Description = req.Description
	if err := h.Store.SaveWarehouse(r.Context(), &wh); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wh)
}

// Delete: POST /warehouses/delete refuses while products still reference
// the warehouse.
func (h *WarehouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var count int64
	if err := h.DB.Model(&models.Product{}).Where("warehouse_id = ?", req.ID).Count(&count).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_warehouse", nil)
		return
	}
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "warehouse_in_use", map[string]any{"products": count})
		return
	}
	res := h.DB.Delete(&models.Warehouse{}, req.ID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_warehouse", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "warehouse_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": req.ID})
}
