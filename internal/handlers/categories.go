package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

type CategoryHandler struct {
	DB    *gorm.DB
	Store *catalog.Store
}

func NewCategoryHandler(db *gorm.DB, store *catalog.Store) *CategoryHandler {
	return &CategoryHandler{DB: db, Store: store}
}

// List: GET /categories with product counts.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := h.DB.Order("name").Find(&categories).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_categories", nil)
		return
	}
	items := make([]map[string]any, 0, len(categories))
	for i := range categories {
		c := &categories[i]
		var count int64
		h.DB.Model(&models.Product{}).Where("category_id = ?", c.ID).Count(&count)
		items = append(items, map[string]any{
			"id":          c.ID,
			"name":        c.Name,
			"description": c.Description,
			"products":    count,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Create: POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	c := models.Category{Name: req.Name, Description: req.Description}
	if err := h.Store.CreateCategory(r.Context(), &c); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Update: POST /categories/update renames a category or edits its
// description.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var c models.Category
	if err := h.DB.First(&c, req.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "category_not_found", nil)
		return
	}
	c.Name = req.Name
	c.Description = req.Description
	if err := h.Store.SaveCategory(r.Context(), &c); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Delete: POST /categories/delete refuses while products still reference
// the category.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var count int64
	if err := h.DB.Model(&models.Product{}).Where("category_id = ?", req.ID).Count(&count).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_category", nil)
		return
	}
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "category_in_use", map[string]any{"products": count})
		return
	}
	res := h.DB.Delete(&models.Category{}, req.ID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_category", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "category_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": req.ID})
}
