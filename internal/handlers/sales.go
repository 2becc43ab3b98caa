package handlers

import (
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/models"
	"github.com/Abdullo200604/idealmarket/internal/reports"
)

// SalesHandler serves the immutable sale ledger: listing, detail, PDF and
// spreadsheet exports, and the admin-only delete.
type SalesHandler struct{ DB *gorm.DB }

func NewSalesHandler(db *gorm.DB) *SalesHandler { return &SalesHandler{DB: db} }

func (h *SalesHandler) query(r *http.Request) *gorm.DB {
	dbq := h.DB.Preload("Items.Product").Preload("CreatedBy")
	if v := r.URL.Query().Get("from"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			dbq = dbq.Where("created_at >= ?", d)
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			// inclusive end of day
			dbq = dbq.Where("created_at < ?", d.AddDate(0, 0, 1))
		}
	}
	if v := r.URL.Query().Get("operator"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			dbq = dbq.Where("created_by_id = ?", id)
		}
	}
	return dbq
}

func (h *SalesHandler) load(r *http.Request) ([]models.Sale, error) {
	var sales []models.Sale
	err := h.query(r).Order("id desc").Find(&sales).Error
	return sales, err
}

// List: GET /sales with optional from/to/operator filters.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}

	var total int64
	h.query(r).Model(&models.Sale{}).Count(&total)
	var sales []models.Sale
	if err := h.query(r).Order("id desc").Limit(limit).Offset(offset).Find(&sales).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sales", nil)
		return
	}

	items := make([]map[string]any, 0, len(sales))
	for i := range sales {
		items = append(items, saleSummary(&sales[i]))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total, "limit": limit, "offset": offset})
}

// Detail: GET /sales/detail?id=...
func (h *SalesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.saleFromQuery(w, r)
	if !ok {
		return
	}
	out := saleSummary(sale)
	out["items"] = sale.Items
	httpx.JSON(w, http.StatusOK, out)
}

// Receipt: GET /sales/pdf?id=... streams one sale as a PDF.
func (h *SalesHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.saleFromQuery(w, r)
	if !ok {
		return
	}
	data, err := reports.SalePDF(sale)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"sale-"+strconv.Itoa(int(sale.ID))+".pdf\"")
	_, _ = w.Write(data)
}

// ExportPDF: GET /sales/export/pdf streams the filtered history as a PDF.
func (h *SalesHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	sales, err := h.load(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sales", nil)
		return
	}
	data, err := reports.SalesHistoryPDF(sales)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"sales.pdf\"")
	_, _ = w.Write(data)
}

// ExportXLSX: GET /sales/export/xlsx streams the filtered history as a workbook.
func (h *SalesHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	sales, err := h.load(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sales", nil)
		return
	}
	data, err := reports.SalesHistoryXLSX(sales)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"sales.xlsx\"")
	_, _ = w.Write(data)
}

// Delete: POST /sales/delete removes a sale and its items. Stock is not
// restored; the ledger row simply disappears. Admin only, enforced at the
// router.
func (h *SalesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var deleted int64
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// sqlite does not cascade by default; delete items explicitly
		if err := tx.Where("sale_id = ?", req.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Sale{}, req.ID)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_sale", nil)
		return
	}
	if deleted == 0 {
		httpx.JSONError(w, http.StatusNotFound, "sale_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": req.ID})
}

func (h *SalesHandler) saleFromQuery(w http.ResponseWriter, r *http.Request) (*models.Sale, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil, false
	}
	var sale models.Sale
	if err := h.DB.Preload("Items.Product").Preload("CreatedBy").First(&sale, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "sale_not_found", nil)
		return nil, false
	}
	return &sale, true
}

func saleSummary(s *models.Sale) map[string]any {
	cashier := ""
	if s.CreatedBy != nil {
		cashier = s.CreatedBy.Username
	}
	return map[string]any{
		"id":         s.ID,
		"created_at": s.CreatedAt,
		"cashier":    cashier,
		"lines":      len(s.Items),
		"total":      s.Total(),
	}
}

