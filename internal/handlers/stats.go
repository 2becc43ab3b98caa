package handlers

import (
	"net/http"
	"time"

	"github.com/Abdullo200604/idealmarket/internal/httpx"
	"github.com/Abdullo200604/idealmarket/internal/reports"
	"github.com/Abdullo200604/idealmarket/internal/stats"
)

// StatsHandler serves the admin dashboards: aggregated breakdowns over the
// sale ledger plus their document exports.
type StatsHandler struct {
	Svc *stats.Service
}

func NewStatsHandler(svc *stats.Service) *StatsHandler { return &StatsHandler{Svc: svc} }

// Summary: GET /statistics
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Summarize(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_aggregate", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// Expired: GET /statistics/expired lists products whose window has closed.
func (h *StatsHandler) Expired(w http.ResponseWriter, r *http.Request) {
	products, err := h.Svc.ExpiredProducts(r.Context(), time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_expired", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

// ExportPDF: GET /statistics/export/pdf
func (h *StatsHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Summarize(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_aggregate", nil)
		return
	}
	data, err := reports.StatisticsPDF(summary)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"statistics.pdf\"")
	_, _ = w.Write(data)
}

// ExportXLSX: GET /statistics/export/xlsx
func (h *StatsHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Summarize(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_aggregate", nil)
		return
	}
	data, err := reports.StatisticsXLSX(summary)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"statistics.xlsx\"")
	_, _ = w.Write(data)
}

// ExportJSON: GET /statistics/export/json
func (h *StatsHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Summarize(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_aggregate", nil)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\"statistics.json\"")
	httpx.JSON(w, http.StatusOK, summary)
}
