package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/service"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
)

// ReportHandler exposes compliance reports over HTTP
type ReportHandler struct {
	reports *service.ReportService
	sweep   *service.SweepService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, sweep *service.SweepService) *ReportHandler {
	return &ReportHandler{reports: reports, sweep: sweep}
}

// Routes mounts the report routes
func (h *ReportHandler) Routes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/departments", h.Departments)
	r.Get("/expiring", h.Expiring)
	r.Get("/trends", h.Trends)
	r.Get("/forecast", h.Forecast)
	r.Post("/sweep", h.RunSweep)
}

// Summary handles GET /reports/summary
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, summary)
}

// Departments handles GET /reports/departments
func (h *ReportHandler) Departments(w http.ResponseWriter, r *http.Request) {
	rollups, err := h.reports.DepartmentReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, rollups)
}

// Expiring handles GET /reports/expiring?days=30
func (h *ReportHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", domain.DefaultWarningDays)

	certs, err := h.reports.ExpiringReport(r.Context(), days)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, certs)
}

// Trends handles GET /reports/trends?months=12
func (h *ReportHandler) Trends(w http.ResponseWriter, r *http.Request) {
	months := intQuery(r, "months", 12)

	buckets, err := h.reports.TrendReport(r.Context(), months)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, buckets)
}

// Forecast handles GET /reports/forecast?months=6
func (h *ReportHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	months := intQuery(r, "months", 6)

	buckets, err := h.reports.ForecastReport(r.Context(), months)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, buckets)
}

// RunSweep handles POST /reports/sweep, the manual trigger for the expiry
// status sweep. The scheduled run uses the same code path.
func (h *ReportHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweep.Run(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}
