package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"presight/pkg/errors"
	"presight/pkg/httputil"
	"presight/pkg/models"
	"presight/pkg/services"
)

// ReportHandlers handles report HTTP requests
type ReportHandlers struct {
	reports    services.ReportService
	errHandler *errors.Handler
}

// NewReportHandlers creates new report handlers
func NewReportHandlers(reports services.ReportService, errHandler *errors.Handler) *ReportHandlers {
	return &ReportHandlers{
		reports:    reports,
		errHandler: errHandler,
	}
}

// CreateReport handles POST /api/report/{name}
func (rh *ReportHandlers) CreateReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req struct {
		Metrics []models.MetricName `json:"metrics"`
		Users   []string            `json:"users"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rh.errHandler.Handle(w, errors.ValidationErrorf("INVALID_JSON", "Invalid request body"), httputil.GetTraceID(r))
		return
	}

	report, err := rh.reports.Generate(r.Context(), models.ReportRequest{
		Name:    name,
		Metrics: req.Metrics,
		Users:   req.Users,
	})
	if err != nil {
		rh.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetReport handles GET /api/report/{name}. The response body is the per-user
// metric map alone; request metadata is available from GET /api/reports.
func (rh *ReportHandlers) GetReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	report, err := rh.reports.Get(name)
	if err != nil {
		rh.errHandler.Handle(w, err, httputil.GetTraceID(r))
		return
	}

	writeJSON(w, http.StatusOK, report.PerUser)
}

// ListReports handles GET /api/reports
func (rh *ReportHandlers) ListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rh.reports.ListAll())
}
