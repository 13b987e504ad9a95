package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "vendascli/internal/errors"
	"vendascli/internal/exporter"
	"vendascli/pkg/contracts/domain"
)

// queryDateLayouts are accepted for the from/to query parameters: ISO for
// API clients, day-first for pt-BR callers.
var queryDateLayouts = []string{"2006-01-02", "02/01/2006"}

// queryParams binds the filter query string.
type queryParams struct {
	Customer string `validate:"omitempty,max=200"`
	Code     string `validate:"omitempty,max=64"`
	From     string `validate:"omitempty,max=10"`
	To       string `validate:"omitempty,max=10"`
}

// SalesHandler handles sales query HTTP requests
type SalesHandler struct {
	service      SalesServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(service SalesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SalesHandler {
	return &SalesHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "sales_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the sales routes
func (h *SalesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/records", h.GetRecords)
	r.Get("/query", h.Query)
	r.Get("/summary", h.GetSummary)
	r.Get("/export/csv", h.ExportCSV)
	r.Post("/reload", h.Reload)

	return r
}

// GetRecords handles GET /api/sales/records
func (h *SalesHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Dataset(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"data":         ds.Records,
		"count":        len(ds.Records),
		"dropped_rows": ds.DroppedRows,
		"loaded_at":    ds.LoadedAt.Format(time.RFC3339),
	})
}

// Query handles GET /api/sales/query
func (h *SalesHandler) Query(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.bindCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Query(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"data":      result.Records,
		"count":     len(result.Records),
		"aggregate": result.Aggregate,
	})
}

// GetSummary handles GET /api/sales/summary
func (h *SalesHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.bindCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Query(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"total_value":          result.Aggregate.TotalValue,
			"total_value_display":  exporter.FormatBRL(result.Aggregate.TotalValue),
			"distinct_order_count": result.Aggregate.DistinctOrderCount,
			"matched_record_count": len(result.Records),
		},
	})
}

// ExportCSV handles GET /api/sales/export/csv
func (h *SalesHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.bindCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Query(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="vendas.csv"`)

	if err := exporter.WriteRecordsCSV(w, result.Records); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

// Reload handles POST /api/sales/reload, the explicit cache invalidation.
func (h *SalesHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.service.Invalidate()

	ds, err := h.service.Dataset(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"count":        len(ds.Records),
		"dropped_rows": ds.DroppedRows,
		"loaded_at":    ds.LoadedAt.Format(time.RFC3339),
	})
}

// bindCriteria builds FilterCriteria from the query string.
func (h *SalesHandler) bindCriteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	params := queryParams{
		Customer: q.Get("customer"),
		Code:     q.Get("code"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}

	if err := h.validate.Struct(params); err != nil {
		return domain.FilterCriteria{}, apierrors.ErrValidation("query", err.Error())
	}

	criteria := domain.FilterCriteria{
		ProductCode:   params.Code,
		CustomerQuery: params.Customer,
	}

	if params.From != "" {
		t, err := parseQueryDate(params.From)
		if err != nil {
			return domain.FilterCriteria{}, apierrors.ErrValidation("from", err.Error())
		}
		criteria.DateFrom = &t
	}
	if params.To != "" {
		t, err := parseQueryDate(params.To)
		if err != nil {
			return domain.FilterCriteria{}, apierrors.ErrValidation("to", err.Error())
		}
		criteria.DateTo = &t
	}

	return criteria, nil
}

func parseQueryDate(s string) (time.Time, error) {
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or DD/MM/YYYY)", s)
}
