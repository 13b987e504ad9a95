package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler reports process liveness and dataset readiness.
type HealthHandler struct {
	service SalesServiceInterface
	logger  *slog.Logger
	started time.Time
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service SalesServiceInterface, logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("component", "health_handler")),
		started: time.Now(),
		version: version,
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/health. The dataset state degrades the status
// instead of failing the probe; a missing spreadsheet is an operator
// problem, not a dead process.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dataset := map[string]interface{}{"available": true}

	ds, err := h.service.Dataset(r.Context())
	if err != nil {
		status = "degraded"
		dataset = map[string]interface{}{
			"available": false,
			"error":     err.Error(),
		}
	} else {
		dataset["records"] = len(ds.Records)
		dataset["dropped_rows"] = ds.DroppedRows
		dataset["loaded_at"] = ds.LoadedAt.Format(time.RFC3339)
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  status,
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
		"dataset": dataset,
	})
}
