package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	v1 "finsight/pkg/contracts/api/v1"
)

// ServiceName and ServiceVersion identify the API in service info and
// health responses.
const (
	ServiceName    = "finsight"
	ServiceVersion = "1.0.0"
)

// HealthHandler serves GET /api/health.
type HealthHandler struct {
	datasets DatasetServiceInterface
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(datasets DatasetServiceInterface) *HealthHandler {
	return &HealthHandler{datasets: datasets}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Health)
	return r
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, v1.HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		Version:        ServiceVersion,
		ActiveSessions: h.datasets.SessionCount(),
	})
}
