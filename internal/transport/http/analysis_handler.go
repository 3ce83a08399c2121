package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "finsight/internal/errors"
	v1 "finsight/pkg/contracts/api/v1"
)

// AnalysisHandler serves the /api/analyses routes.
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	recorder     Recorder
}

// NewAnalysisHandler creates the analysis handler.
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, recorder Recorder) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
		recorder:     recorder,
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Run)
	r.Get("/", h.ListTypes)
	r.Get("/{analysis_type}", h.Get)
	return r
}

// sessionIDParam reads the required session_id query parameter.
func (h *AnalysisHandler) sessionIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusBadRequest, "MISSING_PARAMETER", "Query parameter 'session_id' is required"))
		return "", false
	}
	return sessionID, true
}

// Run handles POST /api/analyses?session_id=.
func (h *AnalysisHandler) Run(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	var req v1.AnalysisRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationAPIError(err))
		return
	}

	results, err := h.service.Run(r.Context(), sessionID, req.AnalysisType, req.ToParams())
	if h.recorder != nil {
		h.recorder.RecordAnalysis(req.AnalysisType, err)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "analysis completed",
		slog.String("session_id", sessionID),
		slog.String("analysis_type", req.AnalysisType),
	)

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   results,
		"count":  len(results),
	})
}

// ListTypes handles GET /api/analyses?session_id=, returning the analysis
// types already computed for the session.
func (h *AnalysisHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	types, err := h.service.List(r.Context(), sessionID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   types,
		"count":  len(types),
	})
}

// Get handles GET /api/analyses/{analysis_type}?session_id=.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}
	analysisType := chi.URLParam(r, "analysis_type")

	results, err := h.service.Get(r.Context(), sessionID, analysisType)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   results,
		"count":  len(results),
	})
}
