package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "finsight/internal/errors"
)

// DatasetHandler serves the /api/csvs routes for uploading and managing
// tabular datasets.
type DatasetHandler struct {
	service        DatasetServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewDatasetHandler creates the dataset handler.
func NewDatasetHandler(service DatasetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Route("/{session_id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
	})
	return r
}

// Upload handles POST /api/csvs. The file travels in the multipart "file"
// field; an optional session_id query parameter reuses an existing session.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusBadRequest, "MISSING_PARAMETER", "Multipart field 'file' is required"))
		return
	}
	defer file.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = r.FormValue("session_id")
	}

	info, err := h.service.Upload(r.Context(), sessionID, header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset uploaded",
		slog.String("session_id", info.SessionID),
		slog.String("filename", info.Filename),
		slog.Int("rows", info.RowCount),
	)

	info.Preview = sanitizeRows(info.Preview)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   info,
	})
}

// List handles GET /api/csvs.
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	infos := h.service.List(r.Context())
	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   infos,
		"count":  len(infos),
	})
}

// Get handles GET /api/csvs/{session_id}. With preview_only=true only the
// first rows are returned.
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	previewOnly, _ := strconv.ParseBool(r.URL.Query().Get("preview_only"))

	info, err := h.service.Get(r.Context(), sessionID, previewOnly)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	info.Preview = sanitizeRows(info.Preview)
	info.Rows = sanitizeRows(info.Rows)
	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   info,
	})
}

// Delete handles DELETE /api/csvs/{session_id}.
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if err := h.service.Delete(r.Context(), sessionID); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset deleted", slog.String("session_id", sessionID))
	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   map[string]any{"session_id": sessionID, "deleted": true},
	})
}
