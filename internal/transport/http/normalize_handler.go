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

// NormalizeHandler serves POST /api/normalize.
type NormalizeHandler struct {
	service      NormalizeServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	recorder     Recorder
}

// NewNormalizeHandler creates the normalize handler.
func NewNormalizeHandler(service NormalizeServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, recorder Recorder) *NormalizeHandler {
	return &NormalizeHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "normalize_handler")),
		errorHandler: errorHandler,
		recorder:     recorder,
	}
}

// Routes returns the normalize routes.
func (h *NormalizeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Normalize)
	return r
}

// Normalize handles POST /api/normalize.
func (h *NormalizeHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	var req v1.NormalizeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationAPIError(err))
		return
	}

	result, err := h.service.Normalize(r.Context(), req.Data, req.ToMapping(), req.ToRules())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordNormalization(string(result.Format))
	}
	result.Rows = sanitizeRows(result.Rows)

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   result,
		"count":  result.RowCount,
	})
}

// validationAPIError converts validator failures into field-level errors.
func validationAPIError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}
	fields := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: "failed validation rule " + fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
