package errors

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"finsight/internal/ingest"
	"finsight/internal/normalize"
	"finsight/internal/reports"
	"finsight/internal/services"
)

// ErrorHandler provides centralized error handling for the HTTP layer.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates an error handler logging through the given logger.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to RFC 7807 format and responds.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)
	render.Render(w, r, problem)
}

// ErrorToProblem maps domain errors to RFC 7807 Problem Details.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	switch {
	case stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled):
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout,
			"Request Timeout", "The request took too long to process and was cancelled", path)

	case stderrors.Is(err, normalize.ErrNotTabular):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Input Is Not Tabular", err.Error(), path)

	case stderrors.Is(err, ingest.ErrUnsupportedFormat):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Unsupported File Format", err.Error(), path)

	case stderrors.Is(err, ingest.ErrEmptyFile):
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeBadData,
			"Empty File", err.Error(), path)

	case stderrors.Is(err, services.ErrSessionNotFound),
		stderrors.Is(err, services.ErrAnalysisNotFound),
		stderrors.Is(err, services.ErrNoAnalyses):
		return NewProblemDetails(http.StatusNotFound, TypeNotFound,
			"Resource Not Found", err.Error(), path)

	case stderrors.Is(err, services.ErrUnknownAnalysisType):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Unknown Analysis Type", err.Error(), path)

	case stderrors.Is(err, reports.ErrNotFinancialStatement),
		stderrors.Is(err, reports.ErrNotTransactional),
		stderrors.Is(err, reports.ErrMissingColumns),
		stderrors.Is(err, reports.ErrNoData),
		stderrors.Is(err, services.ErrNoAnalysisProduced):
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeBadData,
			"Data Does Not Fit Analysis", err.Error(), path)
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, path)
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal,
		"Internal Server Error", "An unexpected error occurred while processing your request", path)
}

func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, path string) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED", "INVALID_REQUEST", "MISSING_PARAMETER":
		problemType = TypeValidation
	case "NOT_FOUND":
		problemType = TypeNotFound
	case "UNPROCESSABLE_ENTITY":
		problemType = TypeBadData
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(apiErr.StatusCode, problemType, apiErr.Message, "", path)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}
