package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/normalize"
	"finsight/internal/reports"
	"finsight/internal/services"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestErrorToProblemMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not tabular", normalize.ErrNotTabular, http.StatusBadRequest, TypeValidation},
		{"wrapped not tabular", fmt.Errorf("parsing: %w", normalize.ErrNotTabular), http.StatusBadRequest, TypeValidation},
		{"session not found", services.ErrSessionNotFound, http.StatusNotFound, TypeNotFound},
		{"analysis not found", services.ErrAnalysisNotFound, http.StatusNotFound, TypeNotFound},
		{"unknown analysis type", services.ErrUnknownAnalysisType, http.StatusBadRequest, TypeValidation},
		{"report shape mismatch", reports.ErrNotTransactional, http.StatusUnprocessableEntity, TypeBadData},
		{"nothing produced", services.ErrNoAnalysisProduced, http.StatusUnprocessableEntity, TypeBadData},
		{"api error", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			problem := testHandler().ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/test", problem.Instance)
		})
	}
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/csvs/abc", nil)

	testHandler().HandleError(w, r, fmt.Errorf("%w: abc", services.ErrSessionNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.EqualValues(t, http.StatusNotFound, body["status"])
	assert.Contains(t, body, "trace_id")
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad", "detail", "/x").
		WithExtension("field", "amount")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"field":"amount"`)
	assert.Contains(t, string(raw), `"detail":"detail"`)
}
