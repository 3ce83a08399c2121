package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := New()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/normalize", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `finsight_http_requests_total{method="POST",path="/api/normalize",status="201"} 1`)
	assert.Contains(t, body, "finsight_http_request_duration_seconds")
}

func TestRecordCounters(t *testing.T) {
	m := New()
	m.RecordNormalization("transactional")
	m.RecordAnalysis("cash_flow", nil)
	m.RecordAnalysis("yearly_summary", fmt.Errorf("bad shape"))
	m.RegisterSessionGauge(func() int { return 3 })

	body := scrape(t, m)
	assert.Contains(t, body, `finsight_normalizations_total{format="transactional"} 1`)
	assert.Contains(t, body, `finsight_analyses_total{outcome="success",type="cash_flow"} 1`)
	assert.Contains(t, body, `finsight_analyses_total{outcome="error",type="yearly_summary"} 1`)
	assert.Contains(t, body, "finsight_active_sessions 3")
}
