package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"finsight/internal/services"
	v1 "finsight/pkg/contracts/api/v1"
)

// MetaHandler serves the discovery endpoints: service info, the tool
// catalog and example payloads.
type MetaHandler struct{}

// NewMetaHandler creates the meta handler.
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// ServiceInfo handles GET /.
func (h *MetaHandler) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, v1.ServiceInfo{
		Name:    ServiceName,
		Version: ServiceVersion,
		Endpoints: map[string]string{
			"health":    "/api/health",
			"normalize": "/api/normalize",
			"datasets":  "/api/csvs",
			"analyses":  "/api/analyses",
			"tools":     "/api/tools",
			"examples":  "/api/examples",
			"metrics":   "/metrics",
		},
	})
}

// Routes returns the /api meta routes.
func (h *MetaHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/tools", h.Tools)
	r.Get("/examples", h.Examples)
	return r
}

// Tools handles GET /api/tools.
func (h *MetaHandler) Tools(w http.ResponseWriter, r *http.Request) {
	tools := []v1.ToolInfo{
		{
			Name:            services.AnalysisYearlySummary,
			Description:     "Yearly financial statement analysis with trends and top concepts",
			InputFormat:     "financial_statement",
			RequiredColumns: []string{"concept", "a2020", "a2021", "..."},
		},
		{
			Name:            services.AnalysisMonthlySummary,
			Description:     "Monthly income and expense summary from transactional data",
			InputFormat:     "transactional",
			RequiredColumns: []string{"date", "amount"},
		},
		{
			Name:            services.AnalysisBudgetVariance,
			Description:     "Budget versus actual variance analysis",
			InputFormat:     "budget",
			RequiredColumns: []string{"category", "budget", "actual"},
		},
		{
			Name:            services.AnalysisCashFlow,
			Description:     "Cash flow analysis with running balance and alerts",
			InputFormat:     "transactional",
			RequiredColumns: []string{"date", "amount"},
			Parameters:      []string{"initial_balance"},
		},
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   tools,
		"count":  len(tools),
	})
}

// Examples handles GET /api/examples.
func (h *MetaHandler) Examples(w http.ResponseWriter, r *http.Request) {
	examples := map[string]v1.ExamplePayload{
		"normalize": {
			Description: "Normalize a transactional table with auto detection",
			Payload: map[string]any{
				"data": []map[string]any{
					{"fecha": "2024-01-05", "importe": "1.234,56", "categoria": "ventas"},
					{"fecha": "2024-01-20", "importe": "-300,00", "categoria": "alquiler"},
				},
			},
		},
		"normalize_statement": {
			Description: "Unpivot a yearly statement into transactions",
			Payload: map[string]any{
				"data": []map[string]any{
					{"concepto": "Ventas", "a2020": 1000, "a2021": 1200},
					{"concepto": "Gastos", "a2020": -400, "a2021": -500},
				},
				"rules": map[string]any{"unpivot": true},
			},
		},
		"analysis": {
			Description: "Run every analysis applicable to the session's data",
			Payload: map[string]any{
				"analysis_type": services.AnalysisAll,
				"params":        map[string]any{"initial_balance": 1000},
			},
		},
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   examples,
		"count":  len(examples),
	})
}
