package api

import "time"

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	ActiveSessions int       `json:"active_sessions"`
}

// ServiceInfo is the body of GET /, describing the API surface.
type ServiceInfo struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// ToolInfo describes one analysis tool in the GET /api/tools catalog.
type ToolInfo struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	InputFormat     string   `json:"input_format"`
	RequiredColumns []string `json:"required_columns"`
	Parameters      []string `json:"parameters,omitempty"`
}

// ExamplePayload is one entry of GET /api/examples.
type ExamplePayload struct {
	Description string `json:"description"`
	Payload     any    `json:"payload"`
}
