// Package services implements the application services behind the HTTP
// handlers: normalization, dataset management and financial analysis runs.
package services

import "errors"

// Sentinel errors surfaced to the transport layer.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrAnalysisNotFound    = errors.New("analysis not found")
	ErrNoAnalyses          = errors.New("no analyses stored for session")
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
	ErrNoAnalysisProduced  = errors.New("no analysis could be produced from the data")
)
