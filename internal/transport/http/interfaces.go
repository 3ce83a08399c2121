package http

import (
	"context"
	"io"

	"finsight/internal/normalize"
	"finsight/internal/services"
)

// NormalizeServiceInterface runs the normalization pipeline.
type NormalizeServiceInterface interface {
	Normalize(ctx context.Context, data any, mapping normalize.ColumnMapping, rules normalize.Rules) (*normalize.Result, error)
}

// DatasetServiceInterface manages uploaded datasets and their sessions.
type DatasetServiceInterface interface {
	Upload(ctx context.Context, sessionID, filename string, r io.Reader) (*services.DatasetInfo, error)
	Get(ctx context.Context, sessionID string, previewOnly bool) (*services.DatasetInfo, error)
	List(ctx context.Context) []*services.DatasetInfo
	Delete(ctx context.Context, sessionID string) error
	SessionCount() int
}

// AnalysisServiceInterface runs and retrieves analyses for a session.
type AnalysisServiceInterface interface {
	Run(ctx context.Context, sessionID, analysisType string, params services.AnalysisParams) (map[string]any, error)
	Get(ctx context.Context, sessionID, analysisType string) (map[string]any, error)
	List(ctx context.Context, sessionID string) ([]string, error)
}

// Recorder receives pipeline outcome counters. Nil recorders are allowed.
type Recorder interface {
	RecordNormalization(format string)
	RecordAnalysis(analysisType string, err error)
}
