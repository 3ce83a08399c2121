package services

import (
	"context"
	"log/slog"

	"finsight/internal/normalize"
)

// NormalizeService exposes the normalization engine to the transport layer.
type NormalizeService struct {
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// NewNormalizeService creates the service with its own engine instance.
func NewNormalizeService(logger *slog.Logger) *NormalizeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NormalizeService{
		normalizer: normalize.NewNormalizer(logger),
		logger:     logger.With(slog.String("service", "normalize")),
	}
}

// Normalize runs the pipeline over the given input.
func (s *NormalizeService) Normalize(ctx context.Context, data any, mapping normalize.ColumnMapping, rules normalize.Rules) (*normalize.Result, error) {
	result, err := s.normalizer.Normalize(data, mapping, rules)
	if err != nil {
		s.logger.WarnContext(ctx, "normalization rejected input", slog.String("error", err.Error()))
		return nil, err
	}
	s.logger.InfoContext(ctx, "normalization complete",
		slog.String("format", string(result.Format)),
		slog.Float64("confidence", result.Confidence),
		slog.Int("rows", result.RowCount),
		slog.Int("warnings", len(result.Warnings)))
	return result, nil
}
