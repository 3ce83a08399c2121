package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"finsight/internal/reports"
	"finsight/internal/store"
)

// Analysis types accepted by the analysis service.
const (
	AnalysisYearlySummary  = "yearly_summary"
	AnalysisMonthlySummary = "monthly_summary"
	AnalysisBudgetVariance = "budget_variance"
	AnalysisCashFlow       = "cash_flow"
	AnalysisAll            = "all"
)

// AnalysisTypes lists the individual analyses in a stable order.
var AnalysisTypes = []string{
	AnalysisYearlySummary,
	AnalysisMonthlySummary,
	AnalysisBudgetVariance,
	AnalysisCashFlow,
}

// AnalysisParams carries optional per-analysis parameters.
type AnalysisParams struct {
	InitialBalance float64
}

// AnalysisService runs financial reports over a session's dataset and stores
// the results.
type AnalysisService struct {
	store  store.Store
	logger *slog.Logger
}

func NewAnalysisService(st store.Store, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		store:  st,
		logger: logger.With(slog.String("service", "analysis")),
	}
}

// runOne dispatches a single analysis over the rows.
func runOne(analysisType string, rows []map[string]any, params AnalysisParams) (any, error) {
	switch analysisType {
	case AnalysisYearlySummary:
		return reports.YearlySummary(rows)
	case AnalysisMonthlySummary:
		return reports.MonthlySummary(rows)
	case AnalysisBudgetVariance:
		return reports.BudgetVariance(rows)
	case AnalysisCashFlow:
		return reports.CashFlow(rows, params.InitialBalance)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAnalysisType, analysisType)
	}
}

// Run executes one analysis, or all of them for AnalysisAll, over the
// session's dataset. Successful results are stored on the session and
// returned keyed by analysis type.
func (s *AnalysisService) Run(ctx context.Context, sessionID, analysisType string, params AnalysisParams) (map[string]any, error) {
	sess, ok := s.store.GetSession(sessionID)
	if !ok || sess.Dataset == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	rows := sess.Dataset.Rows

	if analysisType != AnalysisAll {
		result, err := runOne(analysisType, rows, params)
		if err != nil {
			return nil, err
		}
		s.store.PutAnalysis(sessionID, analysisType, result)
		s.logger.InfoContext(ctx, "analysis stored",
			slog.String("session_id", sessionID),
			slog.String("type", analysisType))
		return map[string]any{analysisType: result}, nil
	}

	// Each report works on its own table copy, so they can run in parallel.
	var mu sync.Mutex
	results := make(map[string]any, len(AnalysisTypes))
	produced := 0
	g, _ := errgroup.WithContext(ctx)
	for _, at := range AnalysisTypes {
		at := at
		g.Go(func() error {
			result, err := runOne(at, rows, params)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Not every dataset shape fits every report.
				results[at] = map[string]any{"error": err.Error()}
				return nil
			}
			results[at] = result
			produced++
			s.store.PutAnalysis(sessionID, at, result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if produced == 0 {
		return nil, ErrNoAnalysisProduced
	}
	s.logger.InfoContext(ctx, "analyses stored",
		slog.String("session_id", sessionID),
		slog.Int("produced", produced))
	return results, nil
}

// Get fetches stored analyses: one type, or every stored one for
// AnalysisAll.
func (s *AnalysisService) Get(ctx context.Context, sessionID, analysisType string) (map[string]any, error) {
	if _, ok := s.store.GetSession(sessionID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if analysisType == AnalysisAll {
		all, _ := s.store.ListAnalyses(sessionID)
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoAnalyses, sessionID)
		}
		return all, nil
	}
	result, ok := s.store.GetAnalysis(sessionID, analysisType)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrAnalysisNotFound, sessionID, analysisType)
	}
	return map[string]any{analysisType: result}, nil
}

// List returns the analysis types stored for a session.
func (s *AnalysisService) List(ctx context.Context, sessionID string) ([]string, error) {
	if _, ok := s.store.GetSession(sessionID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	all, _ := s.store.ListAnalyses(sessionID)
	types := make([]string, 0, len(all))
	for _, at := range AnalysisTypes {
		if _, ok := all[at]; ok {
			types = append(types, at)
		}
	}
	return types, nil
}
