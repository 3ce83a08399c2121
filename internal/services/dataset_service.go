package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"finsight/internal/ingest"
	"finsight/internal/store"
)

// previewRows caps how many rows uploads and metadata lookups return.
const previewRows = 10

// DatasetService manages uploaded datasets in the session store.
type DatasetService struct {
	store  store.Store
	logger *slog.Logger
}

func NewDatasetService(st store.Store, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		store:  st,
		logger: logger.With(slog.String("service", "dataset")),
	}
}

// DatasetInfo is the metadata view of a stored dataset.
type DatasetInfo struct {
	SessionID  string           `json:"session_id"`
	Filename   string           `json:"filename"`
	Columns    []string         `json:"columns"`
	RowCount   int              `json:"row_count"`
	UploadedAt time.Time        `json:"uploaded_at"`
	Preview    []map[string]any `json:"preview,omitempty"`
	Rows       []map[string]any `json:"data,omitempty"`
}

// Upload parses the file and stores it under sessionID (generated when
// empty). The returned info carries a preview of at most ten rows.
func (s *DatasetService) Upload(ctx context.Context, sessionID, filename string, r io.Reader) (*DatasetInfo, error) {
	rows, headers, err := ingest.Read(filename, r)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", filename, err)
	}

	ds := &store.Dataset{
		Filename:   filename,
		Columns:    headers,
		Rows:       rows,
		RowCount:   len(rows),
		UploadedAt: time.Now(),
	}
	sessionID = s.store.PutDataset(sessionID, ds)
	s.logger.InfoContext(ctx, "dataset stored",
		slog.String("session_id", sessionID),
		slog.String("filename", filename),
		slog.Int("rows", len(rows)))

	info := infoFor(sessionID, ds)
	info.Preview = preview(rows)
	return info, nil
}

// Get returns dataset metadata for a session. With previewOnly the first
// rows are attached; otherwise the full data is.
func (s *DatasetService) Get(ctx context.Context, sessionID string, previewOnly bool) (*DatasetInfo, error) {
	sess, ok := s.store.GetSession(sessionID)
	if !ok || sess.Dataset == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	info := infoFor(sessionID, sess.Dataset)
	if previewOnly {
		info.Preview = preview(sess.Dataset.Rows)
	} else {
		info.Rows = sess.Dataset.Rows
	}
	return info, nil
}

// List returns metadata for every live session.
func (s *DatasetService) List(ctx context.Context) []*DatasetInfo {
	sessions := s.store.ListSessions()
	out := make([]*DatasetInfo, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Dataset == nil {
			continue
		}
		out = append(out, infoFor(sess.ID, sess.Dataset))
	}
	return out
}

// Delete removes a session with its dataset and stored analyses.
func (s *DatasetService) Delete(ctx context.Context, sessionID string) error {
	if !s.store.DeleteSession(sessionID) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.logger.InfoContext(ctx, "session deleted", slog.String("session_id", sessionID))
	return nil
}

// SessionCount reports live sessions, used by the health endpoint.
func (s *DatasetService) SessionCount() int {
	return s.store.Count()
}

func infoFor(sessionID string, ds *store.Dataset) *DatasetInfo {
	return &DatasetInfo{
		SessionID:  sessionID,
		Filename:   ds.Filename,
		Columns:    ds.Columns,
		RowCount:   ds.RowCount,
		UploadedAt: ds.UploadedAt,
	}
}

func preview(rows []map[string]any) []map[string]any {
	if len(rows) <= previewRows {
		return rows
	}
	return rows[:previewRows]
}
