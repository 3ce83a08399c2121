// Package store holds uploaded datasets and their analysis results keyed by
// session id. The interface is small so alternative backends can be swapped
// in; the in-memory implementation with TTL eviction is the only one today.
package store

import "time"

// Dataset is an uploaded tabular file held for a session.
type Dataset struct {
	Filename   string           `json:"filename"`
	Columns    []string         `json:"columns"`
	Rows       []map[string]any `json:"-"`
	RowCount   int              `json:"row_count"`
	UploadedAt time.Time        `json:"uploaded_at"`
}

// Session bundles a dataset with the analyses derived from it.
type Session struct {
	ID         string         `json:"session_id"`
	Dataset    *Dataset       `json:"dataset"`
	Analyses   map[string]any `json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	LastAccess time.Time      `json:"last_access"`
}

// Store is the session persistence contract. Implementations must be safe
// for concurrent use.
type Store interface {
	// PutDataset stores a dataset under sessionID, creating the session when
	// needed. An empty sessionID asks the store to generate one. Returns the
	// effective session id.
	PutDataset(sessionID string, ds *Dataset) string

	// GetSession returns the session and refreshes its last-access time.
	GetSession(sessionID string) (*Session, bool)

	// ListSessions returns all live sessions.
	ListSessions() []*Session

	// DeleteSession removes a session with its dataset and analyses.
	DeleteSession(sessionID string) bool

	// PutAnalysis stores an analysis result for an existing session.
	PutAnalysis(sessionID, analysisType string, result any) bool

	// GetAnalysis fetches one stored analysis result.
	GetAnalysis(sessionID, analysisType string) (any, bool)

	// ListAnalyses returns all stored analyses of a session.
	ListAnalyses(sessionID string) (map[string]any, bool)

	// Count reports the number of live sessions.
	Count() int
}
