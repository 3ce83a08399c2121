package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory with sliding TTL eviction.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a store evicting sessions idle longer than ttl.
// A ttl of zero disables eviction. The janitor wakes at sweepInterval.
func NewMemoryStore(ttl, sweepInterval time.Duration, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "session_store")),
		stop:     make(chan struct{}),
	}
	if ttl > 0 && sweepInterval > 0 {
		go s.janitor(sweepInterval)
	}
	return s
}

// Close stops the eviction janitor.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Info("evicted idle session", slog.String("session_id", id))
		}
	}
}

func (s *MemoryStore) PutDataset(sessionID string, ds *Dataset) string {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &Session{
			ID:        sessionID,
			Analyses:  make(map[string]any),
			CreatedAt: now,
		}
		s.sessions[sessionID] = sess
	}
	sess.Dataset = ds
	sess.LastAccess = now
	return sessionID
}

func (s *MemoryStore) GetSession(sessionID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	sess.LastAccess = time.Now()
	return sess, true
}

func (s *MemoryStore) ListSessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

func (s *MemoryStore) DeleteSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

func (s *MemoryStore) PutAnalysis(sessionID, analysisType string, result any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	sess.Analyses[analysisType] = result
	sess.LastAccess = time.Now()
	return true
}

func (s *MemoryStore) GetAnalysis(sessionID, analysisType string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	result, ok := sess.Analyses[analysisType]
	return result, ok
}

func (s *MemoryStore) ListAnalyses(sessionID string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(sess.Analyses))
	for k, v := range sess.Analyses {
		out[k] = v
	}
	return out, true
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
