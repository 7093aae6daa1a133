package storage

import (
	"context"
	"sync"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
)

// MemorySessionRepository in-memory session storage.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository creates an empty repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get returns a copy of the chat's session so callers can't race on the highlight map.
func (r *MemorySessionRepository) Get(ctx context.Context, chatID int64) (*entity.Session, error) {
	r.mu.RLock()
	s, exists := r.sessions[chatID]
	r.mu.RUnlock()

	if !exists {
		return nil, entity.ErrSessionNotFound
	}

	return copySession(s), nil
}

// Save stores a copy of the session.
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.ChatID] = copySession(session)
	r.mu.Unlock()

	return nil
}

// Delete drops the chat's session. Deleting a missing session is not an error.
func (r *MemorySessionRepository) Delete(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	delete(r.sessions, chatID)
	r.mu.Unlock()

	return nil
}

// copySession is shallow except for the highlight map; image bytes and detections are never mutated.
func copySession(s *entity.Session) *entity.Session {
	c := *s
	c.Highlights = s.Highlights.Clone()
	return &c
}

// interface check
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
