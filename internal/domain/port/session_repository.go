package port

import (
	"context"

	"nekognition/internal/domain/entity"
)

// SessionRepository caches the latest upload of each chat.
type SessionRepository interface {
	// Get returns the session of the chat or entity.ErrSessionNotFound
	Get(ctx context.Context, chatID int64) (*entity.Session, error)

	// Save stores the session, replacing any previous one of the chat
	Save(ctx context.Context, session *entity.Session) error

	// Delete drops the session of the chat
	Delete(ctx context.Context, chatID int64) error
}
