package entity

import (
	"bytes"
	"fmt"
)

// Session caches one upload of a chat together with its detections and highlight choices.
type Session struct {
	ChatID     int64
	Filename   string
	Image      []byte
	Faces      []FaceDetection
	Cats       *CatLabel // nil if no cat was detected
	Highlights HighlightState
}

// NewSession creates a session with every cat instance unhighlighted.
func NewSession(chatID int64, filename string, img []byte, faces []FaceDetection, cats *CatLabel) *Session {
	return &Session{
		ChatID:     chatID,
		Filename:   filename,
		Image:      img,
		Faces:      faces,
		Cats:       cats,
		Highlights: NewHighlightState(cats),
	}
}

// SameUpload reports whether filename and img match the cached upload.
func (s *Session) SameUpload(filename string, img []byte) bool {
	return s.Filename == filename && bytes.Equal(s.Image, img)
}

// Toggle flips the highlight of name and returns the new value.
func (s *Session) Toggle(name string) (bool, error) {
	v, ok := s.Highlights[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownInstance, name)
	}
	s.Highlights[name] = !v
	return !v, nil
}
