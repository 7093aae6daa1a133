package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
	"nekognition/internal/infrastructure/render"
)

// MsgNoCat is the summary of an upload without cats.
const MsgNoCat = "No cat detected."

// AnnotationService keeps the latest upload of each chat and renders it on demand.
type AnnotationService struct {
	sessions port.SessionRepository
	detector port.Detector
	pipeline *Pipeline
	query    entity.CatQuery
	mu       sync.Mutex
}

// NewAnnotationService creates the service.
func NewAnnotationService(sessions port.SessionRepository, detector port.Detector, pipeline *Pipeline, query entity.CatQuery) *AnnotationService {
	return &AnnotationService{
		sessions: sessions,
		detector: detector,
		pipeline: pipeline,
		query:    query,
	}
}

// Upload caches an image for the chat. Detection runs only when the filename or the bytes differ from
// the cached upload. Highlights always start cleared. Undecodable bytes fail before any detector call.
func (s *AnnotationService) Upload(ctx context.Context, chatID int64, filename string, img []byte) (*entity.Session, error) {
	if err := entity.ValidateImageBytes(img); err != nil {
		return nil, err
	}
	if _, err := render.Decode(img); err != nil {
		return nil, err
	}

	session, err := s.reuse(ctx, chatID, filename, img)
	if err != nil || session != nil {
		return session, err
	}

	// detection runs without the lock
	faces, cats, err := s.detect(ctx, img)
	if err != nil {
		return nil, err
	}

	session = entity.NewSession(chatID, filename, img, faces, cats)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// reuse resets and returns the cached session when it holds the same upload, or returns nil.
func (s *AnnotationService) reuse(ctx context.Context, chatID int64, filename string, img []byte) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.sessions.Get(ctx, chatID)
	if errors.Is(err, entity.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !prev.SameUpload(filename, img) {
		return nil, nil
	}

	prev.Highlights = entity.NewHighlightState(prev.Cats)
	if err := s.sessions.Save(ctx, prev); err != nil {
		return nil, err
	}
	return prev, nil
}

// ToggleHighlight flips the highlight of one cat instance of the chat's upload.
func (s *AnnotationService) ToggleHighlight(ctx context.Context, chatID int64, name string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if _, err := session.Toggle(name); err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Render draws the chat's upload with its current highlights.
func (s *AnnotationService) Render(ctx context.Context, chatID int64) (*image.RGBA, error) {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	img, err := render.Decode(session.Image)
	if err != nil {
		return nil, err
	}

	canvas, err := s.pipeline.Process(img, session.Faces, session.Cats, session.Highlights)
	if err != nil {
		return nil, err
	}

	return canvas.Raster(), nil
}

// Forget drops the chat's upload.
func (s *AnnotationService) Forget(ctx context.Context, chatID int64) error {
	return s.sessions.Delete(ctx, chatID)
}

// Annotate detects and renders an image without caching it. Names in highlighted are drawn in the
// highlight color; a name that is not among the detected instances fails with entity.ErrUnknownInstance.
func (s *AnnotationService) Annotate(ctx context.Context, img []byte, highlighted []string) (*image.RGBA, *entity.CatLabel, error) {
	if err := entity.ValidateImageBytes(img); err != nil {
		return nil, nil, err
	}

	decoded, err := render.Decode(img)
	if err != nil {
		return nil, nil, err
	}

	faces, cats, err := s.detect(ctx, img)
	if err != nil {
		return nil, nil, err
	}

	highlights := entity.NewHighlightState(cats)
	for _, name := range highlighted {
		if _, ok := highlights[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %q", entity.ErrUnknownInstance, name)
		}
		highlights[name] = true
	}

	canvas, err := s.pipeline.Process(decoded, faces, cats, highlights)
	if err != nil {
		return nil, nil, err
	}

	return canvas.Raster(), cats, nil
}

func (s *AnnotationService) detect(ctx context.Context, img []byte) ([]entity.FaceDetection, *entity.CatLabel, error) {
	faces, err := s.detector.DetectFaces(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("detect faces: %w", err)
	}

	cats, err := s.detector.DetectCats(ctx, img, s.query)
	if err != nil {
		return nil, nil, fmt.Errorf("detect cats: %w", err)
	}

	return faces, cats, nil
}

// Summary lists the cat instances of the session, one "Cat-N (confidence)" per line.
func Summary(session *entity.Session) string {
	if session == nil || !session.Cats.HasInstances() {
		return MsgNoCat
	}

	lines := make([]string, 0, len(session.Cats.Instances))
	for i, inst := range session.Cats.Instances {
		name, confidence := entity.NameAndConfidence(i, inst)
		lines = append(lines, fmt.Sprintf("%s (%s)", name, confidence))
	}
	return strings.Join(lines, "\n")
}
