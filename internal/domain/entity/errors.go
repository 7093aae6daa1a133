package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for input the core refuses to process: image bytes out of range,
	// undecodable images, non-positive mosaic cell size.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingHighlightKey means the highlight map lacks an entry for a rendered instance.
	ErrMissingHighlightKey = errors.New("missing highlight key")
	// ErrSessionNotFound means there is no cached upload for the chat.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownInstance means a toggle referenced a name that is not part of the session.
	ErrUnknownInstance = errors.New("unknown instance")
)

// Size limits of an image accepted by the vision API.
const (
	MinImageBytes = 1
	MaxImageBytes = 5242880
)

// ValidateImageBytes checks the byte length of an image before it is sent for detection.
func ValidateImageBytes(b []byte) error {
	if len(b) < MinImageBytes || len(b) > MaxImageBytes {
		return fmt.Errorf("%w: image size %d bytes is outside [%d, %d]", ErrInvalidInput, len(b), MinImageBytes, MaxImageBytes)
	}
	return nil
}
