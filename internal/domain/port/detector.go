package port

import (
	"context"

	"nekognition/internal/domain/entity"
)

// Detector is the cloud service that finds faces and cats in raw image bytes.
type Detector interface {
	// DetectFaces returns the faces found in the image. Fails with entity.ErrInvalidInput
	// if the byte length is outside the accepted range.
	DetectFaces(ctx context.Context, imageData []byte) ([]entity.FaceDetection, error)

	// DetectCats returns the "Cat" label of the image, or nil when no cat was detected.
	DetectCats(ctx context.Context, imageData []byte, query entity.CatQuery) (*entity.CatLabel, error)
}
