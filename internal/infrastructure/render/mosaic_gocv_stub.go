//go:build !gocv
// +build !gocv

package render

import (
	"errors"
	"image"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
)

// GoCVMosaicMasker is a stub used when building without OpenCV.
type GoCVMosaicMasker struct{}

// NewGoCVMosaicMasker creates the stub masker.
func NewGoCVMosaicMasker() *GoCVMosaicMasker {
	return &GoCVMosaicMasker{}
}

// ApplyMosaic always fails without the gocv build tag.
func (m *GoCVMosaicMasker) ApplyMosaic(img image.Image, faces []entity.FaceDetection, cellSize int) (image.Image, error) {
	_ = img
	_ = faces
	_ = cellSize
	return nil, errors.New("gocv build tag is not enabled")
}

var _ port.FaceMasker = (*GoCVMosaicMasker)(nil)
