package port

import (
	"image"
	"image/color"

	"nekognition/internal/domain/entity"
)

// FaceMasker obscures detected faces.
type FaceMasker interface {
	// ApplyMosaic returns img with a mosaic over every localized face.
	// An empty faces slice returns img unchanged.
	ApplyMosaic(img image.Image, faces []entity.FaceDetection, cellSize int) (image.Image, error)
}

// Canvas is an image with overlays that can be flattened to a raster.
type Canvas interface {
	Bounds() image.Rectangle
	// Raster flattens the canvas into a new image. It does not modify the canvas.
	Raster() *image.RGBA
}

// BoxRenderer draws labeled boxes around cat instances.
type BoxRenderer interface {
	Render(img image.Image, cats *entity.CatLabel, highlights entity.HighlightState, defaultColor, highlightColor color.Color) (Canvas, error)
}
