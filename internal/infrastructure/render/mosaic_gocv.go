//go:build gocv
// +build gocv

package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
)

// GoCVMosaicMasker is the OpenCV variant of EllipseMosaicMasker.
type GoCVMosaicMasker struct{}

// NewGoCVMosaicMasker creates an OpenCV mosaic masker.
func NewGoCVMosaicMasker() *GoCVMosaicMasker {
	return &GoCVMosaicMasker{}
}

// ApplyMosaic pixelates each face rectangle with area averaging and copies it back through a
// filled ellipse mask.
func (m *GoCVMosaicMasker) ApplyMosaic(img image.Image, faces []entity.FaceDetection, cellSize int) (image.Image, error) {
	if cellSize < 1 {
		return nil, fmt.Errorf("%w: mosaic cell size %d", entity.ErrInvalidInput, cellSize)
	}
	if len(faces) == 0 {
		return img, nil
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer src.Close()

	w, h := src.Cols(), src.Rows()
	bounds := image.Rect(0, 0, w, h)

	layer := gocv.Zeros(h, w, src.Type())
	defer layer.Close()

	mask := gocv.Zeros(h, w, gocv.MatTypeCV8UC1)
	defer mask.Close()

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, face := range faces {
		if face.Box == nil {
			continue
		}
		rect := face.Box.ToPixelRect(w, h).Truncate()
		if rect.Dx() <= 0 || rect.Dy() <= 0 {
			continue
		}

		clipped := rect.Intersect(bounds)
		if !clipped.Empty() {
			pixelateMat(src, layer, clipped, cellSize)
		}

		center := image.Pt((rect.Min.X+rect.Max.X)/2, (rect.Min.Y+rect.Max.Y)/2)
		axes := image.Pt(rect.Dx()/2, rect.Dy()/2)
		gocv.Ellipse(&mask, center, axes, 0, 0, 360, white, -1)
	}

	layer.CopyToWithMask(&src, mask)

	out, err := src.ToImage()
	if err != nil {
		return nil, fmt.Errorf("mat to image: %w", err)
	}
	return out, nil
}

func pixelateMat(src, layer gocv.Mat, rect image.Rectangle, cellSize int) {
	region := src.Region(rect)
	defer region.Close()

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(region, &small, image.Pt(max(1, rect.Dx()/cellSize), max(1, rect.Dy()/cellSize)), 0, 0, gocv.InterpolationArea)

	dst := layer.Region(rect)
	defer dst.Close()
	gocv.Resize(small, &dst, image.Pt(rect.Dx(), rect.Dy()), 0, 0, gocv.InterpolationNearestNeighbor)
}

var _ port.FaceMasker = (*GoCVMosaicMasker)(nil)
