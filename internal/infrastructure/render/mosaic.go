package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
)

// EllipseMosaicMasker pixelates every face rectangle and shows the result through an ellipse
// inscribed in it.
type EllipseMosaicMasker struct {
	Downsample imaging.ResampleFilter // filter used to shrink a face to one pixel per cell
	Upsample   imaging.ResampleFilter // filter used to grow it back; must keep cells blocky
}

// NewEllipseMosaicMasker creates a masker that averages each cell and upscales with nearest neighbor.
func NewEllipseMosaicMasker() *EllipseMosaicMasker {
	return &EllipseMosaicMasker{
		Downsample: imaging.Box,
		Upsample:   imaging.NearestNeighbor,
	}
}

// ApplyMosaic returns img with an elliptical mosaic over each localized face. Faces without a box
// are skipped. The result always has its bounds at the origin, except for an empty faces slice,
// which returns img itself.
func (m *EllipseMosaicMasker) ApplyMosaic(img image.Image, faces []entity.FaceDetection, cellSize int) (image.Image, error) {
	if cellSize < 1 {
		return nil, fmt.Errorf("%w: mosaic cell size %d", entity.ErrInvalidInput, cellSize)
	}
	if len(faces) == 0 {
		return img, nil
	}

	src := cloneRGBA(img)
	bounds := src.Bounds()

	layer := image.NewRGBA(bounds)
	maskCanvas := image.NewRGBA(bounds)
	gc := draw2dimg.NewGraphicContext(maskCanvas)
	gc.SetFillColor(color.White)

	for _, face := range faces {
		if face.Box == nil {
			continue
		}
		rect := face.Box.ToPixelRect(bounds.Dx(), bounds.Dy()).Truncate()
		if rect.Dx() <= 0 || rect.Dy() <= 0 {
			continue
		}

		m.pixelate(layer, src, rect, cellSize)

		gc.BeginPath()
		draw2dkit.Ellipse(gc,
			float64(rect.Min.X+rect.Max.X)/2, float64(rect.Min.Y+rect.Max.Y)/2,
			float64(rect.Dx())/2, float64(rect.Dy())/2)
		gc.Fill()
	}

	mask := image.NewAlpha(bounds)
	draw.Draw(mask, bounds, maskCanvas, bounds.Min, draw.Src)

	// One composite over the whole image: overlapping ellipses have no seams.
	draw.DrawMask(src, bounds, layer, bounds.Min, mask, bounds.Min, draw.Over)
	return src, nil
}

// pixelate writes the mosaic of rect into layer. Parts of rect outside the image are dropped.
func (m *EllipseMosaicMasker) pixelate(layer *image.RGBA, src image.Image, rect image.Rectangle, cellSize int) {
	clipped := rect.Intersect(src.Bounds())
	if clipped.Empty() {
		return
	}

	region := imaging.Crop(src, clipped)
	small := imaging.Resize(region, max(1, clipped.Dx()/cellSize), max(1, clipped.Dy()/cellSize), m.Downsample)
	blocky := imaging.Resize(small, clipped.Dx(), clipped.Dy(), m.Upsample)

	draw.Draw(layer, clipped, blocky, image.Point{}, draw.Src)
}

var _ port.FaceMasker = (*EllipseMosaicMasker)(nil)
