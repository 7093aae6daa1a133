package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"nekognition/internal/domain/entity"
)

func TestEllipseMosaicMasker_NoFacesReturnsInput(t *testing.T) {
	img := checkerboard(40, 30)
	out, err := NewEllipseMosaicMasker().ApplyMosaic(img, nil, 5)
	require.NoError(t, err)
	require.Equal(t, image.Image(img), out)
	require.Equal(t, img.Pix, out.(*image.RGBA).Pix)
}

func TestEllipseMosaicMasker_InvalidCellSize(t *testing.T) {
	_, err := NewEllipseMosaicMasker().ApplyMosaic(checkerboard(10, 10), nil, 0)
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestEllipseMosaicMasker_UnlocalizedFacesAreSkipped(t *testing.T) {
	img := checkerboard(40, 30)
	out, err := NewEllipseMosaicMasker().ApplyMosaic(img, []entity.FaceDetection{{}, {}}, 5)
	require.NoError(t, err)
	require.Equal(t, img.Pix, out.(*image.RGBA).Pix)
	require.NotSame(t, img, out)
}

func TestEllipseMosaicMasker_OnlyEllipsesChange(t *testing.T) {
	img := checkerboard(200, 120)
	faces := []entity.FaceDetection{
		{Box: &entity.BoundingBox{Left: 0.1, Top: 0.1, Width: 0.3, Height: 0.5}},
		{Box: &entity.BoundingBox{Left: 0.35, Top: 0.3, Width: 0.25, Height: 0.4}}, // overlaps the first
		{},
	}

	out, err := NewEllipseMosaicMasker().ApplyMosaic(img, faces, 5)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), out.Bounds())

	var rects []image.Rectangle
	for _, f := range faces {
		if f.Box != nil {
			rects = append(rects, f.Box.ToPixelRect(200, 120).Truncate())
		}
	}

	changedInside := 0
	for y := 0; y < 120; y++ {
		for x := 0; x < 200; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			outside := true
			deepInside := false
			for _, r := range rects {
				if ellipseDistance(r, px, py, 1.5) <= 1 {
					outside = false
				}
				if ellipseDistance(r, px, py, -1.5) < 1 {
					deepInside = true
				}
			}

			got := rgbaAt(out, x, y)
			if outside {
				require.Equal(t, rgbaAt(img, x, y), got, "pixel (%d,%d) outside every ellipse changed", x, y)
			}
			if deepInside {
				// averaged black/white cells end up grayish
				require.True(t, got.R > 40 && got.R < 215, "pixel (%d,%d) = %v not pixelated", x, y, got)
				changedInside++
			}
		}
	}
	require.Positive(t, changedInside)
}

func TestEllipseMosaicMasker_CellsAreBlocky(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 2), uint8(y * 2), 0, 255})
		}
	}
	faces := []entity.FaceDetection{{Box: &entity.BoundingBox{Left: 0, Top: 0, Width: 1, Height: 1}}}

	out, err := NewEllipseMosaicMasker().ApplyMosaic(img, faces, 10)
	require.NoError(t, err)

	// the 10x10 cell around the center is uniform
	ref := rgbaAt(out, 50, 50)
	for y := 50; y < 60; y++ {
		for x := 50; x < 60; x++ {
			require.Equal(t, ref, rgbaAt(out, x, y))
		}
	}
}

func TestEllipseMosaicMasker_SmallAndOutOfRangeBoxes(t *testing.T) {
	img := checkerboard(50, 50)
	faces := []entity.FaceDetection{
		{Box: &entity.BoundingBox{Left: 0.5, Top: 0.5, Width: 0.04, Height: 0.04}}, // smaller than one cell
		{Box: &entity.BoundingBox{Left: 0.9, Top: -0.2, Width: 0.5, Height: 0.5}},  // partly outside
		{Box: &entity.BoundingBox{Left: 1.5, Top: 1.5, Width: 0.2, Height: 0.2}},   // fully outside
		{Box: &entity.BoundingBox{Left: 0.2, Top: 0.2, Width: 0, Height: 0.3}},     // degenerate
	}

	out, err := NewEllipseMosaicMasker().ApplyMosaic(img, faces, 5)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), out.Bounds())

	// the partly outside face is clipped to (45,0)-(50,15); its top cell lies inside the ellipse
	// centered at (57.5,2.5) with radius 12.5 and is one averaged block
	ref := rgbaAt(out, 47, 0)
	require.InDelta(t, 128, int(ref.R), 60)
	for y := 0; y < 5; y++ {
		for x := 47; x < 50; x++ {
			require.Equal(t, ref, rgbaAt(out, x, y), "pixel %d,%d", x, y)
		}
	}

	// far from every box the checkerboard is intact
	require.Equal(t, rgbaAt(img, 5, 45), rgbaAt(out, 5, 45))
	require.Equal(t, rgbaAt(img, 40, 40), rgbaAt(out, 40, 40))
}

func TestEllipseMosaicMasker_FullyOffCanvasFaceIsNoop(t *testing.T) {
	img := checkerboard(50, 50)
	faces := []entity.FaceDetection{
		{Box: &entity.BoundingBox{Left: 1.5, Top: 1.5, Width: 0.2, Height: 0.2}},
		{Box: &entity.BoundingBox{Left: -0.8, Top: 0.1, Width: 0.3, Height: 0.3}},
	}

	out, err := NewEllipseMosaicMasker().ApplyMosaic(img, faces, 5)
	require.NoError(t, err)
	require.Equal(t, img.Pix, out.(*image.RGBA).Pix)
}

func TestEllipseMosaicMasker_NonZeroOriginSource(t *testing.T) {
	full := checkerboard(60, 60)
	sub := full.SubImage(image.Rect(10, 10, 50, 50))
	faces := []entity.FaceDetection{{Box: &entity.BoundingBox{Left: 0.25, Top: 0.25, Width: 0.5, Height: 0.5}}}

	out, err := NewEllipseMosaicMasker().ApplyMosaic(sub, faces, 4)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 40, 40), out.Bounds())
	require.Equal(t, rgbaAt(sub, 10, 10), rgbaAt(out, 0, 0))
}

func TestEllipseMosaicMasker_Deterministic(t *testing.T) {
	img := checkerboard(80, 60)
	faces := []entity.FaceDetection{{Box: &entity.BoundingBox{Left: 0.2, Top: 0.2, Width: 0.5, Height: 0.6}}}
	m := NewEllipseMosaicMasker()

	a, err := m.ApplyMosaic(img, faces, 5)
	require.NoError(t, err)
	b, err := m.ApplyMosaic(img, faces, 5)
	require.NoError(t, err)
	require.Equal(t, a.(*image.RGBA).Pix, b.(*image.RGBA).Pix)
}
