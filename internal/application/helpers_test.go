package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"nekognition/internal/domain/entity"
	"nekognition/internal/infrastructure/render"
)

type fakeDetector struct {
	faces     []entity.FaceDetection
	cats      *entity.CatLabel
	err       error
	faceCalls int
	catCalls  int
	lastQuery entity.CatQuery
}

func (d *fakeDetector) DetectFaces(ctx context.Context, imageData []byte) ([]entity.FaceDetection, error) {
	d.faceCalls++
	if d.err != nil {
		return nil, d.err
	}
	return d.faces, nil
}

func (d *fakeDetector) DetectCats(ctx context.Context, imageData []byte, query entity.CatQuery) (*entity.CatLabel, error) {
	d.catCalls++
	d.lastQuery = query
	if d.err != nil {
		return nil, d.err
	}
	return d.cats, nil
}

func newTestPipeline() *Pipeline {
	return NewPipeline(render.NewEllipseMosaicMasker(), render.NewBoundingBoxRenderer(), DefaultOptions())
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func requireColorNear(t *testing.T, want color.Color, got color.Color) {
	t.Helper()
	wr, wg, wb, _ := want.RGBA()
	gr, gg, gb, _ := got.RGBA()
	const tol = 2 << 8
	require.InDelta(t, float64(wr), float64(gr), tol, "red: want %v got %v", want, got)
	require.InDelta(t, float64(wg), float64(gg), tol, "green: want %v got %v", want, got)
	require.InDelta(t, float64(wb), float64(gb), tol, "blue: want %v got %v", want, got)
}

func float(v float64) *float64 {
	return &v
}

// jpegWithOrientation encodes img as jpeg with an EXIF APP1 segment carrying the orientation tag.
func jpegWithOrientation(t *testing.T, img image.Image, orientation byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))

	app1 := []byte{
		0xff, 0xe1, 0x00, 0x22,
		'E', 'x', 'i', 'f', 0x00, 0x00,
		'M', 'M', 0x00, 0x2a, 0x00, 0x00, 0x00, 0x08,
		0x00, 0x01,
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, orientation, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	data := buf.Bytes()
	out := append([]byte{}, data[:2]...)
	out = append(out, app1...)
	return append(out, data[2:]...)
}
