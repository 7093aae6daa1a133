package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxToPixelRect(t *testing.T) {
	box := BoundingBox{Left: 0.1, Top: 0.2, Width: 0.3, Height: 0.4}
	r := box.ToPixelRect(100, 200)
	require.InDelta(t, 10.0, r.Left, 1e-9)
	require.InDelta(t, 40.0, r.Top, 1e-9)
	require.InDelta(t, 30.0, r.Width, 1e-9)
	require.InDelta(t, 80.0, r.Height, 1e-9)
}

func TestBoundingBoxToPixelRect_KeepsSubPixels(t *testing.T) {
	box := BoundingBox{Left: 0.25687479972839355, Top: 0.13289812207221985, Width: 0.5788983702659607, Height: 0.5985955595970154}
	r := box.ToPixelRect(640, 480)
	require.Equal(t, box.Left*640, r.Left)
	require.Equal(t, box.Top*480, r.Top)
	require.Equal(t, box.Width*640, r.Width)
	require.Equal(t, box.Height*480, r.Height)
}

func TestBoundingBoxToPixelRect_OutOfRangePassesThrough(t *testing.T) {
	box := BoundingBox{Left: -0.5, Top: 0.9, Width: 1.5, Height: 0.5}
	r := box.ToPixelRect(10, 10)
	require.InDelta(t, -5.0, r.Left, 1e-9)
	require.InDelta(t, 14.0, r.Bottom(), 1e-9)
	require.InDelta(t, 10.0, r.Right(), 1e-9)
}

func TestPixelRectTruncate(t *testing.T) {
	r := PixelRect{Left: 10.7, Top: 20.2, Width: 5.6, Height: 3.9}
	// right = int(10 + 5.6) = 15, bottom = int(20 + 3.9) = 23
	require.Equal(t, image.Rect(10, 20, 15, 23), r.Truncate())
}

func TestCatInstancePixelRects(t *testing.T) {
	require.Empty(t, CatInstance{}.PixelRects(100, 100))

	inst := CatInstance{Box: &BoundingBox{Left: 0.5, Top: 0.5, Width: 0.1, Height: 0.1}}
	rects := inst.PixelRects(100, 100)
	require.Len(t, rects, 1)
	require.InDelta(t, 50.0, rects[0].Left, 1e-9)
}

func TestCatLabelInstanceNames(t *testing.T) {
	var nilLabel *CatLabel
	require.False(t, nilLabel.HasInstances())
	require.Empty(t, nilLabel.InstanceNames())

	label := &CatLabel{Name: "Cat", Instances: []CatInstance{{}, {}, {}}}
	require.True(t, label.HasInstances())
	require.Equal(t, []string{"Cat-1", "Cat-2", "Cat-3"}, label.InstanceNames())
}

func TestDefaultCatQuery(t *testing.T) {
	q := DefaultCatQuery()
	require.Equal(t, 10, q.MaxLabels)
	require.Equal(t, 75.0, q.MinConfidence)
}
