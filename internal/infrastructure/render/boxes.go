package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
)

// Style controls how boxes and labels are drawn.
type Style struct {
	LineWidth   float64 // stroke width in image pixels
	FontSize    float64 // label size in points
	DPI         float64
	LabelOffset float64 // distance between the label baseline and the box top, in pixels
}

// DefaultStyle draws 2px outlines with 10pt bold labels placed 10px above the box.
func DefaultStyle() Style {
	return Style{
		LineWidth:   2,
		FontSize:    10,
		DPI:         100,
		LabelOffset: 10,
	}
}

// BoundingBoxRenderer draws the outline and label of every cat instance.
type BoundingBoxRenderer struct {
	style Style
}

// NewBoundingBoxRenderer creates a renderer with the default style.
func NewBoundingBoxRenderer() *BoundingBoxRenderer {
	return NewBoundingBoxRendererWithStyle(DefaultStyle())
}

// NewBoundingBoxRendererWithStyle creates a renderer with a custom style.
func NewBoundingBoxRendererWithStyle(style Style) *BoundingBoxRenderer {
	return &BoundingBoxRenderer{style: style}
}

// Render places img on a canvas of the same size and adds one outlined box per located instance.
// Every instance consumes an index, whether or not it has a box, so names stay in step with
// entity.NewHighlightState. A located instance missing from highlights is an error.
func (r *BoundingBoxRenderer) Render(img image.Image, cats *entity.CatLabel, highlights entity.HighlightState, defaultColor, highlightColor color.Color) (port.Canvas, error) {
	face, err := newLabelFace(r.style.FontSize, r.style.DPI)
	if err != nil {
		return nil, fmt.Errorf("load label font: %w", err)
	}

	canvas := &Canvas{
		base:  cloneRGBA(img),
		style: r.style,
		face:  face,
	}
	if !cats.HasInstances() {
		return canvas, nil
	}

	bounds := canvas.base.Bounds()
	for i, instance := range cats.Instances {
		name := entity.InstanceName(i)
		text := entity.DisplayLabel(i, instance)

		for _, rect := range instance.PixelRects(bounds.Dx(), bounds.Dy()) {
			highlighted, err := highlights.Lookup(name)
			if err != nil {
				return nil, err
			}

			c := defaultColor
			if highlighted {
				c = highlightColor
			}
			canvas.overlays = append(canvas.overlays, Overlay{Name: name, Rect: rect, Text: text, Color: c})
		}
	}

	return canvas, nil
}

// Overlay is one box with its label.
type Overlay struct {
	Name  string
	Rect  entity.PixelRect
	Text  string
	Color color.Color
}

// Canvas is an image plus the boxes to draw over it.
type Canvas struct {
	base     *image.RGBA
	overlays []Overlay
	style    Style
	face     font.Face
}

// Bounds returns the bounds of the underlying image.
func (c *Canvas) Bounds() image.Rectangle {
	return c.base.Bounds()
}

// Overlays returns the boxes in drawing order.
func (c *Canvas) Overlays() []Overlay {
	return append([]Overlay(nil), c.overlays...)
}

// Raster draws the overlays onto a copy of the image.
func (c *Canvas) Raster() *image.RGBA {
	out := cloneRGBA(c.base)
	if len(c.overlays) == 0 {
		return out
	}

	gc := draw2dimg.NewGraphicContext(out)
	gc.SetLineWidth(c.style.LineWidth)

	for _, o := range c.overlays {
		if !finiteRect(o.Rect) {
			continue
		}

		gc.SetStrokeColor(o.Color)
		gc.BeginPath()
		draw2dkit.Rectangle(gc, o.Rect.Left, o.Rect.Top, o.Rect.Right(), o.Rect.Bottom())
		gc.Stroke()

		// May land above the canvas for boxes at the top edge; drawText clips.
		drawText(out, c.face, o.Text, o.Rect.Left, o.Rect.Top-c.style.LabelOffset, o.Color)
	}

	return out
}

func finiteRect(r entity.PixelRect) bool {
	for _, v := range []float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

var (
	_ port.BoxRenderer = (*BoundingBoxRenderer)(nil)
	_ port.Canvas      = (*Canvas)(nil)
)
