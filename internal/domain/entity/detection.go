package entity

import "image"

// BoundingBox is a rectangle given as fractions of the image size, relative to the top-left corner.
// Values outside [0,1] are passed through untouched.
type BoundingBox struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// PixelRect is a BoundingBox scaled to image pixels. No rounding is applied.
type PixelRect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// ToPixelRect scales the box to an image of the given size.
func (b BoundingBox) ToPixelRect(imageWidth, imageHeight int) PixelRect {
	return PixelRect{
		Left:   b.Left * float64(imageWidth),
		Top:    b.Top * float64(imageHeight),
		Width:  b.Width * float64(imageWidth),
		Height: b.Height * float64(imageHeight),
	}
}

// Right returns the x coordinate of the right edge.
func (r PixelRect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r PixelRect) Bottom() float64 {
	return r.Top + r.Height
}

// Truncate converts the rect to integer pixel indices. Left and top are truncated toward zero,
// right and bottom are the truncated left/top plus the fractional width/height, truncated again.
func (r PixelRect) Truncate() image.Rectangle {
	left := int(r.Left)
	top := int(r.Top)
	right := int(float64(left) + r.Width)
	bottom := int(float64(top) + r.Height)
	return image.Rectangle{Min: image.Pt(left, top), Max: image.Pt(right, bottom)}
}

// FaceDetection is one detected face. Box is nil when the detector did not localize it.
type FaceDetection struct {
	Box *BoundingBox
}

// CatInstance is one detected cat.
type CatInstance struct {
	Box        *BoundingBox
	Confidence *float64 // 0-100, nil if the detector reported none
}

// PixelRects returns the pixel rectangles of the instance: zero or one.
func (c CatInstance) PixelRects(imageWidth, imageHeight int) []PixelRect {
	if c.Box == nil {
		return nil
	}
	return []PixelRect{c.Box.ToPixelRect(imageWidth, imageHeight)}
}

// CatLabel groups the cat instances of a detection response in detection order.
type CatLabel struct {
	Name      string
	Instances []CatInstance
}

// HasInstances reports whether the label is present and has at least one instance.
func (l *CatLabel) HasInstances() bool {
	return l != nil && len(l.Instances) > 0
}

// InstanceNames returns the display names of all instances, in order.
func (l *CatLabel) InstanceNames() []string {
	if l == nil {
		return nil
	}
	names := make([]string, len(l.Instances))
	for i := range l.Instances {
		names[i] = InstanceName(i)
	}
	return names
}

// CatQuery holds the pass-through parameters of a cat detection call.
type CatQuery struct {
	MaxLabels     int
	MinConfidence float64
}

// DefaultCatQuery returns the detection parameters used when none are configured.
func DefaultCatQuery() CatQuery {
	return CatQuery{MaxLabels: 10, MinConfidence: 75}
}
