package render

import (
	"image"
	"image/draw"
)

// cloneRGBA copies img into a new RGBA image whose bounds start at the origin.
func cloneRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
