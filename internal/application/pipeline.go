package app

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/colornames"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
)

// DefaultMosaicCellSize is the side of a mosaic cell in pixels.
const DefaultMosaicCellSize = 5

// Options configures the pipeline.
type Options struct {
	MosaicCellSize int
	DefaultColor   color.Color
	HighlightColor color.Color
}

// DefaultOptions returns cell size 5, gray boxes and red highlights.
func DefaultOptions() Options {
	return Options{
		MosaicCellSize: DefaultMosaicCellSize,
		DefaultColor:   colornames.Gray,
		HighlightColor: colornames.Red,
	}
}

// Pipeline masks faces and then draws cat boxes on the masked image.
type Pipeline struct {
	masker   port.FaceMasker
	renderer port.BoxRenderer
	opts     Options
}

// NewPipeline creates a pipeline.
func NewPipeline(masker port.FaceMasker, renderer port.BoxRenderer, opts Options) *Pipeline {
	return &Pipeline{masker: masker, renderer: renderer, opts: opts}
}

// Options returns the pipeline configuration.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Process runs the mosaic and then the box renderer. The order matters: boxes must stay visible
// on top of the mosaic. highlights is only read.
func (p *Pipeline) Process(img image.Image, faces []entity.FaceDetection, cats *entity.CatLabel, highlights entity.HighlightState) (port.Canvas, error) {
	masked, err := p.masker.ApplyMosaic(img, faces, p.opts.MosaicCellSize)
	if err != nil {
		return nil, fmt.Errorf("apply mosaic: %w", err)
	}

	canvas, err := p.renderer.Render(masked, cats, highlights, p.opts.DefaultColor, p.opts.HighlightColor)
	if err != nil {
		return nil, fmt.Errorf("render boxes: %w", err)
	}

	return canvas, nil
}
