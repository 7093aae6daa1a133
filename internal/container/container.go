package container

import (
	"fmt"

	"nekognition/config"
	app "nekognition/internal/application"
	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
	"nekognition/internal/infrastructure/render"
)

type Container struct {
	Pipeline          *app.Pipeline
	AnnotationService *app.AnnotationService
	OutputFormat      render.Format
}

// New wires the services. masker may be nil, in which case the ellipse mosaic is used.
func New(cfg *config.Config, sessions port.SessionRepository, detector port.Detector, masker port.FaceMasker) (*Container, error) {
	defaultColor, err := render.ParseColor(cfg.DefaultColor)
	if err != nil {
		return nil, fmt.Errorf("default color: %w", err)
	}
	highlightColor, err := render.ParseColor(cfg.HighlightColor)
	if err != nil {
		return nil, fmt.Errorf("highlight color: %w", err)
	}
	format, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	if masker == nil {
		masker = render.NewEllipseMosaicMasker()
	}

	pipeline := app.NewPipeline(masker, render.NewBoundingBoxRenderer(), app.Options{
		MosaicCellSize: cfg.MosaicCellSize,
		DefaultColor:   defaultColor,
		HighlightColor: highlightColor,
	})
	query := entity.CatQuery{MaxLabels: cfg.MaxLabels, MinConfidence: cfg.MinConfidence}

	return &Container{
		Pipeline:          pipeline,
		AnnotationService: app.NewAnnotationService(sessions, detector, pipeline, query),
		OutputFormat:      format,
	}, nil
}
