package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
)

// Fixture file names inside the fixture directory.
const (
	FacesFixture  = "faces.json"
	LabelsFixture = "labels.json"
)

// FixtureDetector replays recorded Rekognition responses for every image.
type FixtureDetector struct {
	faces  rekognition.DetectFacesOutput
	labels rekognition.DetectLabelsOutput
}

// NewFixtureDetector loads faces.json and labels.json from dir. A missing file means an empty response.
func NewFixtureDetector(dir string) (*FixtureDetector, error) {
	faces, err := readFixture(filepath.Join(dir, FacesFixture))
	if err != nil {
		return nil, err
	}
	labels, err := readFixture(filepath.Join(dir, LabelsFixture))
	if err != nil {
		return nil, err
	}
	return NewFixtureDetectorFromJSON(faces, labels)
}

// NewFixtureDetectorFromJSON parses a DetectFaces and a DetectLabels response body. Either may be nil.
func NewFixtureDetectorFromJSON(faces, labels []byte) (*FixtureDetector, error) {
	d := &FixtureDetector{}
	if len(faces) > 0 {
		if err := json.Unmarshal(faces, &d.faces); err != nil {
			return nil, fmt.Errorf("parse faces fixture: %w", err)
		}
	}
	if len(labels) > 0 {
		if err := json.Unmarshal(labels, &d.labels); err != nil {
			return nil, fmt.Errorf("parse labels fixture: %w", err)
		}
	}
	return d, nil
}

func readFixture(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return data, nil
}

// DetectFaces returns the recorded faces.
func (d *FixtureDetector) DetectFaces(ctx context.Context, imageData []byte) ([]entity.FaceDetection, error) {
	if err := entity.ValidateImageBytes(imageData); err != nil {
		return nil, err
	}
	return facesFromRekognition(d.faces.FaceDetails), nil
}

// DetectCats returns the recorded cat label. The query is ignored: the recording already reflects it.
func (d *FixtureDetector) DetectCats(ctx context.Context, imageData []byte, query entity.CatQuery) (*entity.CatLabel, error) {
	if err := entity.ValidateImageBytes(imageData); err != nil {
		return nil, err
	}
	return catLabelFromRekognition(d.labels.Labels), nil
}

var _ port.Detector = (*FixtureDetector)(nil)
