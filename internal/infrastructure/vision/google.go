package vision

import (
	"context"
	"fmt"
	"math"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	gax "github.com/googleapis/gax-go/v2"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
	"nekognition/internal/infrastructure/render"
)

// maxGoogleFaces bounds the faces returned per image.
const maxGoogleFaces = 100

// ImageAnnotator is the subset of the Cloud Vision client used by GoogleDetector.
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
}

// GoogleDetector finds faces and cats with Google Cloud Vision.
type GoogleDetector struct {
	client ImageAnnotator
}

// NewGoogleDetector wraps an existing client.
func NewGoogleDetector(client ImageAnnotator) *GoogleDetector {
	return &GoogleDetector{client: client}
}

// NewGoogleDetectorFromEnv creates a client with application default credentials.
// The returned close function releases the connection.
func NewGoogleDetectorFromEnv(ctx context.Context) (*GoogleDetector, func() error, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create vision client: %w", err)
	}
	return NewGoogleDetector(client), client.Close, nil
}

// DetectFaces converts the pixel bounding polygons of detected faces into fractional boxes.
func (d *GoogleDetector) DetectFaces(ctx context.Context, imageData []byte) ([]entity.FaceDetection, error) {
	if err := entity.ValidateImageBytes(imageData); err != nil {
		return nil, err
	}
	width, height, err := render.DecodeSize(imageData)
	if err != nil {
		return nil, err
	}

	res, err := d.annotate(ctx, imageData, visionpb.Feature_FACE_DETECTION, maxGoogleFaces)
	if err != nil {
		return nil, fmt.Errorf("vision detect faces: %w", err)
	}

	faces := make([]entity.FaceDetection, 0, len(res.GetFaceAnnotations()))
	for _, a := range res.GetFaceAnnotations() {
		faces = append(faces, entity.FaceDetection{Box: boxFromVertices(a.GetBoundingPoly().GetVertices(), width, height)})
	}
	return faces, nil
}

// DetectCats keeps localized objects named "Cat" that reach the minimum confidence.
func (d *GoogleDetector) DetectCats(ctx context.Context, imageData []byte, query entity.CatQuery) (*entity.CatLabel, error) {
	if err := entity.ValidateImageBytes(imageData); err != nil {
		return nil, err
	}

	res, err := d.annotate(ctx, imageData, visionpb.Feature_OBJECT_LOCALIZATION, 0)
	if err != nil {
		return nil, fmt.Errorf("vision localize objects: %w", err)
	}

	var cat *entity.CatLabel
	for _, o := range res.GetLocalizedObjectAnnotations() {
		if o.GetName() != entity.CatLabelName {
			continue
		}
		confidence := float64(o.GetScore()) * 100
		if confidence < query.MinConfidence {
			continue
		}
		if cat == nil {
			cat = &entity.CatLabel{Name: entity.CatLabelName}
		}
		if query.MaxLabels > 0 && len(cat.Instances) >= query.MaxLabels {
			break
		}
		cat.Instances = append(cat.Instances, entity.CatInstance{
			Box:        boxFromNormalizedVertices(o.GetBoundingPoly().GetNormalizedVertices()),
			Confidence: &confidence,
		})
	}
	return cat, nil
}

// annotate runs one feature on one image and returns its response.
func (d *GoogleDetector) annotate(ctx context.Context, imageData []byte, feature visionpb.Feature_Type, maxResults int32) (*visionpb.AnnotateImageResponse, error) {
	resp, err := d.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: imageData},
			Features: []*visionpb.Feature{{Type: feature, MaxResults: maxResults}},
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.GetResponses()) != 1 {
		return nil, fmt.Errorf("expected 1 response, got %d", len(resp.GetResponses()))
	}

	res := resp.GetResponses()[0]
	if e := res.GetError(); e != nil && e.GetCode() != 0 {
		return nil, fmt.Errorf("code %d: %s", e.GetCode(), e.GetMessage())
	}
	return res, nil
}

func boxFromVertices(vertices []*visionpb.Vertex, width, height int) *entity.BoundingBox {
	if len(vertices) == 0 || width <= 0 || height <= 0 {
		return nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		x, y := float64(v.GetX()), float64(v.GetY())
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	w, h := float64(width), float64(height)
	return &entity.BoundingBox{Left: minX / w, Top: minY / h, Width: (maxX - minX) / w, Height: (maxY - minY) / h}
}

func boxFromNormalizedVertices(vertices []*visionpb.NormalizedVertex) *entity.BoundingBox {
	if len(vertices) == 0 {
		return nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		x, y := float64(v.GetX()), float64(v.GetY())
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return &entity.BoundingBox{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

var (
	_ port.Detector  = (*GoogleDetector)(nil)
	_ ImageAnnotator = (*gvision.ImageAnnotatorClient)(nil)
)
