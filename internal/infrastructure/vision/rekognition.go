package vision

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"nekognition/internal/domain/entity"
	"nekognition/internal/domain/port"
)

// RekognitionAPI is the subset of the Rekognition client used by the detector.
type RekognitionAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionDetector finds faces and cats with Amazon Rekognition.
type RekognitionDetector struct {
	client RekognitionAPI
}

// NewRekognitionDetector wraps an existing client.
func NewRekognitionDetector(client RekognitionAPI) *RekognitionDetector {
	return &RekognitionDetector{client: client}
}

// NewRekognitionDetectorForRegion builds a client from the default AWS credential chain.
func NewRekognitionDetectorForRegion(ctx context.Context, region string) (*RekognitionDetector, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewRekognitionDetector(rekognition.NewFromConfig(cfg)), nil
}

// DetectFaces returns every face Rekognition reports, localized or not.
func (d *RekognitionDetector) DetectFaces(ctx context.Context, imageData []byte) ([]entity.FaceDetection, error) {
	if err := entity.ValidateImageBytes(imageData); err != nil {
		return nil, err
	}

	out, err := d.client.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Attributes: []types.Attribute{types.AttributeDefault},
		Image:      &types.Image{Bytes: imageData},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect faces: %w", err)
	}

	return facesFromRekognition(out.FaceDetails), nil
}

// DetectCats asks for general labels restricted to "Cat" and returns that label, if any.
func (d *RekognitionDetector) DetectCats(ctx context.Context, imageData []byte, query entity.CatQuery) (*entity.CatLabel, error) {
	if err := entity.ValidateImageBytes(imageData); err != nil {
		return nil, err
	}

	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: imageData},
		MaxLabels:     aws.Int32(int32(query.MaxLabels)),
		MinConfidence: aws.Float32(float32(query.MinConfidence)),
		Features:      []types.DetectLabelsFeatureName{types.DetectLabelsFeatureNameGeneralLabels},
		Settings: &types.DetectLabelsSettings{
			GeneralLabels: &types.GeneralLabelsSettings{
				LabelInclusionFilters: []string{entity.CatLabelName},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect labels: %w", err)
	}

	return catLabelFromRekognition(out.Labels), nil
}

func facesFromRekognition(details []types.FaceDetail) []entity.FaceDetection {
	faces := make([]entity.FaceDetection, 0, len(details))
	for _, d := range details {
		faces = append(faces, entity.FaceDetection{Box: boxFromRekognition(d.BoundingBox)})
	}
	return faces
}

// catLabelFromRekognition picks the first label named "Cat". Instance order is preserved.
func catLabelFromRekognition(labels []types.Label) *entity.CatLabel {
	for _, l := range labels {
		if aws.ToString(l.Name) != entity.CatLabelName {
			continue
		}

		cat := &entity.CatLabel{
			Name:      entity.CatLabelName,
			Instances: make([]entity.CatInstance, 0, len(l.Instances)),
		}
		for _, inst := range l.Instances {
			ci := entity.CatInstance{Box: boxFromRekognition(inst.BoundingBox)}
			if inst.Confidence != nil {
				c := float64(*inst.Confidence)
				ci.Confidence = &c
			}
			cat.Instances = append(cat.Instances, ci)
		}
		return cat
	}
	return nil
}

func boxFromRekognition(b *types.BoundingBox) *entity.BoundingBox {
	if b == nil {
		return nil
	}
	return &entity.BoundingBox{
		Left:   float64(aws.ToFloat32(b.Left)),
		Top:    float64(aws.ToFloat32(b.Top)),
		Width:  float64(aws.ToFloat32(b.Width)),
		Height: float64(aws.ToFloat32(b.Height)),
	}
}

var _ port.Detector = (*RekognitionDetector)(nil)
