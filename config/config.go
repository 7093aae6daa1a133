package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"nekognition/internal/infrastructure/render"
)

// Detector backends.
const (
	DetectorRekognition = "rekognition"
	DetectorGoogle      = "google"
	DetectorFixture     = "fixture"
)

// Face maskers.
const (
	MaskerEllipse = "ellipse"
	MaskerGoCV    = "gocv"
)

type Config struct {
	TelegramToken string
	HTTPAddr      string

	Detector   string
	AWSRegion  string
	FixtureDir string

	Masker         string
	MosaicCellSize int
	DefaultColor   string
	HighlightColor string
	MaxLabels      int
	MinConfidence  float64
	OutputFormat   string
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		Detector:       strings.ToLower(getEnv("DETECTOR", DetectorRekognition)),
		AWSRegion:      getEnv("AWS_REGION", "ap-northeast-1"),
		FixtureDir:     getEnv("FIXTURE_DIR", "internal/infrastructure/vision/testdata"),
		Masker:         strings.ToLower(getEnv("MASKER", MaskerEllipse)),
		DefaultColor:   getEnv("DEFAULT_COLOR", "gray"),
		HighlightColor: getEnv("HIGHLIGHT_COLOR", "red"),
		OutputFormat:   getEnv("OUTPUT_FORMAT", "png"),
	}

	var err error
	if cfg.MosaicCellSize, err = getEnvInt("MOSAIC_CELL_SIZE", 5); err != nil {
		return nil, err
	}
	if cfg.MaxLabels, err = getEnvInt("MAX_LABELS", 10); err != nil {
		return nil, err
	}
	if cfg.MinConfidence, err = getEnvFloat("MIN_CONFIDENCE", 75); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values that Load cannot check on its own.
func (c *Config) Validate() error {
	var errs []error

	switch c.Detector {
	case DetectorRekognition, DetectorGoogle, DetectorFixture:
	default:
		errs = append(errs, fmt.Errorf("DETECTOR must be %s, %s or %s, got %q", DetectorRekognition, DetectorGoogle, DetectorFixture, c.Detector))
	}
	if c.Masker != MaskerEllipse && c.Masker != MaskerGoCV {
		errs = append(errs, fmt.Errorf("MASKER must be %s or %s, got %q", MaskerEllipse, MaskerGoCV, c.Masker))
	}
	if c.MosaicCellSize < 1 {
		errs = append(errs, fmt.Errorf("MOSAIC_CELL_SIZE must be positive, got %d", c.MosaicCellSize))
	}
	if c.MaxLabels < 1 {
		errs = append(errs, fmt.Errorf("MAX_LABELS must be positive, got %d", c.MaxLabels))
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		errs = append(errs, fmt.Errorf("MIN_CONFIDENCE must be within [0, 100], got %v", c.MinConfidence))
	}
	if _, err := render.ParseColor(c.DefaultColor); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_COLOR: %w", err))
	}
	if _, err := render.ParseColor(c.HighlightColor); err != nil {
		errs = append(errs, fmt.Errorf("HIGHLIGHT_COLOR: %w", err))
	}
	if _, err := render.ParseFormat(c.OutputFormat); err != nil {
		errs = append(errs, fmt.Errorf("OUTPUT_FORMAT: %w", err))
	}
	if c.TelegramToken == "" && c.HTTPAddr == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN or HTTP_ADDR is required"))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
