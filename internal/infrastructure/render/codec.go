package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"nekognition/internal/domain/entity"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// JPEGQuality is used for jpeg output.
const JPEGQuality = 95

// ParseFormat parses an output format name; "jpg" is accepted for jpeg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: unsupported output format %q", entity.ErrInvalidInput, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Ext returns the file extension of the format, without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// Decode decodes jpeg, png or webp bytes. The EXIF orientation is not applied: detector boxes are
// relative to the stored pixel layout, and DecodeSize reports that layout too.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", entity.ErrInvalidInput, err)
	}
	return img, nil
}

// DecodeSize returns the pixel size of the encoded image without decoding the pixels.
func DecodeSize(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: decode image config: %v", entity.ErrInvalidInput, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case FormatWebP:
		return webp.Encode(w, img, &webp.Options{Lossless: true})
	}
	return fmt.Errorf("%w: unsupported output format %q", entity.ErrInvalidInput, f)
}

// EncodeBytes is Encode into a byte slice.
func EncodeBytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
