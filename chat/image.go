package chat

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/kbukum/chatkit/errors"
	"github.com/kbukum/chatkit/validation"
)

// Detail hints for image token estimation.
const (
	DetailAuto = "auto"
	DetailLow  = "low"
	DetailHigh = "high"
)

// Image is an encoded image with its pixel dimensions.
type Image struct {
	Data   []byte
	Width  int
	Height int
	// Detail is a cost hint; DetailLow makes the image a flat 85 tokens.
	Detail string
}

// NewImage decodes the dimensions of a PNG, JPEG or GIF payload.
func NewImage(data []byte) (Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, errors.InvalidInput("image", fmt.Sprintf("cannot decode image: %v", err)).WithCause(err)
	}
	return Image{Data: data, Width: cfg.Width, Height: cfg.Height, Detail: DetailAuto}, nil
}

// ImageFromBase64 decodes a standard base64 payload and then its dimensions.
func ImageFromBase64(s string) (Image, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Image{}, errors.InvalidInput("image", "invalid base64 payload").WithCause(err)
	}
	return NewImage(data)
}

// Base64 returns the payload in standard base64, as the backend expects it.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// Validate rejects detail hints other than auto, low and high. An empty hint
// counts as auto.
func (i Image) Validate() error {
	return validation.New().
		OneOf("image.detail", i.Detail, []string{DetailAuto, DetailLow, DetailHigh}).
		Err()
}

// WithDetail returns a copy of the image with the given detail hint.
func (i Image) WithDetail(detail string) Image {
	i.Detail = detail
	return i
}
