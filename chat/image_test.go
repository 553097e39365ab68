package chat

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/kbukum/chatkit/errors"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNewImage(t *testing.T) {
	img, err := NewImage(encodePNG(t, 30, 20))
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	if img.Width != 30 || img.Height != 20 {
		t.Errorf("expected 30x20, got %dx%d", img.Width, img.Height)
	}
	if img.Detail != DetailAuto {
		t.Errorf("expected auto detail, got %q", img.Detail)
	}
	if img.WithDetail(DetailLow).Detail != DetailLow || img.Detail != DetailAuto {
		t.Error("WithDetail should return a modified copy")
	}
}

func TestImageBase64RoundTrip(t *testing.T) {
	img, err := NewImage(encodePNG(t, 4, 4))
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	back, err := ImageFromBase64(img.Base64())
	if err != nil {
		t.Fatalf("ImageFromBase64: %v", err)
	}
	if !bytes.Equal(back.Data, img.Data) {
		t.Error("payload changed across base64")
	}
}

func TestNewImage_Invalid(t *testing.T) {
	if _, err := NewImage([]byte("not an image")); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if _, err := ImageFromBase64("%%%"); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestImage_Validate(t *testing.T) {
	tests := []struct {
		detail  string
		wantErr bool
	}{
		{"", false},
		{DetailAuto, false},
		{DetailLow, false},
		{DetailHigh, false},
		{"ultra", true},
	}
	for _, tt := range tests {
		err := Image{Detail: tt.detail}.Validate()
		if tt.wantErr && !errors.IsCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("detail %q: expected INVALID_INPUT, got %v", tt.detail, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("detail %q: unexpected error %v", tt.detail, err)
		}
	}
}
