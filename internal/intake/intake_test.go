package intake

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestReadPicker(t *testing.T) {
	data := pngBytes(t, 4, 3)

	img, err := Read(bytes.NewReader(data), "arm.png", "image/png", SourcePicker)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if img.Filename != "arm.png" {
		t.Errorf("Expected filename arm.png, got %s", img.Filename)
	}
	if img.MediaType != "image/png" {
		t.Errorf("Expected media type image/png, got %s", img.MediaType)
	}
	if img.Width != 4 || img.Height != 3 {
		t.Errorf("Expected 4x3, got %dx%d", img.Width, img.Height)
	}
	if img.Size != len(data) {
		t.Errorf("Expected size %d, got %d", len(data), img.Size)
	}

	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(img.DataURI, prefix) {
		t.Fatalf("Unexpected data URI prefix: %.40s", img.DataURI)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(img.DataURI, prefix))
	if err != nil {
		t.Fatalf("Data URI payload is not base64: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("Data URI payload differs from the uploaded bytes")
	}
}

func TestReadPickerSniffsMissingType(t *testing.T) {
	img, err := Read(bytes.NewReader(pngBytes(t, 1, 1)), "photo", "", SourcePicker)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if img.MediaType != "image/png" {
		t.Errorf("Expected sniffed image/png, got %s", img.MediaType)
	}
}

func TestReadPickerAcceptsUndecodable(t *testing.T) {
	img, err := Read(strings.NewReader("not really an image"), "notes.txt", "text/plain", SourcePicker)
	if err != nil {
		t.Fatalf("Expected picker upload to be accepted, got %v", err)
	}
	if img.Width != 0 || img.Height != 0 {
		t.Errorf("Expected unknown dimensions, got %dx%d", img.Width, img.Height)
	}
}

func TestReadDrop(t *testing.T) {
	tests := []struct {
		name         string
		declaredType string
		wantErr      error
	}{
		{"png", "image/png", nil},
		{"jpeg with params", "image/jpeg; charset=binary", nil},
		{"upper case", "IMAGE/WEBP", nil},
		{"text", "text/plain", ErrNotImage},
		{"pdf", "application/pdf", ErrNotImage},
		{"missing type", "", ErrNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(pngBytes(t, 2, 2)), "drop.bin", tt.declaredType, SourceDrop)
			if tt.wantErr == nil && err != nil {
				t.Errorf("Expected success, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReadTooLarge(t *testing.T) {
	big := bytes.Repeat([]byte{0}, MaxSize+1)
	_, err := Read(bytes.NewReader(big), "big.png", "image/png", SourcePicker)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in       string
		expected Source
		wantErr  bool
	}{
		{"", SourcePicker, false},
		{"picker", SourcePicker, false},
		{"Drop", SourceDrop, false},
		{"camera", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSource(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSource(%q): expected error=%v, got %v", tt.in, tt.wantErr, err)
		}
		if got != tt.expected {
			t.Errorf("ParseSource(%q): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}
