// Package intake turns a user-supplied file into an in-memory image that can
// be displayed straight from a data URI.
package intake

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/skinscan/internal/models"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxSize caps an upload at 10MB
const MaxSize = 10 * 1024 * 1024

var (
	// ErrNotImage is returned for dropped files whose media type is not image/*
	ErrNotImage = errors.New("dropped file is not an image")
	// ErrTooLarge is returned when the file reaches MaxSize
	ErrTooLarge = errors.New("file too large (max 10MB)")
)

// Source is the control a file arrived through
type Source string

const (
	SourcePicker Source = "picker"
	SourceDrop   Source = "drop"
)

// ParseSource maps a form value to a Source. Empty means the file picker.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case "", SourcePicker:
		return SourcePicker, nil
	case SourceDrop:
		return SourceDrop, nil
	default:
		return "", fmt.Errorf("invalid source %q. Must be 'picker' or 'drop'", s)
	}
}

// Read loads an upload into memory.
//
// Dropped files must declare an image/* media type. Picker selections are
// accepted as-is since the chooser already filters on image/*. When no type
// was declared it is sniffed from the content.
func Read(r io.Reader, filename, declaredType string, src Source) (*models.Image, error) {
	mediaType := normalizeMediaType(declaredType)
	if src == SourceDrop && !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: %q has media type %q", ErrNotImage, filename, declaredType)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	if len(data) >= MaxSize {
		return nil, ErrTooLarge
	}

	if mediaType == "" {
		mediaType = normalizeMediaType(http.DetectContentType(data))
	}

	img := &models.Image{
		Filename:  filename,
		MediaType: mediaType,
		Size:      len(data),
		DataURI:   DataURI(mediaType, data),
	}

	width, height, err := dimensions(data)
	if err != nil {
		slog.Warn("Failed to get image dimensions", "filename", filename, "error", err)
	} else {
		img.Width, img.Height = width, height
	}

	slog.Info("Image loaded", "filename", filename, "media_type", mediaType, "size", len(data), "source", src)
	return img, nil
}

// DataURI encodes data as a base64 data URI
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func normalizeMediaType(t string) string {
	t, _, _ = strings.Cut(t, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

func dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
