package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"liteviewer/internal/logger"
	"liteviewer/internal/models"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnreadable        = errors.New("file is not readable")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image data is corrupt")
)

// LoadError describes why an image could not be loaded.
// Kind is one of ErrUnreadable, ErrUnsupportedFormat or ErrDecode.
type LoadError struct {
	Path string
	Kind error
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("load %s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

var supportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// ImageService handles image decoding from the file system
type ImageService struct {
	autoOrient bool
	logger     logger.Logger
}

// NewImageService creates a new image service. With autoOrient set, JPEG
// EXIF orientation tags are applied at decode time.
func NewImageService(autoOrient bool, log logger.Logger) *ImageService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ImageService{
		autoOrient: autoOrient,
		logger:     log,
	}
}

// LoadImage decodes the file at path
func (is *ImageService) LoadImage(ctx context.Context, path string) (*models.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrUnreadable, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Kind: ErrUnreadable, Err: errors.New("is a directory")}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrUnreadable, Err: err}
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	// Sniff the header first so unknown formats are reported apart from corrupt data.
	header, err := reader.Peek(512)
	if err != nil && len(header) == 0 {
		return nil, &LoadError{Path: path, Kind: ErrDecode, Err: err}
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(header))
	if errors.Is(err, image.ErrFormat) {
		return nil, &LoadError{Path: path, Kind: ErrUnsupportedFormat}
	}

	img, err := imaging.Decode(reader, imaging.AutoOrientation(is.autoOrient))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, &LoadError{Path: path, Kind: ErrUnsupportedFormat}
		}
		return nil, &LoadError{Path: path, Kind: ErrDecode, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, &LoadError{Path: path, Kind: ErrDecode, Err: errors.New("image has no pixels")}
	}

	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	imageData := models.NewImageData(img, path, format, info.Size())

	is.logger.Debug("ImageService", "image decoded", map[string]interface{}{
		"path":        path,
		"format":      format,
		"width":       imageData.Width,
		"height":      imageData.Height,
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	return imageData, nil
}

// SupportedExtensions returns the file extensions the decoders handle,
// each with a leading dot.
func (is *ImageService) SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// IsSupportedPath reports whether the path has a known image extension
func (is *ImageService) IsSupportedPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range supportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
