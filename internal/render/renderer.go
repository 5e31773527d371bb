// Package render turns a viewer snapshot into the bitmap shown on screen:
// rotate, crop around the center by the inverse zoom, then fit the viewport.
package render

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"liteviewer/internal/logger"
	"liteviewer/internal/models"
)

var (
	ErrEmptyViewport      = errors.New("viewport has no area")
	ErrBackendUnavailable = errors.New("render backend not available in this build")
)

// Frame is the output of one render pass. Image is nil when nothing is loaded.
// Bounds is where Image sits centered inside the viewport. The display centers
// the image itself, so Bounds and Crop are only reported in debug logs.
type Frame struct {
	Image  image.Image
	Bounds image.Rectangle
	Crop   image.Rectangle
}

func (f Frame) Empty() bool {
	return f.Image == nil
}

type Renderer interface {
	Render(snap models.Snapshot, viewport image.Point) (Frame, error)
	Name() string
}

// Options configures a backend.
type Options struct {
	Filter string
	Logger logger.Logger
}

type factory func(Options) (Renderer, error)

var backends = map[string]factory{
	"imaging": func(opts Options) (Renderer, error) {
		return NewImagingRenderer(opts)
	},
}

// New builds the named backend.
func New(backend string, opts Options) (Renderer, error) {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	f, ok := backends[strings.ToLower(backend)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", backend, ErrBackendUnavailable)
	}
	return f(opts)
}

// Backends lists the backends compiled into this binary.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// plan computes the geometry of a render pass for an image of size src.
func plan(src image.Point, angle int, zoom float64, viewport image.Point) (rotated image.Point, crop image.Rectangle, fit image.Point, err error) {
	if viewport.X <= 0 || viewport.Y <= 0 {
		return image.Point{}, image.Rectangle{}, image.Point{}, ErrEmptyViewport
	}
	rotated = RotatedSize(src.X, src.Y, angle)
	crop = CropRect(rotated.X, rotated.Y, zoom)
	fit = FitSize(crop.Size(), viewport)
	return rotated, crop, fit, nil
}
