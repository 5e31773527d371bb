package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"liteviewer/internal/logger"
	"liteviewer/internal/models"

	"github.com/disintegration/imaging"
)

// ImagingRenderer renders with github.com/disintegration/imaging. The last
// rotated bitmap is cached so zoom steps only re-crop and re-scale.
type ImagingRenderer struct {
	filter imaging.ResampleFilter
	logger logger.Logger

	mu          sync.Mutex
	cacheSource *models.ImageData
	cacheAngle  int
	cacheImage  *image.NRGBA
}

func NewImagingRenderer(opts Options) (*ImagingRenderer, error) {
	filter, err := resampleFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &ImagingRenderer{filter: filter, logger: log}, nil
}

func (r *ImagingRenderer) Name() string {
	return "imaging"
}

func (r *ImagingRenderer) Render(snap models.Snapshot, viewport image.Point) (Frame, error) {
	if !snap.HasImage() {
		return Frame{}, nil
	}

	src := snap.Image.Image.Bounds().Size()
	_, crop, fit, err := plan(src, snap.Angle, snap.Zoom, viewport)
	if err != nil {
		return Frame{}, err
	}

	rotated := r.rotated(snap.Image, snap.Angle)
	cropped := imaging.Crop(rotated, crop)
	scaled := imaging.Resize(cropped, fit.X, fit.Y, r.filter)

	return Frame{
		Image:  scaled,
		Bounds: Placement(viewport, fit),
		Crop:   crop,
	}, nil
}

func (r *ImagingRenderer) rotated(data *models.ImageData, angle int) *image.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	angle = normalizeAngle(angle)
	if r.cacheSource == data && r.cacheAngle == angle && r.cacheImage != nil {
		return r.cacheImage
	}

	r.cacheSource = data
	r.cacheAngle = angle
	r.cacheImage = rotateClockwise(data.Image, angle)

	r.logger.Debug("Renderer", "rotated image cached", map[string]interface{}{
		"angle":  angle,
		"width":  r.cacheImage.Bounds().Dx(),
		"height": r.cacheImage.Bounds().Dy(),
	})
	return r.cacheImage
}

// Reset drops the cached rotation.
func (r *ImagingRenderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cacheSource = nil
	r.cacheImage = nil
}

// rotateClockwise turns img by angle degrees clockwise. imaging rotates
// counter-clockwise, so quarter turns map to the complementary function.
func rotateClockwise(img image.Image, angle int) *image.NRGBA {
	switch angle {
	case 0:
		return imaging.Clone(img)
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return imaging.Rotate(img, -float64(angle), color.Transparent)
	}
}

func resampleFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(name) {
	case "", "linear":
		return imaging.Linear, nil
	case "catmullrom":
		return imaging.CatmullRom, nil
	case "lanczos":
		return imaging.Lanczos, nil
	case "box":
		return imaging.Box, nil
	default:
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter %q", name)
	}
}
