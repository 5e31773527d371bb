//go:build opencv

package render

import (
	"fmt"
	"image"

	"liteviewer/internal/logger"
	"liteviewer/internal/models"
	"liteviewer/internal/opencv/conversion"

	"gocv.io/x/gocv"
)

func init() {
	backends["opencv"] = func(opts Options) (Renderer, error) {
		return NewOpenCVRenderer(opts)
	}
}

// OpenCVRenderer renders with gocv. Every pass converts the source once and
// releases all intermediate Mats before returning.
type OpenCVRenderer struct {
	interpolation gocv.InterpolationFlags
	logger        logger.Logger
}

func NewOpenCVRenderer(opts Options) (*OpenCVRenderer, error) {
	interp, err := interpolationFlag(opts.Filter)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &OpenCVRenderer{interpolation: interp, logger: log}, nil
}

func (r *OpenCVRenderer) Name() string {
	return "opencv"
}

func (r *OpenCVRenderer) Render(snap models.Snapshot, viewport image.Point) (Frame, error) {
	if !snap.HasImage() {
		return Frame{}, nil
	}

	src := snap.Image.Image.Bounds().Size()
	_, crop, fit, err := plan(src, snap.Angle, snap.Zoom, viewport)
	if err != nil {
		return Frame{}, err
	}

	mat, err := conversion.ImageToMat(snap.Image.Image)
	if err != nil {
		return Frame{}, fmt.Errorf("convert source: %w", err)
	}
	defer mat.Close()

	rotated, err := conversion.RotateMat(mat, normalizeAngle(snap.Angle))
	if err != nil {
		return Frame{}, fmt.Errorf("rotate: %w", err)
	}
	defer rotated.Close()

	cropped, err := conversion.CropMat(rotated, crop)
	if err != nil {
		return Frame{}, fmt.Errorf("crop: %w", err)
	}
	defer cropped.Close()

	scaled, err := conversion.ResizeMat(cropped, fit.X, fit.Y, r.interpolation)
	if err != nil {
		return Frame{}, fmt.Errorf("resize: %w", err)
	}
	defer scaled.Close()

	out, err := conversion.MatToImage(scaled)
	if err != nil {
		return Frame{}, fmt.Errorf("convert result: %w", err)
	}

	r.logger.Debug("Renderer", "opencv pass complete", map[string]interface{}{
		"crop":   crop.String(),
		"output": fmt.Sprintf("%dx%d", fit.X, fit.Y),
	})

	return Frame{
		Image:  out,
		Bounds: Placement(viewport, fit),
		Crop:   crop,
	}, nil
}

func interpolationFlag(name string) (gocv.InterpolationFlags, error) {
	switch name {
	case "", "linear":
		return gocv.InterpolationLinear, nil
	case "catmullrom":
		return gocv.InterpolationCubic, nil
	case "lanczos":
		return gocv.InterpolationLanczos4, nil
	case "box":
		return gocv.InterpolationArea, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", name)
	}
}
