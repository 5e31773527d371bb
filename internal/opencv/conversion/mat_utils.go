//go:build opencv

package conversion

import (
	"fmt"
	"image"

	"liteviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// RotateMat turns src clockwise by a multiple of 90 degrees
func RotateMat(src *safe.Mat, angle int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "Mat rotation"); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	switch angle {
	case 0:
		src.GetMat().CopyTo(&dst)
	case 90:
		gocv.Rotate(src.GetMat(), &dst, gocv.Rotate90Clockwise)
	case 180:
		gocv.Rotate(src.GetMat(), &dst, gocv.Rotate180Clockwise)
	case 270:
		gocv.Rotate(src.GetMat(), &dst, gocv.Rotate90CounterClockwise)
	default:
		dst.Close()
		return nil, fmt.Errorf("unsupported rotation angle: %d", angle)
	}

	return safe.NewMatFromMat(dst)
}

// CropMat copies a rectangular region out of the Mat
func CropMat(src *safe.Mat, rect image.Rectangle) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "Mat cropping"); err != nil {
		return nil, err
	}

	if rect.Empty() || !rect.In(image.Rect(0, 0, src.Cols(), src.Rows())) {
		return nil, fmt.Errorf("crop region %v exceeds Mat bounds %dx%d", rect, src.Cols(), src.Rows())
	}

	region := src.GetMat().Region(rect)
	defer region.Close()

	return safe.NewMatFromMat(region.Clone())
}

// ResizeMat resizes Mat to new dimensions using specified interpolation
func ResizeMat(src *safe.Mat, newWidth, newHeight int, interpolation gocv.InterpolationFlags) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "Mat resizing"); err != nil {
		return nil, err
	}

	if err := safe.ValidateDimensions(newWidth, newHeight, "Mat resizing"); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	gocv.Resize(src.GetMat(), &dst, image.Pt(newWidth, newHeight), 0, 0, interpolation)

	return safe.NewMatFromMat(dst)
}
