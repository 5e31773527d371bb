//go:build opencv

package conversion

import (
	"fmt"
	"image"
	"image/draw"

	"liteviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ImageToMat converts a Go image to a 4-channel BGRA Mat
func ImageToMat(img image.Image) (*safe.Mat, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if err := safe.ValidateDimensions(width, height, "image to Mat conversion"); err != nil {
		return nil, err
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != width*4 || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	data := make([]byte, len(nrgba.Pix))
	for i := 0; i < len(data); i += 4 {
		data[i+0] = nrgba.Pix[i+2]
		data[i+1] = nrgba.Pix[i+1]
		data[i+2] = nrgba.Pix[i+0]
		data[i+3] = nrgba.Pix[i+3]
	}

	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC4, data)
	if err != nil {
		return nil, fmt.Errorf("Mat creation failed: %w", err)
	}
	return safe.NewMatFromMat(mat)
}

// MatToImage converts an 8-bit BGR or BGRA Mat to an NRGBA image
func MatToImage(src *safe.Mat) (*image.NRGBA, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	var channels int
	switch t := src.Type(); t {
	case gocv.MatTypeCV8UC3:
		channels = 3
	case gocv.MatTypeCV8UC4:
		channels = 4
	default:
		return nil, fmt.Errorf("unsupported Mat type %v, want 8-bit BGR or BGRA", t)
	}

	rows := src.Rows()
	cols := src.Cols()

	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var px [4]uint8
			px[3] = 255
			for ch := 0; ch < channels; ch++ {
				v, err := src.GetUCharAt3(y, x, ch)
				if err != nil {
					return nil, fmt.Errorf("channel %d access failed at (%d,%d): %w", ch, x, y, err)
				}
				px[ch] = v
			}

			i := img.PixOffset(x, y)
			img.Pix[i+0] = px[2]
			img.Pix[i+1] = px[1]
			img.Pix[i+2] = px[0]
			img.Pix[i+3] = px[3]
		}
	}

	return img, nil
}
