//go:build opencv

package conversion

import (
	"image"
	"image/color"
	"testing"

	"liteviewer/internal/opencv/safe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestImageToMatRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{B: 200, A: 128})

	mat, err := ImageToMat(img)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, gocv.MatTypeCV8UC4, mat.Type())
	assert.Equal(t, 2, mat.Rows())
	assert.Equal(t, 3, mat.Cols())

	out, err := MatToImage(mat)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestMatToImageRejectsUnsupportedType(t *testing.T) {
	mat, err := safe.NewMatFromMat(gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1))
	require.NoError(t, err)
	defer mat.Close()

	_, err = MatToImage(mat)
	assert.ErrorContains(t, err, "unsupported Mat type")
}

func TestMatToImageBGR(t *testing.T) {
	src := gocv.NewMatWithSize(1, 1, gocv.MatTypeCV8UC3)
	src.SetUCharAt3(0, 0, 0, 10)
	src.SetUCharAt3(0, 0, 1, 20)
	src.SetUCharAt3(0, 0, 2, 30)
	mat, err := safe.NewMatFromMat(src)
	require.NoError(t, err)
	defer mat.Close()

	out, err := MatToImage(mat)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 30, G: 20, B: 10, A: 255}, out.NRGBAAt(0, 0))
}

func TestClosedMat(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	mat, err := ImageToMat(img)
	require.NoError(t, err)

	_, err = mat.GetUCharAt3(5, 0, 0)
	assert.Error(t, err)

	mat.Close()
	mat.Close()

	assert.False(t, mat.IsValid())
	assert.True(t, mat.Empty())
	assert.Equal(t, gocv.MatType(-1), mat.Type())

	_, err = MatToImage(mat)
	assert.Error(t, err)
}
