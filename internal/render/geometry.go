package render

import (
	"image"
	"math"
)

// RotatedSize returns the bounding box of a w×h image after a rotation by a
// multiple of 90 degrees.
func RotatedSize(w, h, angle int) image.Point {
	if normalizeAngle(angle)%180 == 90 {
		return image.Pt(h, w)
	}
	return image.Pt(w, h)
}

// CropRect returns the centered region of a w×h image that stays visible at
// the given zoom. Each side is round(side/zoom) clamped to [1, side], and the
// offset uses integer halving so odd remainders favour the top-left.
func CropRect(w, h int, zoom float64) image.Rectangle {
	cropW := cropSide(w, zoom)
	cropH := cropSide(h, zoom)

	x := (w - cropW) / 2
	y := (h - cropH) / 2
	return image.Rect(x, y, x+cropW, y+cropH)
}

func cropSide(side int, zoom float64) int {
	if zoom <= 0 {
		return side
	}
	n := int(math.Round(float64(side) / zoom))
	if n > side {
		n = side
	}
	if n < 1 {
		n = 1
	}
	return n
}

// FitSize scales src to the largest size that fits within bounds while
// preserving the aspect ratio. Both returned sides are at least 1.
func FitSize(src, bounds image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 || bounds.X <= 0 || bounds.Y <= 0 {
		return image.Point{}
	}

	// Compare cross products to pick the limiting side without float error.
	if src.X*bounds.Y >= src.Y*bounds.X {
		h := int(math.Round(float64(src.Y) * float64(bounds.X) / float64(src.X)))
		return image.Pt(bounds.X, max(1, h))
	}
	w := int(math.Round(float64(src.X) * float64(bounds.Y) / float64(src.Y)))
	return image.Pt(max(1, w), bounds.Y)
}

// Placement centers a size-sized rectangle inside the viewport.
func Placement(viewport, size image.Point) image.Rectangle {
	x := (viewport.X - size.X) / 2
	y := (viewport.Y - size.Y) / 2
	return image.Rect(x, y, x+size.X, y+size.Y)
}

func normalizeAngle(angle int) int {
	angle %= 360
	if angle < 0 {
		angle += 360
	}
	return angle
}
