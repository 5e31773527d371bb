package models

import (
	"image"
	"time"
)

// ImageData represents a decoded image with its source metadata
type ImageData struct {
	Image    image.Image
	Path     string
	Format   string
	Width    int
	Height   int
	FileSize int64
	LoadTime time.Time
}

// NewImageData wraps a decoded image, taking dimensions from its bounds
func NewImageData(img image.Image, path, format string, fileSize int64) *ImageData {
	bounds := img.Bounds()
	return &ImageData{
		Image:    img,
		Path:     path,
		Format:   format,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		FileSize: fileSize,
		LoadTime: time.Now(),
	}
}
