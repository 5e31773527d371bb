package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	PlaceholderText = "No Image Loaded"

	MinDisplayWidth  = 320
	MinDisplayHeight = 240
)

// ImageDisplay shows the rendered frame, or a placeholder label until the
// first image is loaded. Frames arrive already fitted to the viewport, so the
// canvas image only has to center them.
type ImageDisplay struct {
	container   *fyne.Container
	background  *canvas.Rectangle
	border      *canvas.Rectangle
	image       *canvas.Image
	placeholder *widget.Label

	hasImage bool
}

// NewImageDisplay creates a new image display component
func NewImageDisplay(background, border color.Color) *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents(background, border)
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents(background, border color.Color) {
	id.background = canvas.NewRectangle(background)

	id.border = canvas.NewRectangle(color.Transparent)
	id.border.StrokeColor = border
	id.border.StrokeWidth = 1

	id.image = canvas.NewImageFromImage(nil)
	id.image.FillMode = canvas.ImageFillContain
	id.image.ScaleMode = canvas.ImageScaleSmooth
	id.image.Hide()

	id.placeholder = widget.NewLabel(PlaceholderText)
	id.placeholder.Alignment = fyne.TextAlignCenter
}

func (id *ImageDisplay) setupLayout() {
	id.container = container.NewStack(
		id.background,
		container.NewCenter(id.placeholder),
		id.image,
		id.border,
	)
	id.background.SetMinSize(fyne.NewSize(MinDisplayWidth, MinDisplayHeight))
}

// SetImage replaces the displayed bitmap; nil restores the placeholder
func (id *ImageDisplay) SetImage(img image.Image) {
	if img == nil {
		id.Clear()
		return
	}

	id.image.Image = img
	id.image.Show()
	id.placeholder.Hide()
	id.hasImage = true
	id.image.Refresh()
}

// Clear hides the bitmap and shows the placeholder again
func (id *ImageDisplay) Clear() {
	id.image.Image = nil
	id.image.Hide()
	id.placeholder.Show()
	id.hasImage = false
	id.image.Refresh()
}

// HasImage returns true if a bitmap is displayed
func (id *ImageDisplay) HasImage() bool {
	return id.hasImage
}

// Image returns the displayed bitmap, or nil
func (id *ImageDisplay) Image() image.Image {
	if !id.hasImage {
		return nil
	}
	return id.image.Image
}

// PlaceholderVisible reports whether the "No Image Loaded" label is showing
func (id *ImageDisplay) PlaceholderVisible() bool {
	return id.placeholder.Visible()
}

// PixelSize converts the display's size in canvas units to device pixels
func (id *ImageDisplay) PixelSize(scale float32) image.Point {
	size := id.container.Size()
	return image.Pt(int(size.Width*scale), int(size.Height*scale))
}

// GetContainer returns the main container
func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
