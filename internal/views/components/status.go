package components

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
)

// StatusBar displays application status and information
type StatusBar struct {
	container     *fyne.Container
	statusLabel   *widget.Label
	imageInfo     *widget.Label
	transformInfo *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.imageInfo = widget.NewLabel("No image loaded")
	sb.transformInfo = widget.NewLabel("")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.imageInfo,
		widget.NewSeparator(),
		sb.transformInfo,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetImageInfo shows the dimensions, format and file size of the image
func (sb *StatusBar) SetImageInfo(width, height int, format string, fileSize int64) {
	info := fmt.Sprintf("%dx%d %s", width, height, format)
	if fileSize > 0 {
		info += ", " + humanize.Bytes(uint64(fileSize))
	}
	sb.imageInfo.SetText(info)
}

func (sb *StatusBar) GetImageInfo() string {
	return sb.imageInfo.Text
}

// SetTransformInfo shows the rotation and zoom, e.g. "90° · 120%"
func (sb *StatusBar) SetTransformInfo(angle int, zoom float64) {
	sb.transformInfo.SetText(fmt.Sprintf("%d° · %d%%", angle, int(math.Round(zoom*100))))
}

func (sb *StatusBar) GetTransformInfo() string {
	return sb.transformInfo.Text
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	sb.statusLabel.SetText("Ready")
	sb.imageInfo.SetText("No image loaded")
	sb.transformInfo.SetText("")
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
