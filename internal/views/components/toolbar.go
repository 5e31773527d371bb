package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Status tips shown when the matching toolbar action runs
const (
	OpenTip    = "Open an image file"
	RotateTip  = "Rotate the image"
	ZoomInTip  = "Zoom in on the image"
	ZoomOutTip = "Zoom out of the image"
)

// Toolbar holds the Open, Rotate, Zoom In and Zoom Out actions.
// It swallows secondary taps so right-clicking it never opens a context menu.
type Toolbar struct {
	widget.BaseWidget

	container     *fyne.Container
	openButton    *widget.Button
	rotateButton  *widget.Button
	zoomInButton  *widget.Button
	zoomOutButton *widget.Button

	// Event handlers
	openHandler    func()
	rotateHandler  func()
	zoomInHandler  func()
	zoomOutHandler func()
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.ExtendBaseWidget(toolbar)
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.openButton = widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), func() {
		if t.openHandler != nil {
			t.openHandler()
		}
	})
	t.openButton.Importance = widget.HighImportance

	t.rotateButton = widget.NewButtonWithIcon("Rotate", theme.ViewRefreshIcon(), func() {
		if t.rotateHandler != nil {
			t.rotateHandler()
		}
	})

	t.zoomInButton = widget.NewButtonWithIcon("Zoom In", theme.ZoomInIcon(), func() {
		if t.zoomInHandler != nil {
			t.zoomInHandler()
		}
	})

	t.zoomOutButton = widget.NewButtonWithIcon("Zoom Out", theme.ZoomOutIcon(), func() {
		if t.zoomOutHandler != nil {
			t.zoomOutHandler()
		}
	})
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.openButton,
		widget.NewSeparator(),
		t.rotateButton,
		t.zoomInButton,
		t.zoomOutButton,
	)
}

// CreateRenderer is a mandatory method for a Fyne widget.
func (t *Toolbar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.container)
}

// TappedSecondary intentionally does nothing.
func (t *Toolbar) TappedSecondary(*fyne.PointEvent) {}

// Event handler setters

func (t *Toolbar) SetOpenHandler(handler func()) {
	t.openHandler = handler
}

func (t *Toolbar) SetRotateHandler(handler func()) {
	t.rotateHandler = handler
}

func (t *Toolbar) SetZoomInHandler(handler func()) {
	t.zoomInHandler = handler
}

func (t *Toolbar) SetZoomOutHandler(handler func()) {
	t.zoomOutHandler = handler
}

// EnableImageOperations enables/disables the actions that need a loaded image
func (t *Toolbar) EnableImageOperations(enabled bool) {
	for _, b := range []*widget.Button{t.rotateButton, t.zoomInButton, t.zoomOutButton} {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

// ImageOperationsEnabled reports whether the image-dependent actions are enabled
func (t *Toolbar) ImageOperationsEnabled() bool {
	return !t.rotateButton.Disabled()
}
