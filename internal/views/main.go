package views

import (
	"image"
	"image/color"
	"sync"

	"liteviewer/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
)

// MainView is the viewer window: toolbar on top, status bar at the bottom and
// the image display in the center.
type MainView struct {
	// UI Components
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	imageDisplay  *components.ImageDisplay
	statusBar     *components.StatusBar

	lockOnce sync.Once

	// Event handlers - connected to controller
	openHandler    func()
	rotateHandler  func()
	zoomInHandler  func()
	zoomOutHandler func()
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window, background, border color.Color) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(background, border)
	view.buildLayout()
	view.setupEventHandlers()
	view.registerShortcuts()

	return view
}

func (mv *MainView) initializeComponents(background, border color.Color) {
	mv.toolbar = components.NewToolbar()
	mv.toolbar.EnableImageOperations(false)
	mv.imageDisplay = components.NewImageDisplay(background, border)
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	mv.mainContainer = container.NewBorder(
		mv.toolbar,                     // top
		mv.statusBar.GetContainer(),    // bottom
		nil,                            // left
		nil,                            // right
		mv.imageDisplay.GetContainer(), // center
	)

	mv.window.SetContent(mv.mainContainer)
}

// setupEventHandlers connects toolbar actions to the controller handlers and
// shows each action's status tip.
func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetOpenHandler(func() { mv.dispatch(components.OpenTip, mv.openHandler) })
	mv.toolbar.SetRotateHandler(func() { mv.dispatch(components.RotateTip, mv.rotateHandler) })
	mv.toolbar.SetZoomInHandler(func() { mv.dispatch(components.ZoomInTip, mv.zoomInHandler) })
	mv.toolbar.SetZoomOutHandler(func() { mv.dispatch(components.ZoomOutTip, mv.zoomOutHandler) })
}

func (mv *MainView) dispatch(tip string, handler func()) {
	mv.statusBar.SetStatus(tip)
	if handler != nil {
		handler()
	}
}

// registerShortcuts binds Ctrl+O, Ctrl+R, Ctrl+= and Ctrl+- (Cmd on macOS).
func (mv *MainView) registerShortcuts() {
	bind := func(key fyne.KeyName, tip string, handler *func()) {
		shortcut := &desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierShortcutDefault}
		mv.window.Canvas().AddShortcut(shortcut, func(fyne.Shortcut) {
			mv.dispatch(tip, *handler)
		})
	}

	bind(fyne.KeyO, components.OpenTip, &mv.openHandler)
	bind(fyne.KeyR, components.RotateTip, &mv.rotateHandler)
	bind(fyne.KeyEqual, components.ZoomInTip, &mv.zoomInHandler)
	bind(fyne.KeyMinus, components.ZoomOutTip, &mv.zoomOutHandler)
}

// Event handler setters - called by controller

func (mv *MainView) SetOpenHandler(handler func()) {
	mv.openHandler = handler
}

func (mv *MainView) SetRotateHandler(handler func()) {
	mv.rotateHandler = handler
}

func (mv *MainView) SetZoomInHandler(handler func()) {
	mv.zoomInHandler = handler
}

func (mv *MainView) SetZoomOutHandler(handler func()) {
	mv.zoomOutHandler = handler
}

// UI update methods - called by controller

// SetFrame shows a rendered frame; nil restores the placeholder
func (mv *MainView) SetFrame(img image.Image) {
	mv.imageDisplay.SetImage(img)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// SetImageInfo updates image information display
func (mv *MainView) SetImageInfo(width, height int, format string, fileSize int64) {
	mv.statusBar.SetImageInfo(width, height, format, fileSize)
}

func (mv *MainView) SetTransformInfo(angle int, zoom float64) {
	mv.statusBar.SetTransformInfo(angle, zoom)
}

// EnableImageOperations enables/disables image-dependent operations
func (mv *MainView) EnableImageOperations(enabled bool) {
	mv.toolbar.EnableImageOperations(enabled)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(err error) {
	dialog.ShowError(err, mv.window)
}

// ShowFileOpen shows an open dialog filtered to exts. callback receives the
// chosen local path, or an empty path and nil error when cancelled.
func (mv *MainView) ShowFileOpen(exts []string, callback func(path string, err error)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			callback("", err)
			return
		}
		if reader == nil {
			callback("", nil)
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		callback(path, nil)
	}, mv.window)

	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	fd.Show()
}

// ViewportSize returns the display area in device pixels
func (mv *MainView) ViewportSize() image.Point {
	return mv.imageDisplay.PixelSize(mv.window.Canvas().Scale())
}

// LockWindowSize resizes the window to its current content once and fixes it
// there. Later calls do nothing.
func (mv *MainView) LockWindowSize() {
	mv.lockOnce.Do(func() {
		mv.window.Resize(mv.window.Canvas().Size())
		mv.window.SetFixedSize(true)
	})
}

// GetContainer returns the main container
func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

func (mv *MainView) GetToolbar() *components.Toolbar {
	return mv.toolbar
}

func (mv *MainView) GetImageDisplay() *components.ImageDisplay {
	return mv.imageDisplay
}

func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

// ResetView shows the placeholder, resets the status bar and disables
// image operations
func (mv *MainView) ResetView() {
	mv.imageDisplay.Clear()
	mv.statusBar.Reset()
	mv.toolbar.EnableImageOperations(false)
}
