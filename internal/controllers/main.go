package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"time"

	"liteviewer/internal/logger"
	"liteviewer/internal/models"
	"liteviewer/internal/render"
	"liteviewer/internal/services"
	"liteviewer/internal/timing"
)

// Event names emitted by the controller
const (
	EventImageLoaded  = "image_loaded"
	EventViewChanged  = "view_changed"
	EventRenderFailed = "render_failed"
)

const (
	defaultLoadTimeout = 30 * time.Second
	component          = "MainController"
)

var ErrRenderPanic = errors.New("renderer panicked")

// View is the part of the main window the controller drives.
type View interface {
	SetOpenHandler(func())
	SetRotateHandler(func())
	SetZoomInHandler(func())
	SetZoomOutHandler(func())

	ShowFileOpen(exts []string, callback func(path string, err error))
	ShowError(err error)
	SetFrame(img image.Image)
	UpdateStatus(status string)
	SetImageInfo(width, height int, format string, fileSize int64)
	SetTransformInfo(angle int, zoom float64)
	EnableImageOperations(enabled bool)
	ViewportSize() image.Point
	LockWindowSize()
	ResetView()
}

// ImageLoader decodes image files.
type ImageLoader interface {
	LoadImage(ctx context.Context, path string) (*models.ImageData, error)
	SupportedExtensions() []string
}

// EventHandler represents a function that handles controller events
type EventHandler func(data interface{}) error

// MainController turns user actions into viewer state changes followed by a
// render pass. All methods run on the UI goroutine.
type MainController struct {
	imageService ImageLoader
	renderer     render.Renderer
	state        *models.ViewerState
	logger       logger.Logger
	timings      *timing.Tracker

	mainView View

	fallbackViewport image.Point
	loadTimeout      time.Duration

	mu            sync.RWMutex
	lastImageLoad time.Time

	eventHandlers map[string][]EventHandler
	eventMu       sync.RWMutex
}

// NewMainController creates a new main controller
func NewMainController(
	imageService ImageLoader,
	renderer render.Renderer,
	state *models.ViewerState,
	log logger.Logger,
) *MainController {
	if log == nil {
		log = logger.NewNop()
	}
	return &MainController{
		imageService:     imageService,
		renderer:         renderer,
		state:            state,
		logger:           log,
		timings:          timing.NewTracker(timing.DefaultWindow),
		fallbackViewport: image.Pt(800, 600),
		loadTimeout:      defaultLoadTimeout,
		eventHandlers:    make(map[string][]EventHandler),
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mainView = view

	view.SetOpenHandler(mc.OpenImage)
	view.SetRotateHandler(mc.Rotate)
	view.SetZoomInHandler(mc.ZoomIn)
	view.SetZoomOutHandler(mc.ZoomOut)
	view.EnableImageOperations(mc.state.HasImage())
}

// SetFallbackViewport sets the render size used while the display has not
// been laid out yet.
func (mc *MainController) SetFallbackViewport(size image.Point) {
	if size.X > 0 && size.Y > 0 {
		mc.fallbackViewport = size
	}
}

// OpenImage asks the user for a file and loads it. Cancelling does nothing.
func (mc *MainController) OpenImage() {
	if mc.mainView == nil {
		return
	}

	mc.mainView.ShowFileOpen(mc.imageService.SupportedExtensions(), func(path string, err error) {
		if err != nil {
			mc.handleError("file selection failed", err, nil)
			return
		}
		if path == "" {
			return
		}
		_ = mc.OpenFile(path)
	})
}

// OpenFile loads the image at path. On success the viewer shows it with no
// rotation and 100% zoom; on failure the current image and transform stay.
func (mc *MainController) OpenFile(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mc.loadTimeout)
	defer cancel()

	mc.updateStatus("Loading image...")

	stop := mc.timings.Start("load")
	imageData, err := mc.imageService.LoadImage(ctx, path)
	elapsed := stop()
	if err != nil {
		mc.logger.Warning(component, "image load failed", map[string]interface{}{
			"path":  path,
			"kind":  loadErrorKind(err),
			"error": err.Error(),
		})
		mc.updateStatus(fmt.Sprintf("Cannot load %s", filepath.Base(path)))
		if mc.mainView != nil {
			mc.mainView.ShowError(err)
		}
		return err
	}

	mc.state.SetImage(imageData)

	mc.mu.Lock()
	mc.lastImageLoad = time.Now()
	mc.mu.Unlock()

	mc.logger.Info(component, "image loaded", map[string]interface{}{
		"path":     path,
		"format":   imageData.Format,
		"width":    imageData.Width,
		"height":   imageData.Height,
		"duration": elapsed.String(),
	})

	if mc.mainView != nil {
		mc.mainView.SetImageInfo(imageData.Width, imageData.Height, imageData.Format, imageData.FileSize)
		mc.mainView.EnableImageOperations(true)
	}
	mc.updateStatus(fmt.Sprintf("Loaded %s", filepath.Base(path)))
	mc.emitEvent(EventImageLoaded, imageData)

	return mc.Refresh()
}

// Rotate turns the image 90° clockwise
func (mc *MainController) Rotate() {
	if mc.state.Rotate() {
		mc.viewChanged()
	}
}

// ZoomIn enlarges the image by one zoom step
func (mc *MainController) ZoomIn() {
	if mc.state.ZoomIn() {
		mc.viewChanged()
	}
}

// ZoomOut shrinks the image by one zoom step
func (mc *MainController) ZoomOut() {
	if mc.state.ZoomOut() {
		mc.viewChanged()
	}
}

func (mc *MainController) viewChanged() {
	mc.emitEvent(EventViewChanged, mc.state.Snapshot())
	_ = mc.Refresh()
}

// Refresh renders the current state into the display. The window size is
// fixed after the first successful pass.
func (mc *MainController) Refresh() error {
	if mc.mainView == nil {
		return nil
	}

	snap := mc.state.Snapshot()
	if !snap.HasImage() {
		mc.mainView.ResetView()
		return nil
	}

	viewport := mc.mainView.ViewportSize()
	if viewport.X <= 0 || viewport.Y <= 0 {
		viewport = mc.fallbackViewport
	}

	stop := mc.timings.Start("render")
	frame, err := mc.render(snap, viewport)
	elapsed := stop()
	if err != nil {
		mc.handleError("render failed", err, map[string]interface{}{
			"angle":    snap.Angle,
			"zoom":     snap.Zoom,
			"viewport": fmt.Sprintf("%dx%d", viewport.X, viewport.Y),
		})
		mc.updateStatus("Render failed")
		mc.emitEvent(EventRenderFailed, err)
		return err
	}

	mc.mainView.SetFrame(frame.Image)
	mc.mainView.SetTransformInfo(snap.Angle, snap.Zoom)
	mc.mainView.LockWindowSize()

	mc.logger.Debug(component, "render pass complete", map[string]interface{}{
		"backend":  mc.renderer.Name(),
		"angle":    snap.Angle,
		"zoom":     snap.Zoom,
		"crop":     frame.Crop.String(),
		"bounds":   frame.Bounds.String(),
		"duration": elapsed.String(),
	})
	return nil
}

// render runs the renderer, converting a panic into an error
func (mc *MainController) render(snap models.Snapshot, viewport image.Point) (frame render.Frame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
	}()
	return mc.renderer.Render(snap, viewport)
}

// Timings returns the load and render duration tracker
func (mc *MainController) Timings() *timing.Tracker {
	return mc.timings
}

// LastImageLoad returns when the current image was loaded
func (mc *MainController) LastImageLoad() time.Time {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.lastImageLoad
}

// AddEventListener registers handler for eventType
func (mc *MainController) AddEventListener(eventType string, handler EventHandler) {
	mc.eventMu.Lock()
	defer mc.eventMu.Unlock()

	mc.eventHandlers[eventType] = append(mc.eventHandlers[eventType], handler)
}

// emitEvent runs all handlers for eventType in registration order
func (mc *MainController) emitEvent(eventType string, data interface{}) {
	mc.eventMu.RLock()
	handlers := mc.eventHandlers[eventType]
	mc.eventMu.RUnlock()

	for _, h := range handlers {
		if err := h(data); err != nil {
			mc.logger.Error(component, err, map[string]interface{}{
				"event": eventType,
			})
		}
	}
}

func (mc *MainController) updateStatus(status string) {
	if mc.mainView != nil {
		mc.mainView.UpdateStatus(status)
	}
}

// handleError logs err and shows it in a dialog
func (mc *MainController) handleError(operation string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["operation"] = operation
	mc.logger.Error(component, err, fields)

	if mc.mainView != nil {
		mc.mainView.ShowError(err)
	}
}

// Shutdown drops the loaded image and any renderer cache
func (mc *MainController) Shutdown() {
	mc.state.Clear()
	if r, ok := mc.renderer.(interface{ Reset() }); ok {
		r.Reset()
	}
	mc.logger.Info(component, "controller shut down", mc.timings.Summary())
}

func loadErrorKind(err error) string {
	switch {
	case errors.Is(err, services.ErrUnreadable):
		return "unreadable"
	case errors.Is(err, services.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, services.ErrDecode):
		return "decode"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "unknown"
	}
}
