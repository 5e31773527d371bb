package controllers

import (
	"context"
	"errors"
	"image"
	"testing"

	"liteviewer/internal/models"
	"liteviewer/internal/render"
	"liteviewer/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	open, rotate, zoomIn, zoomOut func()

	dialogPath string
	dialogErr  error
	dialogExts []string

	frame       image.Image
	frames      int
	status      string
	errors      []error
	imageInfo   string
	angle       int
	zoom        float64
	enabled     bool
	viewport    image.Point
	lockedCount int
	resets      int
}

func (v *fakeView) SetOpenHandler(h func())    { v.open = h }
func (v *fakeView) SetRotateHandler(h func())  { v.rotate = h }
func (v *fakeView) SetZoomInHandler(h func())  { v.zoomIn = h }
func (v *fakeView) SetZoomOutHandler(h func()) { v.zoomOut = h }

func (v *fakeView) ShowFileOpen(exts []string, callback func(string, error)) {
	v.dialogExts = exts
	callback(v.dialogPath, v.dialogErr)
}

func (v *fakeView) ShowError(err error) { v.errors = append(v.errors, err) }

func (v *fakeView) SetFrame(img image.Image) {
	v.frame = img
	v.frames++
}

func (v *fakeView) UpdateStatus(s string) { v.status = s }

func (v *fakeView) SetImageInfo(w, h int, format string, _ int64) {
	v.imageInfo = format
}

func (v *fakeView) SetTransformInfo(angle int, zoom float64) {
	v.angle = angle
	v.zoom = zoom
}

func (v *fakeView) EnableImageOperations(enabled bool) { v.enabled = enabled }
func (v *fakeView) ViewportSize() image.Point          { return v.viewport }
func (v *fakeView) LockWindowSize()                    { v.lockedCount++ }

func (v *fakeView) ResetView() {
	v.frame = nil
	v.enabled = false
	v.resets++
}

type fakeLoader struct {
	images map[string]*models.ImageData
	calls  int
}

func (l *fakeLoader) LoadImage(_ context.Context, path string) (*models.ImageData, error) {
	l.calls++
	if img, ok := l.images[path]; ok {
		return img, nil
	}
	return nil, &services.LoadError{Path: path, Kind: services.ErrUnsupportedFormat}
}

func (l *fakeLoader) SupportedExtensions() []string { return []string{".png"} }

type panicRenderer struct{}

func (panicRenderer) Render(models.Snapshot, image.Point) (render.Frame, error) {
	panic("out of memory")
}

func (panicRenderer) Name() string { return "panic" }

func newImage(w, h int) *models.ImageData {
	return models.NewImageData(image.NewNRGBA(image.Rect(0, 0, w, h)), "test.png", "png", 64)
}

func setup(t *testing.T) (*MainController, *fakeView, *fakeLoader) {
	t.Helper()

	renderer, err := render.New("imaging", render.Options{})
	require.NoError(t, err)

	loader := &fakeLoader{images: map[string]*models.ImageData{
		"a.png": newImage(40, 20),
		"b.png": newImage(10, 30),
	}}
	view := &fakeView{viewport: image.Pt(200, 200)}

	mc := NewMainController(loader, renderer, models.NewViewerState(models.DefaultZoomLimits()), nil)
	mc.SetMainView(view)
	return mc, view, loader
}

func TestSetMainViewConnectsHandlers(t *testing.T) {
	_, view, _ := setup(t)

	assert.NotNil(t, view.open)
	assert.NotNil(t, view.rotate)
	assert.NotNil(t, view.zoomIn)
	assert.NotNil(t, view.zoomOut)
	assert.False(t, view.enabled)
}

func TestOpenFileResetsTransformAndRenders(t *testing.T) {
	mc, view, _ := setup(t)

	require.NoError(t, mc.OpenFile("a.png"))
	mc.Rotate()
	mc.ZoomIn()
	assert.Equal(t, 90, mc.state.Angle())

	require.NoError(t, mc.OpenFile("b.png"))
	assert.Equal(t, 0, mc.state.Angle())
	assert.Equal(t, 1.0, mc.state.Zoom())
	assert.Equal(t, 0, view.angle)
	assert.Equal(t, 1.0, view.zoom)

	require.NotNil(t, view.frame)
	assert.Equal(t, image.Pt(67, 200), view.frame.Bounds().Size())
	assert.True(t, view.enabled)
	assert.Equal(t, "png", view.imageInfo)
	assert.Equal(t, "Loaded b.png", view.status)
	assert.False(t, mc.LastImageLoad().IsZero())
}

func TestOpenFileFailureKeepsState(t *testing.T) {
	mc, view, _ := setup(t)

	require.NoError(t, mc.OpenFile("a.png"))
	mc.Rotate()
	mc.ZoomIn()
	before := mc.state.Snapshot()
	frames := view.frames

	err := mc.OpenFile("notes.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrUnsupportedFormat)

	assert.Equal(t, before, mc.state.Snapshot())
	assert.Equal(t, frames, view.frames)
	require.Len(t, view.errors, 1)
	assert.Equal(t, "Cannot load notes.txt", view.status)
}

func TestOpenImageUsesDialog(t *testing.T) {
	mc, view, loader := setup(t)

	view.dialogPath = "a.png"
	mc.OpenImage()
	assert.Equal(t, []string{".png"}, view.dialogExts)
	assert.True(t, mc.state.HasImage())
	assert.Equal(t, 1, loader.calls)
}

func TestOpenImageCancelled(t *testing.T) {
	mc, view, loader := setup(t)

	mc.OpenImage()
	assert.Zero(t, loader.calls)
	assert.Empty(t, view.errors)
	assert.False(t, mc.state.HasImage())
}

func TestOpenImageDialogError(t *testing.T) {
	mc, view, loader := setup(t)

	view.dialogErr = errors.New("portal unavailable")
	mc.OpenImage()
	assert.Zero(t, loader.calls)
	assert.Len(t, view.errors, 1)
}

func TestActionsWithoutImageDoNothing(t *testing.T) {
	mc, view, _ := setup(t)

	var events int
	mc.AddEventListener(EventViewChanged, func(interface{}) error {
		events++
		return nil
	})

	mc.Rotate()
	mc.ZoomIn()
	mc.ZoomOut()

	assert.Zero(t, view.frames)
	assert.Zero(t, events)
	assert.Equal(t, 0, mc.state.Angle())
	assert.Equal(t, 1.0, mc.state.Zoom())
}

func TestRotateRendersSwappedFrame(t *testing.T) {
	mc, view, _ := setup(t)
	require.NoError(t, mc.OpenFile("a.png"))
	assert.Equal(t, image.Pt(200, 100), view.frame.Bounds().Size())

	mc.Rotate()
	assert.Equal(t, image.Pt(100, 200), view.frame.Bounds().Size())
	assert.Equal(t, 90, view.angle)

	for i := 0; i < 3; i++ {
		mc.Rotate()
	}
	assert.Equal(t, 0, view.angle)
}

func TestZoomClampsThroughController(t *testing.T) {
	mc, view, _ := setup(t)
	require.NoError(t, mc.OpenFile("a.png"))

	mc.ZoomIn()
	assert.InDelta(t, 1.2, view.zoom, 1e-9)

	for i := 0; i < 20; i++ {
		mc.ZoomIn()
	}
	assert.Equal(t, 5.0, view.zoom)

	for i := 0; i < 40; i++ {
		mc.ZoomOut()
	}
	assert.Equal(t, 0.5, view.zoom)
}

func TestRefreshRequestsWindowLock(t *testing.T) {
	mc, view, _ := setup(t)
	require.NoError(t, mc.OpenFile("a.png"))
	mc.ZoomIn()

	assert.Equal(t, 2, view.lockedCount)
}

func TestRefreshUsesFallbackViewport(t *testing.T) {
	mc, view, _ := setup(t)
	view.viewport = image.Point{}
	mc.SetFallbackViewport(image.Pt(80, 80))

	require.NoError(t, mc.OpenFile("a.png"))
	assert.Equal(t, image.Pt(80, 40), view.frame.Bounds().Size())
}

func TestRenderPanicIsRecovered(t *testing.T) {
	loader := &fakeLoader{images: map[string]*models.ImageData{"a.png": newImage(4, 4)}}
	view := &fakeView{viewport: image.Pt(10, 10)}
	mc := NewMainController(loader, panicRenderer{}, models.NewViewerState(models.DefaultZoomLimits()), nil)
	mc.SetMainView(view)

	var failed error
	mc.AddEventListener(EventRenderFailed, func(data interface{}) error {
		failed = data.(error)
		return nil
	})

	err := mc.OpenFile("a.png")
	assert.ErrorIs(t, err, ErrRenderPanic)
	assert.ErrorIs(t, failed, ErrRenderPanic)
	assert.True(t, mc.state.HasImage())
	assert.Nil(t, view.frame)
	assert.Equal(t, "Render failed", view.status)
	assert.Len(t, view.errors, 1)
	assert.Zero(t, view.lockedCount)
}

func TestImageLoadedEvent(t *testing.T) {
	mc, _, _ := setup(t)

	var loaded *models.ImageData
	mc.AddEventListener(EventImageLoaded, func(data interface{}) error {
		loaded = data.(*models.ImageData)
		return errors.New("listener errors are logged, not returned")
	})

	require.NoError(t, mc.OpenFile("a.png"))
	require.NotNil(t, loaded)
	assert.Equal(t, 40, loaded.Width)
}

func TestShutdownClearsState(t *testing.T) {
	mc, _, _ := setup(t)
	require.NoError(t, mc.OpenFile("a.png"))

	mc.Shutdown()
	assert.False(t, mc.state.HasImage())
}

func TestLoadErrorKind(t *testing.T) {
	assert.Equal(t, "unreadable", loadErrorKind(&services.LoadError{Kind: services.ErrUnreadable}))
	assert.Equal(t, "decode", loadErrorKind(&services.LoadError{Kind: services.ErrDecode}))
	assert.Equal(t, "cancelled", loadErrorKind(context.Canceled))
	assert.Equal(t, "unknown", loadErrorKind(errors.New("x")))
}

func TestTimingsRecordLoadAndRender(t *testing.T) {
	mc, _, _ := setup(t)
	require.NoError(t, mc.OpenFile("a.png"))
	mc.Rotate()
	_ = mc.OpenFile("missing.png")

	assert.Len(t, mc.Timings().Timings("load"), 2)
	assert.Len(t, mc.Timings().Timings("render"), 2)
}

func TestRefreshWithoutImageResetsView(t *testing.T) {
	mc, view, _ := setup(t)

	require.NoError(t, mc.Refresh())
	assert.Equal(t, 1, view.resets)
	assert.Zero(t, view.frames)
	assert.Zero(t, view.lockedCount)

	require.NoError(t, mc.OpenFile("a.png"))
	mc.Shutdown()
	require.NoError(t, mc.Refresh())
	assert.Equal(t, 2, view.resets)
	assert.Nil(t, view.frame)
	assert.False(t, view.enabled)
}
