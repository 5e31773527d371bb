package models

import (
	"math"
	"sync"
)

const (
	DefaultMinZoom  = 0.5
	DefaultMaxZoom  = 5.0
	DefaultZoomStep = 1.2

	RotationStep = 90
)

// ZoomLimits bounds the zoom factor. Step is the multiplier applied by one
// zoom-in action and the divisor applied by one zoom-out action.
type ZoomLimits struct {
	Min  float64
	Max  float64
	Step float64
}

func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{Min: DefaultMinZoom, Max: DefaultMaxZoom, Step: DefaultZoomStep}
}

// Snapshot is an immutable copy of the view state handed to renderers
type Snapshot struct {
	Image *ImageData
	Angle int
	Zoom  float64
}

func (s Snapshot) HasImage() bool {
	return s.Image != nil && s.Image.Image != nil
}

// ViewerState holds the loaded image and its view transform.
// The angle is always one of 0, 90, 180, 270 and the zoom always lies within
// the configured limits.
type ViewerState struct {
	mu     sync.RWMutex
	image  *ImageData
	angle  int
	zoom   float64
	limits ZoomLimits
}

func NewViewerState(limits ZoomLimits) *ViewerState {
	return &ViewerState{
		zoom:   1.0,
		limits: limits,
	}
}

// SetImage replaces the current image and resets rotation and zoom.
func (s *ViewerState) SetImage(img *ImageData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.image = img
	s.angle = 0
	s.zoom = 1.0
}

// Clear drops the image and resets the transform.
func (s *ViewerState) Clear() {
	s.SetImage(nil)
}

// Rotate turns the view 90 degrees clockwise. It reports false and leaves
// the state untouched when no image is loaded.
func (s *ViewerState) Rotate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.image == nil {
		return false
	}
	s.angle = (s.angle + RotationStep) % 360
	return true
}

func (s *ViewerState) ZoomIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.image == nil {
		return false
	}
	s.zoom = math.Min(s.limits.Max, s.zoom*s.limits.Step)
	return true
}

func (s *ViewerState) ZoomOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.image == nil {
		return false
	}
	s.zoom = math.Max(s.limits.Min, s.zoom/s.limits.Step)
	return true
}

func (s *ViewerState) HasImage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image != nil
}

func (s *ViewerState) Image() *ImageData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image
}

func (s *ViewerState) Angle() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.angle
}

func (s *ViewerState) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

func (s *ViewerState) Limits() ZoomLimits {
	return s.limits
}

func (s *ViewerState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Image: s.image, Angle: s.angle, Zoom: s.zoom}
}
