//go:build opencv

package safe

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// Mat owns a gocv.Mat. Accessors return zero values once it is closed, and
// Close may be called any number of times.
type Mat struct {
	mat     gocv.Mat
	isValid int32
	mu      sync.RWMutex
}

// NewMatFromMat takes ownership of srcMat. The caller must not close it.
func NewMatFromMat(srcMat gocv.Mat) (*Mat, error) {
	if srcMat.Empty() {
		srcMat.Close()
		return nil, fmt.Errorf("source Mat is empty")
	}

	m := &Mat{mat: srcMat, isValid: 1}
	runtime.SetFinalizer(m, (*Mat).Close)
	return m, nil
}

func (sm *Mat) IsValid() bool {
	return atomic.LoadInt32(&sm.isValid) == 1
}

// read runs fn on the wrapped Mat under the read lock, or returns closed
// when the Mat has been released.
func read[T any](sm *Mat, closed T, fn func(*gocv.Mat) T) T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return closed
	}
	return fn(&sm.mat)
}

func (sm *Mat) Empty() bool {
	return read(sm, true, (*gocv.Mat).Empty)
}

func (sm *Mat) Rows() int {
	return read(sm, 0, (*gocv.Mat).Rows)
}

func (sm *Mat) Cols() int {
	return read(sm, 0, (*gocv.Mat).Cols)
}

func (sm *Mat) Channels() int {
	return read(sm, 0, (*gocv.Mat).Channels)
}

// Type returns the element type; -1 once closed.
func (sm *Mat) Type() gocv.MatType {
	return read(sm, gocv.MatType(-1), (*gocv.Mat).Type)
}

// GetUCharAt3 reads one 8-bit channel value with bounds checking.
func (sm *Mat) GetUCharAt3(row, col, channel int) (uint8, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0, fmt.Errorf("Mat is closed")
	}
	if row < 0 || row >= sm.mat.Rows() || col < 0 || col >= sm.mat.Cols() {
		return 0, fmt.Errorf("coordinates out of bounds: (%d,%d) for size %dx%d",
			col, row, sm.mat.Cols(), sm.mat.Rows())
	}
	if channel < 0 || channel >= sm.mat.Channels() {
		return 0, fmt.Errorf("channel out of bounds: %d for %d channels", channel, sm.mat.Channels())
	}
	return sm.mat.GetUCharAt3(row, col, channel), nil
}

func (sm *Mat) GetMat() gocv.Mat {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.mat
}

func (sm *Mat) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if atomic.CompareAndSwapInt32(&sm.isValid, 1, 0) {
		sm.mat.Close()
		runtime.SetFinalizer(sm, nil)
	}
}
