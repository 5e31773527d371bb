package shutdown

import (
	"sync"
	"testing"
	"time"

	"liteviewer/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRunsInReverseOrder(t *testing.T) {
	m := NewManager(logger.NewNop(), time.Second)

	var mu sync.Mutex
	var order []string
	record := func(name string) Func {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}

	m.Register("state", record("state"))
	m.Register("renderer", record("renderer"))
	m.Register("controller", record("controller"))

	completed := false
	m.OnComplete(func() { completed = true })

	m.Shutdown()

	assert.Equal(t, []string{"controller", "renderer", "state"}, order)
	assert.True(t, completed)
	assert.Error(t, m.Context().Err())

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	m := NewManager(logger.NewNop(), time.Second)

	calls := 0
	m.Register("counter", Func(func() { calls++ }))

	m.Shutdown()
	m.Shutdown()
	assert.Equal(t, 1, calls)
}

func TestShutdownTimesOutSlowComponent(t *testing.T) {
	m := NewManager(logger.NewNop(), 20*time.Millisecond)

	block := make(chan struct{})
	defer close(block)
	m.Register("stuck", Func(func() { <-block }))

	reached := false
	m.Register("fast", Func(func() { reached = true }))

	start := time.Now()
	m.Shutdown()

	assert.True(t, reached)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewManagerDefaultTimeout(t *testing.T) {
	m := NewManager(logger.NewNop(), 0)
	assert.Equal(t, DefaultTimeout, m.timeout)
}

func TestListenStopsAfterShutdown(t *testing.T) {
	m := NewManager(logger.NewNop(), time.Second)
	m.Listen()
	m.Listen()
	m.Shutdown()
	<-m.Done()
}
