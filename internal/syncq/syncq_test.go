package syncq

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingFlusher captures flushed changes for assertions.
type recordingFlusher struct {
	mu      sync.Mutex
	flushed []Change
	err     error
}

func (f *recordingFlusher) Flush(c Change) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed = append(f.flushed, c)
	return f.err
}

func (f *recordingFlusher) all() []Change {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Change(nil), f.flushed...)
}

func TestQueue_DeliversInOrder(t *testing.T) {
	f := &recordingFlusher{}
	q := NewQueue(f)

	q.NotifyChanged("daily_logs", "2025-01-01")
	q.NotifyChanged("economy", "state")
	q.NotifyDeleted("daily_logs", "2025-01-02")
	q.Close()

	assert.Equal(t, []Change{
		{Collection: "daily_logs", ID: "2025-01-01"},
		{Collection: "economy", ID: "state"},
		{Collection: "daily_logs", ID: "2025-01-02", Deleted: true},
	}, f.all())
}

func TestQueue_FlushErrorsAreSwallowed(t *testing.T) {
	f := &recordingFlusher{err: errors.New("backend unavailable")}
	q := NewQueue(f)

	// Must not panic, block, or surface the error anywhere.
	q.NotifyChanged("daily_logs", "2025-01-01")
	q.NotifyChanged("daily_logs", "2025-01-02")
	q.Close()

	assert.Len(t, f.all(), 2)
}

func TestQueue_EnqueueAfterCloseIsDropped(t *testing.T) {
	f := &recordingFlusher{}
	q := NewQueue(f)
	q.Close()

	q.NotifyChanged("daily_logs", "2025-01-01")
	q.NotifyDeleted("daily_logs", "2025-01-01")

	assert.Empty(t, f.all())
}

func TestQueue_CloseIsIdempotent(t *testing.T) {
	q := NewQueue(&recordingFlusher{})
	q.Close()
	q.Close()
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	f := &recordingFlusher{}
	q := NewQueue(f)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				q.NotifyChanged("daily_logs", "2025-01-01")
			}
		}()
	}
	wg.Wait()
	q.Close()

	assert.Len(t, f.all(), 200)
}

func TestNop_IsSafe(t *testing.T) {
	var n Notifier = Nop{}
	n.NotifyChanged("daily_logs", "2025-01-01")
	n.NotifyDeleted("daily_logs", "2025-01-01")
}
