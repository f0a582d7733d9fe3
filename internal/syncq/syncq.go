// Package syncq provides fire-and-forget change notifications for the
// background sync process.
//
// Ledger and economy mutations enqueue "this record changed" markers and
// return immediately; delivery is best effort. A flush failure is never
// surfaced to the mutating caller - eventual background delivery is
// assumed, not guaranteed.
package syncq

import "sync"

// Notifier receives change notifications from the ledger and economy.
//
// Implementations must never block and must be safe to call when the sync
// backend is unavailable.
type Notifier interface {
	NotifyChanged(collection, id string)
	NotifyDeleted(collection, id string)
}

// Nop is a Notifier that discards all notifications.
// Used when sync is disabled and as the default in tests.
type Nop struct{}

func (Nop) NotifyChanged(collection, id string) {}
func (Nop) NotifyDeleted(collection, id string) {}

// Change identifies one mutated record awaiting flush.
type Change struct {
	Collection string
	ID         string
	Deleted    bool
}

// Flusher delivers a single change to the sync backend.
type Flusher interface {
	Flush(change Change) error
}

// Queue is an unbounded FIFO Notifier that drains to a Flusher on a
// background goroutine.
//
// The queue is unbounded so that a burst of ledger mutations never blocks
// on network-paced flushing. Thread-safety is provided for enqueuing from
// any goroutine while the drain loop dequeues.
//
// The queue uses a channel for signaling to let the drain loop sleep
// without polling (buffered, size 1 - multiple signals coalesce).
type Queue struct {
	mu      sync.Mutex
	changes []Change
	closed  bool

	signal  chan struct{}
	drained chan struct{}
	flusher Flusher
}

// NewQueue creates a queue draining to flusher and starts its drain loop.
func NewQueue(flusher Flusher) *Queue {
	q := &Queue{
		changes: make([]Change, 0, 16),
		signal:  make(chan struct{}, 1),
		drained: make(chan struct{}),
		flusher: flusher,
	}
	go q.run()
	return q
}

// NotifyChanged enqueues a changed-record marker. Never blocks.
// Calls after Close are silently dropped.
func (q *Queue) NotifyChanged(collection, id string) {
	q.enqueue(Change{Collection: collection, ID: id})
}

// NotifyDeleted enqueues a deleted-record marker. Never blocks.
func (q *Queue) NotifyDeleted(collection, id string) {
	q.enqueue(Change{Collection: collection, ID: id, Deleted: true})
}

func (q *Queue) enqueue(c Change) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.changes = append(q.changes, c)

	// Signal availability (non-blocking - buffer of 1 coalesces signals)
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Close stops accepting notifications, drains what was already enqueued,
// and waits for the drain loop to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.drained
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}

	<-q.drained
}

// run is the drain loop: dequeue a batch, flush each change, repeat.
// Flush errors are discarded at this boundary per the fire-and-forget
// contract.
func (q *Queue) run() {
	for {
		q.mu.Lock()
		if len(q.changes) == 0 {
			if q.closed {
				q.mu.Unlock()
				close(q.drained)
				return
			}
			q.mu.Unlock()
			<-q.signal
			continue
		}
		batch := q.changes
		q.changes = nil
		q.mu.Unlock()

		for _, c := range batch {
			_ = q.flusher.Flush(c)
		}
	}
}
