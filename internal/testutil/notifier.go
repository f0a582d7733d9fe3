package testutil

import "sync"

// Notification captures one NotifyChanged/NotifyDeleted call.
type Notification struct {
	Collection string
	ID         string
	Deleted    bool
}

// RecordingNotifier is a syncq.Notifier that records every notification
// for assertions. Safe for concurrent use.
type RecordingNotifier struct {
	mu    sync.Mutex
	calls []Notification
}

func (n *RecordingNotifier) NotifyChanged(collection, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, Notification{Collection: collection, ID: id})
}

func (n *RecordingNotifier) NotifyDeleted(collection, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, Notification{Collection: collection, ID: id, Deleted: true})
}

// Calls returns a copy of all recorded notifications in call order.
func (n *RecordingNotifier) Calls() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.calls...)
}

// Reset discards recorded notifications.
func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = nil
}
