package asset

import "sync"

// EventKind is the kind of change an asset went through.
type EventKind int

const (
	EventAdded EventKind = iota
	EventModified
	EventRemoved
	EventUnused
	EventLoadedWithDependencies
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "Added"
	case EventModified:
		return "Modified"
	case EventRemoved:
		return "Removed"
	case EventUnused:
		return "Unused"
	case EventLoadedWithDependencies:
		return "LoadedWithDependencies"
	}
	return "Unknown"
}

// Event reports a change to one asset.
type Event struct {
	Kind EventKind
	ID   AssetID
}

// Invalidates reports whether GPU state derived from the asset is stale after the event.
func (e Event) Invalidates() bool {
	return e.Kind == EventModified || e.Kind == EventRemoved
}

// Events collects asset events from any goroutine and hands them out once per frame.
type Events struct {
	mu      *sync.Mutex
	pending []Event
	spare   []Event
}

// NewEvents creates an empty event queue.
func NewEvents() *Events {
	return &Events{mu: &sync.Mutex{}}
}

// Send queues an event for the next Flush.
func (e *Events) Send(kind EventKind, id AssetID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, Event{Kind: kind, ID: id})
}

// Flush returns the events sent since the previous Flush, in send order. The returned slice is valid
// until the next Flush.
func (e *Events) Flush() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.pending
	e.pending = e.spare[:0]
	e.spare = out
	return out
}
