// Package notify provides change notification for style field updates.
//
// The notify package implements an observer pattern that lets UI components
// subscribe to field changes and receive callbacks when values are modified,
// whether by the user, by undo/redo, or by loading a document.
package notify

import (
	"sync"
)

// ChangeType represents what caused a field change.
type ChangeType int

const (
	// ChangeEdit indicates a user edit.
	ChangeEdit ChangeType = iota

	// ChangeUndo indicates a value restored by undo.
	ChangeUndo

	// ChangeRedo indicates a value restored by redo.
	ChangeRedo

	// ChangeLoad indicates the whole document was repopulated.
	ChangeLoad
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeEdit:
		return "edit"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	case ChangeLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Change represents a field change event.
type Change struct {
	// Path is the field label. Empty for load events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (may be nil).
	OldValue any

	// NewValue is the new value.
	NewValue any

	// Source identifies where the change came from.
	Source string
}

// Observer is called when a field changes.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

type entry struct {
	id       uint64
	path     string // empty for global observers
	observer Observer
}

// Notifier manages field change subscriptions. Observers are called
// synchronously, in subscription order, on the goroutine calling Notify.
type Notifier struct {
	mu      sync.RWMutex
	entries []entry
	nextID  uint64
	closed  bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.subscribe("", observer)
}

// SubscribePath registers an observer for changes to a single field.
// Load events are delivered to every observer.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	return n.subscribe(path, observer)
}

func (n *Notifier) subscribe(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries = append(n.entries, entry{id: id, path: path, observer: observer})

	return &Subscription{id: id, notifier: n}
}

// Notify sends a change notification to all relevant observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}

	var observers []Observer
	for _, e := range n.entries {
		if e.path == "" || change.Path == "" || e.path == change.Path {
			observers = append(observers, e.observer)
		}
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

// NotifyChange is a convenience method for single-field changes.
func (n *Notifier) NotifyChange(typ ChangeType, path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     typ,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyLoad is a convenience method for load events.
func (n *Notifier) NotifyLoad(source string) {
	n.Notify(Change{
		Type:   ChangeLoad,
		Source: source,
	})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Close stops delivery. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.entries = nil
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i:i], n.entries[i+1:]...)
			return
		}
	}
}
