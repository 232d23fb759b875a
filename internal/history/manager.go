package history

import (
	"io"
	"log/slog"
	"math"
)

// Manager owns the edit history of one editing session.
type Manager struct {
	history []*Record
	pointer int

	observers []observerEntry
	nextID    uint64

	guard Guard

	// evicted counts records dropped from the front by the size cap since
	// the last clear; generation counts clears. Checkpoints use both.
	evicted    int
	generation uint64

	// Configuration
	maxEntries int
	logger     *slog.Logger
}

type observerEntry struct {
	id       uint64
	observer Observer
}

// New creates an empty history manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record appends r to the history.
//
// While the guard is active the call does nothing. Otherwise every record
// at or after the pointer is discarded, r is appended and the pointer moves
// to the end.
func (m *Manager) Record(r *Record) error {
	if r == nil {
		return ErrNilRecord
	}
	if r.owner == nil {
		return ErrNilOwner
	}

	if m.guard != nil && m.guard.Active() {
		m.logger.Debug("history record suppressed", "field", r.label)
		return nil
	}

	// Drop the abandoned redo tail. Clearing the slots lets discarded
	// records and their owners be collected.
	for i := m.pointer; i < len(m.history); i++ {
		m.history[i] = nil
	}
	m.history = append(m.history[:m.pointer], r)
	m.pointer = len(m.history)

	m.evictOldest()

	m.logger.Debug("history record", "field", r.label, "pointer", m.pointer)
	m.notify()
	return nil
}

// RecordChange builds a record for a typed field and appends it.
func (m *Manager) RecordChange(owner Target, field FieldID, oldValue, newValue any) error {
	if owner == nil {
		return ErrNilOwner
	}
	return m.Record(NewRecord(owner, field, oldValue, newValue))
}

// RecordLabeled builds a record from a free-form label and appends it.
func (m *Manager) RecordLabeled(owner Target, label string, oldValue, newValue any) error {
	if owner == nil {
		return ErrNilOwner
	}
	return m.Record(NewLabeledRecord(owner, label, oldValue, newValue))
}

// Undo moves the pointer back one record and asks its owner to restore the
// old value. It reports false when there is nothing to undo.
//
// If the owner fails, the error is returned as an *ApplyError and the
// pointer is left where it moved to. Observers are still told the new
// availability.
func (m *Manager) Undo() (bool, error) {
	if m.pointer == 0 {
		return false, nil
	}

	m.pointer--
	r := m.history[m.pointer]
	if err := r.Apply(Undo); err != nil {
		m.logger.Debug("history undo failed", "field", r.label, "pointer", m.pointer)
		m.notify()
		return false, &ApplyError{Direction: Undo, Field: r.field, Label: r.label, Err: err}
	}

	m.logger.Debug("history undo", "field", r.label, "pointer", m.pointer)
	m.notify()
	return true, nil
}

// Redo asks the owner of the record at the pointer to restore the new value
// and moves the pointer forward. It reports false when there is nothing to
// redo.
//
// If the owner fails, the error is returned as an *ApplyError and the
// pointer does not move.
func (m *Manager) Redo() (bool, error) {
	if m.pointer == len(m.history) {
		return false, nil
	}

	r := m.history[m.pointer]
	if err := r.Apply(Redo); err != nil {
		return false, &ApplyError{Direction: Redo, Field: r.field, Label: r.label, Err: err}
	}
	m.pointer++

	m.logger.Debug("history redo", "field", r.label, "pointer", m.pointer)
	m.notify()
	return true, nil
}

// FileSaved clears the history after the document was written.
func (m *Manager) FileSaved() {
	m.clear()
	m.logger.Debug("history cleared", "reason", "saved")
	m.notify()
}

// FileLoaded clears the history after a document was read.
func (m *Manager) FileLoaded() {
	m.clear()
	m.logger.Debug("history cleared", "reason", "loaded")
	m.notify()
}

// Reset returns the manager to the state New leaves it in: no records,
// no observers and no guard. Nobody is notified.
func (m *Manager) Reset() {
	m.clear()
	m.observers = nil
	m.guard = nil
}

// SetGuard installs g as the reentrancy guard. A nil g removes it.
func (m *Manager) SetGuard(g Guard) {
	m.guard = g
}

// Guard returns the installed reentrancy guard, if any.
func (m *Manager) Guard() Guard {
	return m.guard
}

// Subscription represents a registered observer.
type Subscription struct {
	id      uint64
	manager *Manager
}

// Unsubscribe removes the observer. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.manager == nil {
		return
	}
	s.manager.removeObserver(s.id)
	s.manager = nil
}

// AddObserver registers o. Observers are called synchronously in
// registration order.
func (m *Manager) AddObserver(o Observer) *Subscription {
	if o == nil {
		return &Subscription{}
	}
	return &Subscription{id: m.addObserver(o), manager: m}
}

func (m *Manager) addObserver(o Observer) uint64 {
	id := m.nextID
	m.nextID++
	m.observers = append(m.observers, observerEntry{id: id, observer: o})
	return id
}

func (m *Manager) removeObserver(id uint64) {
	for i, e := range m.observers {
		if e.id == id {
			m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
			return
		}
	}
}

// CanUndo returns true if undo is available.
func (m *Manager) CanUndo() bool {
	return m.pointer > 0
}

// CanRedo returns true if redo is available.
func (m *Manager) CanRedo() bool {
	return m.pointer < len(m.history)
}

// Len returns the number of records in the history.
func (m *Manager) Len() int {
	return len(m.history)
}

// Pointer returns the number of records currently applied.
func (m *Manager) Pointer() int {
	return m.pointer
}

// Entries returns a copy of the history in order.
func (m *Manager) Entries() []*Record {
	out := make([]*Record, len(m.history))
	copy(out, m.history)
	return out
}

// PeekUndo returns the record the next Undo would revert.
func (m *Manager) PeekUndo() (*Record, bool) {
	if m.pointer == 0 {
		return nil, false
	}
	return m.history[m.pointer-1], true
}

// PeekRedo returns the record the next Redo would reapply.
func (m *Manager) PeekRedo() (*Record, bool) {
	if m.pointer == len(m.history) {
		return nil, false
	}
	return m.history[m.pointer], true
}

// MaxEntries returns the history cap, or zero when unbounded.
func (m *Manager) MaxEntries() int {
	return m.maxEntries
}

// SetMaxEntries changes the history cap. Zero or a negative value removes it.
//
// If the history is larger than the new cap, applied records are dropped
// oldest first and then the redo tail is shortened from its far end.
func (m *Manager) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}
	m.maxEntries = max
	if max == 0 || len(m.history) <= max {
		return
	}

	m.evictOldest()
	if len(m.history) > max {
		for i := max; i < len(m.history); i++ {
			m.history[i] = nil
		}
		m.history = m.history[:max]
	}
	m.notify()
}

// evictOldest drops applied records from the front while over the cap.
func (m *Manager) evictOldest() {
	if m.maxEntries == 0 || len(m.history) <= m.maxEntries {
		return
	}
	excess := len(m.history) - m.maxEntries
	if excess > m.pointer {
		excess = m.pointer
	}
	if excess == 0 {
		return
	}
	for i := 0; i < excess; i++ {
		m.history[i] = nil
	}
	m.history = m.history[excess:]
	m.pointer -= excess
	m.evicted += excess
	m.logger.Debug("history evicted", "count", excess)
}

func (m *Manager) clear() {
	m.history = nil
	m.pointer = 0
	m.evicted = 0
	m.generation++
}

// notify reports the current availability to every observer.
func (m *Manager) notify() {
	undoAllowed, redoAllowed := m.CanUndo(), m.CanRedo()

	// Observers may subscribe or unsubscribe while being notified.
	observers := make([]observerEntry, len(m.observers))
	copy(observers, m.observers)
	for _, e := range observers {
		e.observer.HistoryStateChanged(undoAllowed, redoAllowed)
	}
}
