package history

// Checkpoint represents a point in history that can be returned to.
//
// The position counts records ever appended since the history was last
// cleared, so it stays valid when old records are evicted by the size cap.
// Clearing the history starts a new generation and invalidates every
// earlier checkpoint.
type Checkpoint struct {
	generation uint64
	position   int
}

// Checkpoint captures the current history position.
func (m *Manager) Checkpoint() Checkpoint {
	return Checkpoint{generation: m.generation, position: m.evicted + m.pointer}
}

// target converts cp to an index into the current history, clamped to
// [0, Len].
func (m *Manager) target(cp Checkpoint) (int, error) {
	if cp.generation != m.generation {
		return 0, ErrStaleCheckpoint
	}
	idx := cp.position - m.evicted
	if idx < 0 {
		idx = 0
	}
	if idx > len(m.history) {
		idx = len(m.history)
	}
	return idx, nil
}

// UndoTo undoes records until the pointer is back at cp. If the records
// between cp and the pointer were partly evicted, it stops at the oldest
// record still held. Each step notifies observers like a single Undo.
func (m *Manager) UndoTo(cp Checkpoint) error {
	idx, err := m.target(cp)
	if err != nil {
		return err
	}
	for m.pointer > idx {
		if _, err := m.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoTo redoes records until the pointer reaches cp or the end of the
// history. Records discarded by truncation since cp was taken cannot be
// redone.
func (m *Manager) RedoTo(cp Checkpoint) error {
	idx, err := m.target(cp)
	if err != nil {
		return err
	}
	for m.pointer < idx {
		if _, err := m.Redo(); err != nil {
			return err
		}
	}
	return nil
}
