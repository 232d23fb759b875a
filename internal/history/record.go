package history

import (
	"fmt"
	"time"
)

// Record captures one reversible field change. It is immutable.
type Record struct {
	owner     Target
	field     FieldID
	label     string
	oldValue  any
	newValue  any
	timestamp time.Time
}

// NewRecord creates a record for a typed field.
func NewRecord(owner Target, field FieldID, oldValue, newValue any) *Record {
	return &Record{
		owner:     owner,
		field:     field,
		label:     field.String(),
		oldValue:  oldValue,
		newValue:  newValue,
		timestamp: time.Now(),
	}
}

// NewLabeledRecord creates a record from a free-form label.
// Labels that name no known field resolve to FieldUnknown; the raw label
// is kept for display.
func NewLabeledRecord(owner Target, label string, oldValue, newValue any) *Record {
	return &Record{
		owner:     owner,
		field:     ParseFieldID(label),
		label:     label,
		oldValue:  oldValue,
		newValue:  newValue,
		timestamp: time.Now(),
	}
}

// Owner returns the target the record is applied to.
func (r *Record) Owner() Target { return r.owner }

// Field returns the field identifier.
func (r *Record) Field() FieldID { return r.field }

// Label returns the label the record was created with.
func (r *Record) Label() string { return r.label }

// OldValue returns the value before the change.
func (r *Record) OldValue() any { return r.oldValue }

// NewValue returns the value after the change.
func (r *Record) NewValue() any { return r.newValue }

// Timestamp returns when the record was created.
func (r *Record) Timestamp() time.Time { return r.timestamp }

// Apply hands the record to its owner in the given direction.
func (r *Record) Apply(dir Direction) error {
	switch dir {
	case Undo:
		return r.owner.UndoAction(r)
	case Redo:
		return r.owner.RedoAction(r)
	default:
		return fmt.Errorf("apply %s: %w", r.label, ErrInvalidDirection)
	}
}

// Description returns a human-readable description.
func (r *Record) Description() string {
	return fmt.Sprintf("Change %s from %v to %v", r.label, r.oldValue, r.newValue)
}

// String implements fmt.Stringer.
func (r *Record) String() string {
	return r.Description()
}
