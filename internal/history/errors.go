package history

import (
	"errors"
	"fmt"
)

// Errors returned by history operations.
var (
	// ErrNilRecord indicates Record was called without a record.
	ErrNilRecord = errors.New("nil history record")

	// ErrNilOwner indicates a record has no target to apply it to.
	ErrNilOwner = errors.New("history record has no owner")

	// ErrInvalidDirection indicates a direction other than Undo or Redo.
	ErrInvalidDirection = errors.New("invalid apply direction")

	// ErrStaleCheckpoint indicates a checkpoint taken before the history
	// was last cleared.
	ErrStaleCheckpoint = errors.New("checkpoint predates history clear")
)

// ApplyError reports a target that failed to apply a record.
type ApplyError struct {
	Direction Direction
	Field     FieldID
	Label     string
	Err       error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Direction, e.Label, e.Err)
}

// Unwrap returns the target's error.
func (e *ApplyError) Unwrap() error {
	return e.Err
}
