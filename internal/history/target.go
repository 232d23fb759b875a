package history

// Target is implemented by whatever owns an editable field.
//
// UndoAction must restore the field to r.OldValue() and RedoAction to
// r.NewValue(). Any state sync performed while doing so should run while the
// manager's Guard is active so it is not recorded again.
type Target interface {
	UndoAction(r *Record) error
	RedoAction(r *Record) error
}

// Observer is told whether undo and redo are currently possible.
type Observer interface {
	HistoryStateChanged(undoAllowed, redoAllowed bool)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(undoAllowed, redoAllowed bool)

// HistoryStateChanged calls f.
func (f ObserverFunc) HistoryStateChanged(undoAllowed, redoAllowed bool) {
	f(undoAllowed, redoAllowed)
}

// Guard reports whether the UI is being repopulated programmatically.
// Record is suppressed while Active returns true.
type Guard interface {
	Active() bool
}

// GuardFunc adapts a function to the Guard interface.
type GuardFunc func() bool

// Active calls f.
func (f GuardFunc) Active() bool {
	return f()
}
