// Package guard tracks when the UI is being repopulated programmatically.
//
// Field owners wrap every write that is not a user edit (loading a file,
// applying an undo or redo, re-syncing a widget) in a Tracker scope. The
// history manager consults the tracker and drops records produced inside
// such a scope.
package guard

// Tracker counts nested populate scopes. The zero value is ready to use.
//
// Tracker is not safe for concurrent use; like the history it serves, it
// belongs to the editing goroutine.
type Tracker struct {
	depth int
}

// New creates a tracker.
func New() *Tracker {
	return &Tracker{}
}

// Active reports whether any populate scope is open.
func (t *Tracker) Active() bool {
	return t.depth > 0
}

// Depth returns the number of open scopes.
func (t *Tracker) Depth() int {
	return t.depth
}

// Begin opens a populate scope and returns the function that closes it.
// The returned function is idempotent.
//
//	end := tracker.Begin()
//	defer end()
func (t *Tracker) Begin() (end func()) {
	t.depth++
	closed := false
	return func() {
		if closed {
			return
		}
		closed = true
		t.depth--
	}
}

// Run calls fn inside a populate scope. The scope is closed even if fn
// panics.
func (t *Tracker) Run(fn func() error) error {
	end := t.Begin()
	defer end()
	return fn()
}
