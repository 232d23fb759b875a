// Package history provides undo/redo for edits made to a style document.
//
// The history is an ordered list of records and a pointer. Entries left of
// the pointer are applied; entries at or right of it can be redone. Key
// concepts:
//
// # Records
//
// A Record captures one field change:
//   - The Target that owns the field
//   - The FieldID of the field (FieldUnknown for untyped labels)
//   - The old and new values
//
// Records never change after construction. Applying a record hands it back
// to its owner, which restores the old value (Undo) or the new value (Redo).
//
// # Manager
//
// The Manager owns the history and pointer:
//
//	m := history.New(history.WithGuard(tracker))
//
//	// A field owner reports a change
//	m.RecordChange(form, history.FieldTitle, "old", "new")
//
//	// Undo/redo
//	m.Undo()
//	m.Redo()
//
// Recording while the pointer is behind the tail discards the redo tail.
// There is no tree history.
//
// # Reentrancy
//
// Owners usually re-sync displayed values when a record is applied or a file
// is loaded. Those writes must not become history entries, so Record is a
// no-op while the installed Guard reports Active. Undo and Redo ignore the
// guard.
//
// # Observers
//
// Observers are told whether undo and redo are possible after every
// operation that changes that answer, in registration order.
//
// A Manager is not safe for concurrent use. All calls are expected to come
// from the editing goroutine.
package history
