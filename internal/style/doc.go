// Package style holds the editable style document and the form that owns
// its fields.
//
// Form is the history.Target for every style field. User edits go through
// Form.Set, which records them with the session's history manager. Values
// written back by undo, redo or a document load run inside a guard scope so
// that listeners re-syncing widgets do not create new history entries.
package style
