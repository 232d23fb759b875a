package session

import "errors"

// ErrNoPath indicates Save was called for a document that has no file yet.
var ErrNoPath = errors.New("no document path")
