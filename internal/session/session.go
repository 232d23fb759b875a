// Package session ties one editing session together.
//
// A Session owns the history manager, the populate tracker, the field
// change notifier and the style form, and exposes the lifecycle hooks the
// surrounding application drives: opening and saving documents, undo and
// redo, and resets.
//
// A Session is not safe for concurrent use. Work produced on other
// goroutines must be handed to the editing goroutine first.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/dshills/stylehistory/internal/config"
	"github.com/dshills/stylehistory/internal/guard"
	"github.com/dshills/stylehistory/internal/history"
	"github.com/dshills/stylehistory/internal/notify"
	"github.com/dshills/stylehistory/internal/style"
)

// Session is one style editing session.
type Session struct {
	id     string
	logger *slog.Logger

	history  *history.Manager
	tracker  *guard.Tracker
	notifier *notify.Notifier
	form     *style.Form

	// path is the file the document was last opened from or saved to.
	path string
}

// Option configures a Session.
type Option func(*options)

type options struct {
	logger *slog.Logger
	doc    *style.Document
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDocument sets the initial document.
func WithDocument(doc *style.Document) Option {
	return func(o *options) {
		o.doc = doc
	}
}

// New creates a session configured by cfg. A nil cfg uses config.Default.
func New(cfg *config.Config, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New().String()
	logger := o.logger.With("session", id)

	s := &Session{
		id:       id,
		logger:   logger,
		tracker:  guard.New(),
		notifier: notify.New(),
	}
	s.history = history.New(
		history.WithGuard(s.tracker),
		history.WithMaxEntries(cfg.History.MaxEntries),
		history.WithLogger(logger),
	)
	s.form = style.NewForm(s.history, s.tracker, s.notifier,
		style.WithDocument(o.doc),
		style.WithFormLogger(logger),
	)

	logger.Info("session started", "maxEntries", cfg.History.MaxEntries)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// History returns the session's history manager.
func (s *Session) History() *history.Manager { return s.history }

// Tracker returns the session's populate tracker.
func (s *Session) Tracker() *guard.Tracker { return s.tracker }

// Notifier returns the field change notifier.
func (s *Session) Notifier() *notify.Notifier { return s.notifier }

// Form returns the style form.
func (s *Session) Form() *style.Form { return s.form }

// Path returns the current document path, if any.
func (s *Session) Path() string { return s.path }

// Set edits a field by label.
func (s *Session) Set(label string, value any) error {
	return s.form.SetLabeled(label, value)
}

// SetText edits a known field from user-entered text, or a vendor option
// when the label names no known field.
func (s *Session) SetText(label, text string) error {
	field := history.ParseFieldID(label)
	if !field.Known() {
		return s.form.SetLabeled(label, text)
	}
	v, err := style.ParseValue(field, text)
	if err != nil {
		return err
	}
	return s.form.Set(field, v)
}

// Get returns a field or vendor option by label.
func (s *Session) Get(label string) (any, bool) {
	return s.form.GetLabeled(label)
}

// Undo reverts the most recent applied edit.
func (s *Session) Undo() (bool, error) {
	ok, err := s.history.Undo()
	if err != nil {
		s.logger.Warn("undo failed", "error", err)
	}
	return ok, err
}

// Redo reapplies the most recently undone edit.
func (s *Session) Redo() (bool, error) {
	ok, err := s.history.Redo()
	if err != nil {
		s.logger.Warn("redo failed", "error", err)
	}
	return ok, err
}

// Open loads a document file into the form and clears the history.
func (s *Session) Open(path string) error {
	doc, err := style.LoadFile(path)
	if err != nil {
		return err
	}
	if err := s.form.Populate(doc); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	s.path = path
	s.history.FileLoaded()
	s.logger.Info("document opened", "path", path)
	return nil
}

// Save writes the document to path and clears the history. An empty path
// saves to the path the document came from.
func (s *Session) Save(path string) error {
	if path == "" {
		path = s.path
	}
	if path == "" {
		return ErrNoPath
	}
	if err := style.SaveFile(path, s.form.Document()); err != nil {
		return err
	}
	s.path = path
	s.history.FileSaved()
	s.logger.Info("document saved", "path", path)
	return nil
}

// AddObserver registers a history observer.
func (s *Session) AddObserver(o history.Observer) *history.Subscription {
	return s.history.AddObserver(o)
}

// ApplyConfig applies settings that can change while running.
func (s *Session) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.history.SetMaxEntries(cfg.History.MaxEntries)
	s.logger.Info("config applied", "maxEntries", cfg.History.MaxEntries)
}

// Reset discards the history, its observers and the document, and
// reinstalls the session's guard.
func (s *Session) Reset() error {
	s.history.Reset()
	s.history.SetGuard(s.tracker)
	s.path = ""
	if err := s.form.Populate(style.NewDocument()); err != nil {
		return err
	}
	s.logger.Info("session reset")
	return nil
}

// Close releases the session.
func (s *Session) Close() {
	s.notifier.Close()
	s.logger.Info("session closed")
}
