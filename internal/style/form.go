package style

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/dshills/stylehistory/internal/guard"
	"github.com/dshills/stylehistory/internal/history"
	"github.com/dshills/stylehistory/internal/notify"
)

// Change sources reported to notify observers.
const (
	SourceEdit = "edit"
	SourceUndo = "undo"
	SourceRedo = "redo"
	SourceLoad = "load"
)

// Form owns a style document's editable fields.
type Form struct {
	doc      *Document
	history  *history.Manager
	tracker  *guard.Tracker
	notifier *notify.Notifier
	logger   *slog.Logger
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithDocument sets the initial document. The form keeps its own copy.
func WithDocument(doc *Document) FormOption {
	return func(f *Form) {
		if doc != nil {
			f.doc = doc.Clone()
		}
	}
}

// WithFormLogger sets the form's logger.
func WithFormLogger(logger *slog.Logger) FormOption {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewForm creates a form that records edits in m and shields programmatic
// writes with tr. Changes are published on n.
func NewForm(m *history.Manager, tr *guard.Tracker, n *notify.Notifier, opts ...FormOption) *Form {
	f := &Form{
		doc:      NewDocument(),
		history:  m,
		tracker:  tr,
		notifier: n,
		logger:   slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Document returns a copy of the current document.
func (f *Form) Document() *Document {
	return f.doc.Clone()
}

// Get returns the current value of a field.
func (f *Form) Get(field history.FieldID) (any, error) {
	return f.doc.Get(field)
}

// Set applies a user edit to a field and records it.
// Setting a field to its current value does nothing.
func (f *Form) Set(field history.FieldID, value any) error {
	old, err := f.doc.Get(field)
	if err != nil {
		return err
	}
	v, err := Normalize(field, value)
	if err != nil {
		return err
	}
	if v == old {
		return nil
	}

	if err := f.doc.Set(field, v); err != nil {
		return err
	}
	if err := f.history.RecordChange(f, field, old, v); err != nil {
		return fmt.Errorf("record %s: %w", field, err)
	}

	f.logger.Debug("field edited", "field", field.String(), "old", old, "new", v)
	f.notifier.NotifyChange(notify.ChangeEdit, field.String(), old, v, SourceEdit)
	return nil
}

// SetLabeled applies a user edit addressed by a free-form label. Labels
// that name a known field behave like Set; any other label edits the vendor
// option of that name. A nil value removes the option.
func (f *Form) SetLabeled(label string, value any) error {
	if field := history.ParseFieldID(label); field.Known() {
		return f.Set(field, value)
	}

	if _, ok := value.(string); value != nil && !ok {
		return fmt.Errorf("option %s wants string, got %T: %w", label, value, ErrValueKind)
	}

	var old any
	if v, ok := f.doc.Option(label); ok {
		old = v
	}
	if old == value {
		return nil
	}

	if err := f.doc.SetOption(label, value); err != nil {
		return err
	}
	if err := f.history.RecordLabeled(f, label, old, value); err != nil {
		return fmt.Errorf("record %s: %w", label, err)
	}

	f.logger.Debug("option edited", "option", label, "old", old, "new", value)
	f.notifier.NotifyChange(notify.ChangeEdit, label, old, value, SourceEdit)
	return nil
}

// GetLabeled returns a field or vendor option by label.
func (f *Form) GetLabeled(label string) (any, bool) {
	if field := history.ParseFieldID(label); field.Known() {
		v, err := f.doc.Get(field)
		return v, err == nil
	}
	v, ok := f.doc.Option(label)
	if !ok {
		return nil, false
	}
	return v, true
}

// UndoAction restores the record's old value.
func (f *Form) UndoAction(r *history.Record) error {
	return f.restore(r, r.OldValue(), notify.ChangeUndo, SourceUndo)
}

// RedoAction restores the record's new value.
func (f *Form) RedoAction(r *history.Record) error {
	return f.restore(r, r.NewValue(), notify.ChangeRedo, SourceRedo)
}

// restore writes value back to the record's field. Observers are notified
// inside the guard scope so their re-sync writes are not recorded.
func (f *Form) restore(r *history.Record, value any, typ notify.ChangeType, source string) error {
	return f.tracker.Run(func() error {
		var current any
		if r.Field().Known() {
			v, err := f.doc.Get(r.Field())
			if err != nil {
				return err
			}
			current = v
			if err := f.doc.Set(r.Field(), value); err != nil {
				return err
			}
		} else {
			if v, ok := f.doc.Option(r.Label()); ok {
				current = v
			}
			if err := f.doc.SetOption(r.Label(), value); err != nil {
				return err
			}
		}

		f.logger.Debug("field restored", "field", r.Label(), "direction", source, "value", value)
		f.notifier.NotifyChange(typ, r.Label(), current, value, source)
		return nil
	})
}

// Populate replaces the whole document without recording history.
// It does not clear the history; callers pair it with FileLoaded.
func (f *Form) Populate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("populate: nil document")
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("populate: %w", err)
	}

	return f.tracker.Run(func() error {
		f.doc = doc.Clone()
		f.logger.Debug("form populated", "name", doc.Name)
		f.notifier.NotifyLoad(SourceLoad)
		return nil
	})
}
