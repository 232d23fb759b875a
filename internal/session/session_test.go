package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/stylehistory/internal/config"
	"github.com/dshills/stylehistory/internal/history"
	"github.com/dshills/stylehistory/internal/logging"
	"github.com/dshills/stylehistory/internal/notify"
	"github.com/dshills/stylehistory/internal/style"
)

// availability records the last observed undo/redo state.
type availability struct {
	undo, redo bool
	calls      int
}

func (a *availability) HistoryStateChanged(undoAllowed, redoAllowed bool) {
	a.undo, a.redo = undoAllowed, redoAllowed
	a.calls++
}

func TestNew(t *testing.T) {
	s := New(nil)
	defer s.Close()

	if s.ID() == "" {
		t.Error("session has no ID")
	}
	if s.History().Guard() == nil {
		t.Error("session should install its tracker as guard")
	}
	if s.History().MaxEntries() != 0 {
		t.Errorf("MaxEntries() = %d, want unbounded", s.History().MaxEntries())
	}

	other := New(nil)
	defer other.Close()
	if other.ID() == s.ID() {
		t.Error("sessions share an ID")
	}
}

func TestNew_Config(t *testing.T) {
	cfg := config.Default()
	cfg.History.MaxEntries = 2
	s := New(cfg)
	defer s.Close()

	for _, title := range []string{"a", "b", "c"} {
		if err := s.Set("title", title); err != nil {
			t.Fatal(err)
		}
	}
	if s.History().Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.History().Len())
	}
}

func TestSession_RecordUndoSequence(t *testing.T) {
	s := New(nil)
	defer s.Close()
	obs := &availability{}
	s.AddObserver(obs)

	widths := []string{"1.5", "2", "3", "4", "5"}
	for _, w := range widths {
		if err := s.SetText("stroke-width", w); err != nil {
			t.Fatalf("SetText(%s) failed: %v", w, err)
		}
		if !obs.undo || obs.redo {
			t.Errorf("after edit undo=%v redo=%v", obs.undo, obs.redo)
		}
	}
	if s.History().Pointer() != 5 {
		t.Fatalf("Pointer() = %d, want 5", s.History().Pointer())
	}

	for i := 0; i < 5; i++ {
		if ok, err := s.Undo(); !ok || err != nil {
			t.Fatalf("Undo %d = %v, %v", i, ok, err)
		}
	}
	if ok, _ := s.Undo(); ok {
		t.Error("sixth undo should be a no-op")
	}
	if v, _ := s.Get("stroke-width"); v != 1.0 {
		t.Errorf("stroke-width = %v, want default 1", v)
	}
	if obs.undo || !obs.redo {
		t.Errorf("at start undo=%v redo=%v", obs.undo, obs.redo)
	}
}

func TestSession_TruncateAfterUndo(t *testing.T) {
	s := New(nil)
	defer s.Close()

	for _, name := range []string{"e1", "e2", "e3", "e4", "e5"} {
		s.Set("name", name)
	}
	s.Undo()
	s.Undo()
	s.Set("title", "e6")

	entries := s.History().Entries()
	var got []string
	for _, r := range entries {
		got = append(got, r.NewValue().(string))
	}
	if strings.Join(got, ",") != "e1,e2,e3,e6" {
		t.Errorf("history = %v, want [e1 e2 e3 e6]", got)
	}
	if s.History().Pointer() != 4 {
		t.Errorf("Pointer() = %d, want 4", s.History().Pointer())
	}
	if ok, _ := s.Redo(); ok {
		t.Error("redo should be a no-op at the tail")
	}
	if v, _ := s.Get("name"); v != "e3" {
		t.Errorf("name = %v, want e3", v)
	}
}

func TestSession_GuardedRecordsDropped(t *testing.T) {
	s := New(nil)
	defer s.Close()

	s.Set("title", "before")
	s.Set("abstract", "kept")

	end := s.Tracker().Begin()
	s.Set("title", "A")
	s.Set("title", "B")
	end()

	if s.History().Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.History().Len())
	}

	// Undo still works on the pre-guard history.
	if ok, err := s.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if v, _ := s.Get("abstract"); v != "" {
		t.Errorf("abstract = %v, want empty", v)
	}
}

func TestSession_ObserverResyncLoop(t *testing.T) {
	s := New(nil)
	defer s.Close()

	// A colour picker that normalises and writes back every value it shows.
	s.Notifier().SubscribePath("fill-color", func(c notify.Change) {
		if err := s.Form().Set(history.FieldFillColor, strings.ToLower(c.NewValue.(string))); err != nil {
			t.Errorf("resync failed: %v", err)
		}
	})

	s.Set("fill-color", "#AA0000")
	s.Set("fill-color", "#00AA00")
	before := s.History().Len()

	s.Undo()
	s.Redo()
	s.Undo()

	if s.History().Len() != before {
		t.Errorf("Len() = %d, want %d; re-sync writes were recorded", s.History().Len(), before)
	}
}

func TestSession_SaveClearsHistory(t *testing.T) {
	s := New(nil)
	defer s.Close()
	obs := &availability{}
	s.AddObserver(obs)

	for i := 0; i < 5; i++ {
		s.SetText("size", "1"+strings.Repeat("0", i))
	}

	path := filepath.Join(t.TempDir(), "style.toml")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if s.History().Len() != 0 || s.History().Pointer() != 0 {
		t.Error("save should clear history")
	}
	if obs.undo || obs.redo {
		t.Errorf("after save undo=%v redo=%v", obs.undo, obs.redo)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q", s.Path())
	}

	// Save with no argument reuses the path.
	s.Set("name", "again")
	if err := s.Save(""); err != nil {
		t.Fatalf("Save('') failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestSession_SaveWithoutPath(t *testing.T) {
	s := New(nil)
	defer s.Close()
	if err := s.Save(""); !errors.Is(err, ErrNoPath) {
		t.Errorf("Save('') error = %v, want ErrNoPath", err)
	}
}

func TestSession_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roads.yaml")
	doc := style.NewDocument()
	doc.Name = "roads"
	doc.Stroke.Width = 3
	if err := style.SaveFile(path, doc); err != nil {
		t.Fatal(err)
	}

	s := New(nil)
	defer s.Close()
	obs := &availability{}
	s.AddObserver(obs)

	// Widgets re-sync on load; none of it should be recorded.
	s.Notifier().Subscribe(func(c notify.Change) {
		if c.Type == notify.ChangeLoad {
			v, _ := s.Get("name")
			s.Set("name", v)
			s.Set("title", "from widget")
		}
	})

	s.Set("title", "unsaved")
	if err := s.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if s.History().Len() != 0 {
		t.Errorf("Len() = %d after open, want 0", s.History().Len())
	}
	if obs.undo || obs.redo {
		t.Error("open should report nothing to undo or redo")
	}
	if v, _ := s.Get("name"); v != "roads" {
		t.Errorf("name = %v, want roads", v)
	}
	if v, _ := s.Get("stroke-width"); v != 3.0 {
		t.Errorf("stroke-width = %v, want 3", v)
	}
}

func TestSession_OpenErrors(t *testing.T) {
	s := New(nil)
	defer s.Close()

	if err := s.Open(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("[fill]\nopacity = 9.0\n"), 0o644)
	if err := s.Open(path); !errors.Is(err, style.ErrValueRange) {
		t.Errorf("Open(bad) error = %v", err)
	}
}

func TestSession_SetTextErrors(t *testing.T) {
	s := New(nil)
	defer s.Close()

	if err := s.SetText("rotation", "left"); !errors.Is(err, style.ErrValueKind) {
		t.Errorf("SetText error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.SetText("fill-opacity", "NaN"); !errors.Is(err, style.ErrValueRange) {
			t.Errorf("SetText(NaN) error = %v", err)
		}
	}
	if s.History().Len() != 0 {
		t.Errorf("Len() = %d after NaN edits, want 0", s.History().Len())
	}
	if err := s.SetText("vendor:fontStyle", "italic"); err != nil {
		t.Errorf("SetText(option) error = %v", err)
	}
	if v, ok := s.Get("vendor:fontStyle"); !ok || v != "italic" {
		t.Errorf("Get(option) = %v, %v", v, ok)
	}
}

func TestSession_ApplyConfig(t *testing.T) {
	s := New(nil)
	defer s.Close()

	for i := 0; i < 6; i++ {
		s.SetText("size", strings.Repeat("1", i+1))
	}

	cfg := config.Default()
	cfg.History.MaxEntries = 3
	s.ApplyConfig(cfg)
	s.ApplyConfig(nil)

	if s.History().Len() != 3 || s.History().MaxEntries() != 3 {
		t.Errorf("Len() = %d MaxEntries() = %d", s.History().Len(), s.History().MaxEntries())
	}
}

func TestSession_Reset(t *testing.T) {
	s := New(nil)
	defer s.Close()
	obs := &availability{}
	s.AddObserver(obs)

	s.Set("title", "x")
	calls := obs.calls
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}

	if s.History().Len() != 0 {
		t.Error("reset should clear history")
	}
	if s.History().Guard() == nil {
		t.Error("reset should reinstall the guard")
	}
	if v, _ := s.Get("title"); v != "" {
		t.Errorf("title = %v, want empty", v)
	}
	s.Set("title", "y")
	if obs.calls != calls {
		t.Error("observers should be dropped by reset")
	}
}

func TestSession_Logging(t *testing.T) {
	var buf bytes.Buffer
	s := New(nil, WithLogger(logging.New(&buf, logging.LevelDebug, logging.FormatText)))
	defer s.Close()

	s.Set("title", "logged")
	s.Undo()

	out := buf.String()
	for _, want := range []string{"session started", "session=" + s.ID(), "history undo"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
}
