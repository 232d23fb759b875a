package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/stylehistory/internal/history"
	"github.com/dshills/stylehistory/internal/session"
)

func setupRunner(t *testing.T) (*Runner, *session.Session) {
	t.Helper()
	s := session.New(nil)
	r := New(s)
	t.Cleanup(func() {
		r.Close()
		s.Close()
	})
	return r, s
}

func TestRunner_SetGet(t *testing.T) {
	r, s := setupRunner(t)

	err := r.DoString(`
		style.set("title", "Roads")
		style.set("stroke-width", 2.5)
		style.set("label-visible", true)
		title = style.get("title")
		width = style.get("stroke-width")
		missing = style.get("vendor:none")
	`)
	if err != nil {
		t.Fatalf("DoString failed: %v", err)
	}

	if got := r.L.GetGlobal("title"); got.String() != "Roads" {
		t.Errorf("title = %v, want Roads", got)
	}
	if got := r.L.GetGlobal("width"); got != lua.LNumber(2.5) {
		t.Errorf("width = %v, want 2.5", got)
	}
	if got := r.L.GetGlobal("missing"); got != lua.LNil {
		t.Errorf("missing = %v, want nil", got)
	}
	if s.History().Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.History().Len())
	}
	if v, _ := s.Get("label-visible"); v != true {
		t.Errorf("label-visible = %v", v)
	}
}

func TestRunner_SetErrors(t *testing.T) {
	r, _ := setupRunner(t)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"wrong kind", `style.set("rotation", "left")`, "set rotation"},
		{"out of range", `style.set("fill-opacity", 4)`, "set fill-opacity"},
		{"bad colour", `style.set("fill-color", "red")`, "set fill-color"},
		{"table value", `style.set("title", {})`, "unsupported value type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.DoString(tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestRunner_VendorOptions(t *testing.T) {
	r, s := setupRunner(t)

	err := r.DoString(`
		style.set("vendor:halo", "yes")
		before = style.get("vendor:halo")
		style.set("vendor:halo", nil)
		after = style.get("vendor:halo")
	`)
	if err != nil {
		t.Fatalf("DoString failed: %v", err)
	}
	if got := r.L.GetGlobal("before"); got.String() != "yes" {
		t.Errorf("before = %v", got)
	}
	if got := r.L.GetGlobal("after"); got != lua.LNil {
		t.Errorf("after = %v, want nil", got)
	}
	if s.History().Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.History().Len())
	}
}

func TestRunner_UndoRedo(t *testing.T) {
	r, s := setupRunner(t)

	err := r.DoString(`
		style.set("name", "a")
		style.set("name", "b")
		u1 = history.undo()
		name_after_undo = style.get("name")
		can_redo = history.can_redo()
		r1 = history.redo()
		r2 = history.redo()
		len = history.len()
		ptr = history.pointer()
	`)
	if err != nil {
		t.Fatalf("DoString failed: %v", err)
	}

	checks := map[string]lua.LValue{
		"u1":              lua.LTrue,
		"name_after_undo": lua.LString("a"),
		"can_redo":        lua.LTrue,
		"r1":              lua.LTrue,
		"r2":              lua.LFalse,
		"len":             lua.LNumber(2),
		"ptr":             lua.LNumber(2),
	}
	for name, want := range checks {
		if got := r.L.GetGlobal(name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	if v, _ := s.Get("name"); v != "b" {
		t.Errorf("name = %v, want b", v)
	}
}

func TestRunner_UndoAtStart(t *testing.T) {
	r, _ := setupRunner(t)

	if err := r.DoString(`ok = history.undo(); cu = history.can_undo()`); err != nil {
		t.Fatal(err)
	}
	if r.L.GetGlobal("ok") != lua.LFalse || r.L.GetGlobal("cu") != lua.LFalse {
		t.Error("undo on empty history should be a no-op")
	}
}

func TestRunner_Checkpoints(t *testing.T) {
	r, s := setupRunner(t)

	err := r.DoString(`
		style.set("title", "one")
		local cp = history.checkpoint()
		style.set("title", "two")
		style.set("title", "three")
		local tail = history.checkpoint()
		history.undo_to(cp)
		at_cp = style.get("title")
		history.redo_to(tail)
		at_tail = style.get("title")
	`)
	if err != nil {
		t.Fatalf("DoString failed: %v", err)
	}
	if got := r.L.GetGlobal("at_cp"); got.String() != "one" {
		t.Errorf("at_cp = %v, want one", got)
	}
	if got := r.L.GetGlobal("at_tail"); got.String() != "three" {
		t.Errorf("at_tail = %v, want three", got)
	}
	if s.History().Pointer() != 3 {
		t.Errorf("Pointer() = %d, want 3", s.History().Pointer())
	}

	if err := r.DoString(`history.undo_to(99)`); err == nil {
		t.Error("expected error for unknown checkpoint")
	}
}

func TestRunner_Fields(t *testing.T) {
	r, _ := setupRunner(t)

	if err := r.DoString(`
		local f = style.fields()
		count = #f
		first = f[1]
	`); err != nil {
		t.Fatal(err)
	}
	if got := r.L.GetGlobal("count"); got != lua.LNumber(12) {
		t.Errorf("count = %v, want 12", got)
	}
	if got := r.L.GetGlobal("first"); got.String() != "name" {
		t.Errorf("first = %v, want name", got)
	}
}

func TestRunner_Sandbox(t *testing.T) {
	r, _ := setupRunner(t)

	for _, name := range []string{"io", "os", "dofile", "loadfile"} {
		if r.L.GetGlobal(name) != lua.LNil {
			t.Errorf("%s should not be available", name)
		}
	}
	if err := r.DoString(`x = string.upper("a") .. math.floor(1.5)`); err != nil {
		t.Errorf("safe libraries missing: %v", err)
	}
}

func TestRunner_DoFile(t *testing.T) {
	r, s := setupRunner(t)

	path := filepath.Join(t.TempDir(), "edit.lua")
	src := "style.set('size', 12)\nstyle.set('fill-color', '#ff0000')\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.DoFile(path); err != nil {
		t.Fatalf("DoFile failed: %v", err)
	}
	if v, _ := s.Get("fill-color"); v != "#FF0000" {
		t.Errorf("fill-color = %v, want #FF0000", v)
	}

	if err := r.DoFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunner_CheckpointAcrossEviction(t *testing.T) {
	r, s := setupRunner(t)
	s.History().SetMaxEntries(3)

	err := r.DoString(`
		style.set("title", "one")
		style.set("title", "two")
		local cp = history.checkpoint()
		style.set("title", "three")
		style.set("title", "four")
		history.undo_to(cp)
		at_cp = style.get("title")
	`)
	if err != nil {
		t.Fatalf("DoString failed: %v", err)
	}
	if got := r.L.GetGlobal("at_cp"); got.String() != "two" {
		t.Errorf("at_cp = %v, want two", got)
	}
}

func TestRunner_CheckpointStaleAfterSave(t *testing.T) {
	r, s := setupRunner(t)

	if err := r.DoString(`style.set("name", "a"); cp = history.checkpoint(); style.set("name", "b")`); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(filepath.Join(t.TempDir(), "style.toml")); err != nil {
		t.Fatal(err)
	}
	if err := r.DoString(`style.set("name", "c")`); err != nil {
		t.Fatal(err)
	}

	err := r.DoString(`history.undo_to(cp)`)
	if err == nil || !strings.Contains(err.Error(), history.ErrStaleCheckpoint.Error()) {
		t.Errorf("undo_to error = %v, want stale checkpoint", err)
	}
	if v, _ := s.Get("name"); v != "c" {
		t.Errorf("name = %v, want c", v)
	}
}
