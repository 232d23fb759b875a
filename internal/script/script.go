// Package script runs Lua scripts against an editing session.
//
// Scripts see two modules:
//
//	style.set(label, value)    -- edit a field or vendor option
//	style.get(label)           -- value or nil
//	style.fields()             -- list of known field labels
//
//	history.undo()             -- true if something was undone
//	history.redo()             -- true if something was redone
//	history.can_undo()
//	history.can_redo()
//	history.len()
//	history.pointer()
//	history.checkpoint()       -- returns a checkpoint handle
//	history.undo_to(handle)
//	history.redo_to(handle)
//
// A checkpoint handle stops working once the history is cleared by a save,
// load or reset.
//
// Edits made by a script are ordinary user edits: each one is recorded.
//
// A Runner must be used from the session's editing goroutine; gopher-lua
// states are not goroutine-safe either.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/stylehistory/internal/history"
	"github.com/dshills/stylehistory/internal/session"
)

// Runner executes scripts for one session.
type Runner struct {
	L       *lua.LState
	session *session.Session

	checkpoints []history.Checkpoint
}

// New creates a runner with a sandboxed Lua state bound to s.
func New(s *session.Session) *Runner {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	openSafeLibraries(L)

	r := &Runner{L: L, session: s}
	r.registerStyle()
	r.registerHistory()
	return r
}

// openSafeLibraries opens only libraries without file or process access.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// The base library can still load code from disk.
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
}

// DoString executes a chunk of Lua source.
func (r *Runner) DoString(src string) error {
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// DoFile executes a Lua file.
func (r *Runner) DoFile(path string) error {
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.L.Close()
}

func (r *Runner) registerStyle() {
	mod := r.L.NewTable()
	r.L.SetField(mod, "set", r.L.NewFunction(r.styleSet))
	r.L.SetField(mod, "get", r.L.NewFunction(r.styleGet))
	r.L.SetField(mod, "fields", r.L.NewFunction(r.styleFields))
	r.L.SetGlobal("style", mod)
}

func (r *Runner) registerHistory() {
	mod := r.L.NewTable()
	r.L.SetField(mod, "undo", r.L.NewFunction(r.undo))
	r.L.SetField(mod, "redo", r.L.NewFunction(r.redo))
	r.L.SetField(mod, "can_undo", r.L.NewFunction(r.canUndo))
	r.L.SetField(mod, "can_redo", r.L.NewFunction(r.canRedo))
	r.L.SetField(mod, "len", r.L.NewFunction(r.historyLen))
	r.L.SetField(mod, "pointer", r.L.NewFunction(r.pointer))
	r.L.SetField(mod, "checkpoint", r.L.NewFunction(r.checkpoint))
	r.L.SetField(mod, "undo_to", r.L.NewFunction(r.undoTo))
	r.L.SetField(mod, "redo_to", r.L.NewFunction(r.redoTo))
	r.L.SetGlobal("history", mod)
}

// set(label, value)
// Edits a field or vendor option. nil removes an option.
func (r *Runner) styleSet(L *lua.LState) int {
	label := L.CheckString(1)
	value, err := fromLua(L.Get(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}

	if err := r.session.Set(label, value); err != nil {
		L.RaiseError("set %s: %v", label, err)
	}
	return 0
}

// get(label) -> value or nil
func (r *Runner) styleGet(L *lua.LState) int {
	v, ok := r.session.Get(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(toLua(v))
	return 1
}

// fields() -> {label, ...}
func (r *Runner) styleFields(L *lua.LState) int {
	tbl := L.NewTable()
	for _, f := range history.Fields() {
		tbl.Append(lua.LString(f.String()))
	}
	L.Push(tbl)
	return 1
}

// undo() -> bool
func (r *Runner) undo(L *lua.LState) int {
	ok, err := r.session.Undo()
	if err != nil {
		L.RaiseError("undo: %v", err)
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

// redo() -> bool
func (r *Runner) redo(L *lua.LState) int {
	ok, err := r.session.Redo()
	if err != nil {
		L.RaiseError("redo: %v", err)
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (r *Runner) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(r.session.History().CanUndo()))
	return 1
}

func (r *Runner) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(r.session.History().CanRedo()))
	return 1
}

func (r *Runner) historyLen(L *lua.LState) int {
	L.Push(lua.LNumber(r.session.History().Len()))
	return 1
}

func (r *Runner) pointer(L *lua.LState) int {
	L.Push(lua.LNumber(r.session.History().Pointer()))
	return 1
}

// checkpoint() -> handle
func (r *Runner) checkpoint(L *lua.LState) int {
	r.checkpoints = append(r.checkpoints, r.session.History().Checkpoint())
	L.Push(lua.LNumber(len(r.checkpoints)))
	return 1
}

// undo_to(handle)
func (r *Runner) undoTo(L *lua.LState) int {
	cp := r.checkCheckpoint(L, 1)
	if err := r.session.History().UndoTo(cp); err != nil {
		L.RaiseError("undo_to: %v", err)
	}
	return 0
}

// redo_to(handle)
func (r *Runner) redoTo(L *lua.LState) int {
	cp := r.checkCheckpoint(L, 1)
	if err := r.session.History().RedoTo(cp); err != nil {
		L.RaiseError("redo_to: %v", err)
	}
	return 0
}

func (r *Runner) checkCheckpoint(L *lua.LState, n int) history.Checkpoint {
	h := L.CheckInt(n)
	if h < 1 || h > len(r.checkpoints) {
		L.ArgError(n, "unknown checkpoint")
	}
	return r.checkpoints[h-1]
}

// fromLua converts a script value to a field value.
func fromLua(v lua.LValue) (any, error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		return float64(v), nil
	case lua.LBool:
		return bool(v), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type())
	}
}

// toLua converts a field value to a script value.
func toLua(v any) lua.LValue {
	switch v := v.(type) {
	case string:
		return lua.LString(v)
	case float64:
		return lua.LNumber(v)
	case bool:
		return lua.LBool(v)
	default:
		return lua.LNil
	}
}
