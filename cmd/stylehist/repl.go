package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/dshills/stylehistory/internal/config/watcher"
	"github.com/dshills/stylehistory/internal/history"
	"github.com/dshills/stylehistory/internal/script"
	"github.com/dshills/stylehistory/internal/session"
	"github.com/dshills/stylehistory/internal/style"
)

// errQuit ends the command loop.
var errQuit = errors.New("quit")

// repl interprets editor commands against a session.
type repl struct {
	s      *session.Session
	runner *script.Runner
	out    io.Writer
	logger *slog.Logger
}

func newREPL(s *session.Session, runner *script.Runner, out io.Writer, logger *slog.Logger) *repl {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	r := &repl{s: s, runner: runner, out: out, logger: logger}
	r.watchHistory()
	return r
}

// watchHistory prints undo/redo availability whenever it changes.
func (r *repl) watchHistory() {
	r.s.AddObserver(history.ObserverFunc(func(undo, redo bool) {
		fmt.Fprintf(r.out, "[%s]\n", availability(undo, redo))
	}))
}

func availability(undo, redo bool) string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return "undo:" + onOff(undo) + " redo:" + onOff(redo)
}

// loop runs commands until input ends, quit is entered or a signal arrives.
// Config events and watch errors are handled between commands on the same
// goroutine.
func (r *repl) loop(lines <-chan string, events <-chan watcher.Event, watchErrs <-chan error, signals <-chan os.Signal, reload func(watcher.Event)) error {
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := r.exec(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if reload != nil {
				reload(ev)
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			r.logger.Warn("config watch error", "error", err)
		case <-signals:
			return nil
		}
	}
}

// exec runs one command line.
func (r *repl) exec(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "set":
		if len(args) < 2 {
			return errors.New("usage: set <field> <value>")
		}
		return r.s.SetText(args[0], strings.Join(args[1:], " "))

	case "unset":
		if len(args) != 1 {
			return errors.New("usage: unset <option>")
		}
		return r.s.Set(args[0], nil)

	case "get":
		if len(args) != 1 {
			return errors.New("usage: get <field>")
		}
		v, ok := r.s.Get(args[0])
		if !ok {
			fmt.Fprintf(r.out, "%s is not set\n", args[0])
			return nil
		}
		fmt.Fprintf(r.out, "%s = %v\n", args[0], v)
		return nil

	case "undo":
		ok, err := r.s.Undo()
		if err == nil && !ok {
			fmt.Fprintln(r.out, "nothing to undo")
		}
		return err

	case "redo":
		ok, err := r.s.Redo()
		if err == nil && !ok {
			fmt.Fprintln(r.out, "nothing to redo")
		}
		return err

	case "open":
		if len(args) != 1 {
			return errors.New("usage: open <file>")
		}
		return r.s.Open(args[0])

	case "save":
		if len(args) > 1 {
			return errors.New("usage: save [file]")
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return r.s.Save(path)

	case "run":
		if len(args) != 1 {
			return errors.New("usage: run <script.lua>")
		}
		return r.runner.DoFile(args[0])

	case "state":
		h := r.s.History()
		fmt.Fprintf(r.out, "%s (%d of %d)\n", availability(h.CanUndo(), h.CanRedo()), h.Pointer(), h.Len())
		return nil

	case "history":
		r.printHistory()
		return nil

	case "fields":
		for _, f := range history.Fields() {
			kind, _ := style.KindOf(f)
			fmt.Fprintf(r.out, "%-16s %s\n", f, kind)
		}
		return nil

	case "reset":
		return r.reset()

	case "help":
		fmt.Fprint(r.out, helpText)
		return nil

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

// printHistory lists the records with their edit times, marking the undo
// pointer.
func (r *repl) printHistory() {
	h := r.s.History()
	entries := h.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "history is empty")
		return
	}
	for i, rec := range entries {
		marker := " "
		if i == h.Pointer()-1 {
			marker = ">"
		}
		fmt.Fprintf(r.out, "%s %3d  %s  (%s)\n", marker, i+1, rec.Description(), rec.Timestamp().Format(time.TimeOnly))
	}
}

// reset drops the history observers too, so the printer is reinstalled.
func (r *repl) reset() error {
	if err := r.s.Reset(); err != nil {
		return err
	}
	r.watchHistory()
	return nil
}

const helpText = `Commands:
  set <field> <value>   edit a field or vendor option
  unset <option>        remove a vendor option
  get <field>           show a value
  undo, redo            step through the history
  open <file>           load a .toml or .yaml style
  save [file]           write the style
  run <script.lua>      run a Lua script
  state                 show undo/redo availability
  history               list recorded edits
  fields                list known fields
  reset                 start over with a new style
  quit                  exit
`
