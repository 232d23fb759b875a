// Package main is the entry point for the stylehist editor.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/stylehistory/internal/config"
	"github.com/dshills/stylehistory/internal/config/watcher"
	"github.com/dshills/stylehistory/internal/logging"
	"github.com/dshills/stylehistory/internal/script"
	"github.com/dshills/stylehistory/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Script     string
	Files      []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Level is shared with the handler so reloads take effect immediately.
	var level slog.LevelVar
	level.Set(cfg.LogLevel())
	logger := logging.New(os.Stderr, &level, cfg.LogFormat())

	s := session.New(cfg, session.WithLogger(logger))
	defer s.Close()

	runner := script.New(s)
	defer runner.Close()

	r := newREPL(s, runner, os.Stdout, logger)

	if len(opts.Files) > 0 {
		if err := s.Open(opts.Files[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.Script != "" {
		if err := runner.DoFile(opts.Script); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	var (
		events    <-chan watcher.Event
		watchErrs <-chan error
	)
	if opts.ConfigPath != "" {
		w, err := watcher.New(opts.ConfigPath)
		if err != nil {
			logger.Warn("config watch disabled", "path", opts.ConfigPath, "error", err)
		} else {
			defer w.Close()
			events = w.Events()
			watchErrs = w.Errors()
		}
	}

	reload := func(ev watcher.Event) {
		next, err := config.Load(opts.ConfigPath)
		if err != nil {
			logger.Warn("config reload failed", "op", ev.Op.String(), "error", err)
			return
		}
		if err := applyFlags(next, opts); err != nil {
			logger.Warn("config reload failed", "error", err)
			return
		}
		level.Set(next.LogLevel())
		s.ApplyConfig(next)
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	lines := readLines(os.Stdin)
	if err := r.loop(lines, events, watchErrs, signals, reload); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// readLines delivers input lines on a channel, closed at end of input.
func readLines(in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

// applyFlags overrides configuration with explicit command line values.
func applyFlags(cfg *config.Config, opts options) error {
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Logging.Format = opts.LogFormat
	}
	return cfg.Validate()
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFormat, "log-format", "", "Log format (text, json)")
	flag.StringVar(&opts.Script, "script", "", "Lua script to run after opening")
	flag.StringVar(&opts.Script, "s", "", "Lua script to run after opening (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stylehist - layer style editor with undo history\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stylehist [options] [style-file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stylehist                       Edit a new style\n")
		fmt.Fprintf(os.Stderr, "  stylehist roads.toml            Edit a style file\n")
		fmt.Fprintf(os.Stderr, "  stylehist -s fix.lua roads.toml Run a script, then edit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("stylehist %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.Files = flag.Args()
	return opts
}
