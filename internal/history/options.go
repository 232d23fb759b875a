package history

import "log/slog"

// Option configures a Manager during creation.
type Option func(*Manager)

// WithMaxEntries caps the number of retained records.
// Zero or a negative value means unbounded, which is the default.
func WithMaxEntries(max int) Option {
	return func(m *Manager) {
		if max > 0 {
			m.maxEntries = max
		}
	}
}

// WithGuard installs the reentrancy guard consulted by Record.
func WithGuard(g Guard) Option {
	return func(m *Manager) {
		m.guard = g
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver registers an observer at creation.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.addObserver(o)
		}
	}
}
