package guard

import (
	"errors"
	"testing"

	"github.com/dshills/stylehistory/internal/history"
)

// Tracker must satisfy the history guard contract.
var _ history.Guard = (*Tracker)(nil)

func TestTrackerZeroValue(t *testing.T) {
	var tr Tracker
	if tr.Active() {
		t.Error("zero tracker should be inactive")
	}
}

func TestTrackerBegin(t *testing.T) {
	tr := New()

	end := tr.Begin()
	if !tr.Active() {
		t.Error("tracker should be active inside scope")
	}
	end()
	if tr.Active() {
		t.Error("tracker should be inactive after scope ends")
	}

	// Closing twice must not unbalance the counter.
	end()
	if tr.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", tr.Depth())
	}
}

func TestTrackerNested(t *testing.T) {
	tr := New()

	outer := tr.Begin()
	inner := tr.Begin()
	if tr.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", tr.Depth())
	}
	inner()
	if !tr.Active() {
		t.Error("outer scope should keep tracker active")
	}
	outer()
	if tr.Active() {
		t.Error("tracker should be inactive")
	}
}

func TestTrackerRun(t *testing.T) {
	tr := New()
	want := errors.New("populate failed")

	var activeInside bool
	err := tr.Run(func() error {
		activeInside = tr.Active()
		return want
	})

	if !errors.Is(err, want) {
		t.Errorf("Run() = %v, want %v", err, want)
	}
	if !activeInside {
		t.Error("tracker should be active while fn runs")
	}
	if tr.Active() {
		t.Error("tracker should be inactive after Run")
	}
}

func TestTrackerRunPanic(t *testing.T) {
	tr := New()
	func() {
		defer func() { _ = recover() }()
		_ = tr.Run(func() error { panic("boom") })
	}()
	if tr.Active() {
		t.Error("scope should close when fn panics")
	}
}

func TestTrackerSuppressesHistory(t *testing.T) {
	tr := New()
	m := history.New(history.WithGuard(tr))
	owner := &nopTarget{}

	_ = tr.Run(func() error {
		return m.RecordChange(owner, history.FieldTitle, "a", "b")
	})
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0 inside populate scope", m.Len())
	}

	if err := m.RecordChange(owner, history.FieldTitle, "a", "b"); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

type nopTarget struct{}

func (nopTarget) UndoAction(*history.Record) error { return nil }
func (nopTarget) RedoAction(*history.Record) error { return nil }
