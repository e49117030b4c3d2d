package notice

import (
	"errors"
	"testing"

	"github.com/dgnsrekt/return_notice/internal/inspect"
)

type fakeHost struct {
	overflow   string
	mounted    map[string]View
	onPointer  func(Region)
	focused    string
	listeners  map[int]func(string)
	nextID     int
	mutations  int
	keyCalls   int
	failMount  bool
	unmountIDs []string
}

func newFakeHost(overflow string) *fakeHost {
	return &fakeHost{overflow: overflow, mounted: map[string]View{}, listeners: map[int]func(string){}}
}

func (h *fakeHost) Overflow() string { return h.overflow }

func (h *fakeHost) SetOverflow(v string) {
	h.mutations++
	h.overflow = v
}

func (h *fakeHost) Mount(v View, onPointer func(Region)) error {
	if h.failMount {
		return errors.New("mount refused")
	}
	h.mutations++
	h.mounted[v.ID] = v
	h.onPointer = onPointer
	return nil
}

func (h *fakeHost) Unmount(id string) {
	h.mutations++
	delete(h.mounted, id)
	h.unmountIDs = append(h.unmountIDs, id)
}

func (h *fakeHost) FocusClose(id string) { h.focused = id }

func (h *fakeHost) ListenKeys(fn func(string)) func() {
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() { delete(h.listeners, id) }
}

func (h *fakeHost) press(key string) {
	for _, fn := range h.listeners {
		h.keyCalls++
		fn(key)
	}
}

var completed = inspect.Summary{Status: "completed", TransactionID: "ABC123", AmountRaw: "50.00", CurrencyCode: "USD"}

func TestMaybeShowIgnoresIncomplete(t *testing.T) {
	for _, s := range []inspect.Summary{
		{},
		{Status: "completed"},
		{Status: "pending", TransactionID: "X"},
	} {
		h := newFakeHost("")
		d := New(h, Options{})
		if d.MaybeShow(s) {
			t.Fatalf("MaybeShow(%+v) = true; want false", s)
		}
		if h.mutations != 0 {
			t.Fatalf("MaybeShow(%+v) mutated host %d times; want 0", s, h.mutations)
		}
	}
}

func TestShowOpensOnce(t *testing.T) {
	h := newFakeHost("auto")
	d := New(h, Options{})

	if !d.MaybeShow(completed) {
		t.Fatal("first MaybeShow() = false; want true")
	}
	if d.MaybeShow(completed) {
		t.Fatal("second MaybeShow() = true; want false")
	}
	if len(h.mounted) != 1 {
		t.Fatalf("mounted = %d; want 1", len(h.mounted))
	}
	v := h.mounted[DefaultDialogID]
	if v.Title != DefaultTitle || v.CloseLabel != "Close" {
		t.Fatalf("view = %+v; want default title and close label", v)
	}
	if h.overflow != "hidden" {
		t.Fatalf("overflow = %q; want hidden", h.overflow)
	}
	if h.focused != DefaultDialogID {
		t.Fatalf("focused = %q; want %q", h.focused, DefaultDialogID)
	}
	if len(h.listeners) != 1 {
		t.Fatalf("listeners = %d; want 1", len(h.listeners))
	}
}

func TestDismissTriggers(t *testing.T) {
	tests := []struct {
		name    string
		act     func(h *fakeHost, d *Dialog)
		trigger Trigger
	}{
		{"close button", func(h *fakeHost, _ *Dialog) { h.onPointer(RegionClose) }, TriggerClose},
		{"backdrop", func(h *fakeHost, _ *Dialog) { h.onPointer(RegionBackdrop) }, TriggerBackdrop},
		{"escape", func(h *fakeHost, _ *Dialog) { h.press(EscapeKey) }, TriggerEscape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost("scroll")
			var got Trigger
			d := New(h, Options{OnDismiss: func(_ string, tr Trigger) { got = tr }})
			d.MaybeShow(completed)

			tt.act(h, d)

			if d.State() != StateClosed {
				t.Fatalf("State() = %v; want closed", d.State())
			}
			if len(h.mounted) != 0 {
				t.Fatalf("mounted = %d; want 0", len(h.mounted))
			}
			if h.overflow != "scroll" {
				t.Fatalf("overflow = %q; want restored %q", h.overflow, "scroll")
			}
			if got != tt.trigger {
				t.Fatalf("trigger = %q; want %q", got, tt.trigger)
			}
			calls := h.keyCalls
			h.press(EscapeKey)
			if h.keyCalls != calls {
				t.Fatalf("escape listener still registered after dismissal")
			}
		})
	}
}

func TestSurfaceClickKeepsDialog(t *testing.T) {
	h := newFakeHost("")
	d := New(h, Options{})
	d.MaybeShow(completed)

	h.onPointer(RegionSurface)
	h.press("Enter")

	if d.State() != StateOpen {
		t.Fatalf("State() = %v; want open", d.State())
	}
}

func TestTeardownIsIdempotent(t *testing.T) {
	h := newFakeHost("")
	d := New(h, Options{ID: "custom"})
	teardown, ok := d.Show("hello")
	if !ok {
		t.Fatal("Show() ok = false")
	}
	teardown()
	teardown()
	if len(h.unmountIDs) != 1 || h.unmountIDs[0] != "custom" {
		t.Fatalf("unmounts = %v; want [custom]", h.unmountIDs)
	}

	// A stale teardown must not close a newer dialog.
	if _, ok := d.Show("again"); !ok {
		t.Fatal("reopen Show() ok = false")
	}
	teardown()
	if d.State() != StateOpen {
		t.Fatalf("stale teardown closed the reopened dialog")
	}
}

func TestMountFailureLeavesClosed(t *testing.T) {
	h := newFakeHost("")
	h.failMount = true
	d := New(h, Options{})
	if d.MaybeShow(completed) {
		t.Fatal("MaybeShow() = true; want false on mount failure")
	}
	if d.State() != StateClosed || len(h.listeners) != 0 || h.overflow != "" {
		t.Fatalf("host touched after failed mount: state=%v listeners=%d overflow=%q", d.State(), len(h.listeners), h.overflow)
	}
}
