// Package notice owns the payment confirmation dialog: composing its message
// and driving its show/dismiss lifecycle against a rendering Host.
package notice

import (
	"log/slog"

	"github.com/dgnsrekt/return_notice/internal/inspect"
)

// DefaultDialogID is the reserved identifier of the overlay element.
const DefaultDialogID = "return-notice-overlay"

// DefaultTitle is the dialog heading.
const DefaultTitle = "Donation Received"

// Inline styles applied to the overlay. No external stylesheet is required.
const (
	OverlayStyle = "position:fixed;inset:0;display:flex;align-items:center;justify-content:center;padding:1rem;background:rgba(0,0,0,.5);z-index:2147483647;"
	SurfaceStyle = "position:relative;width:min(620px, 100%);background:#fff;padding:2rem;padding-top:4rem;border-radius:.375rem;"
	CloseStyle   = "position:absolute;top:1rem;right:.75rem;width:28px;height:28px;padding:0;border-radius:8px;font-size:20px;line-height:1;display:flex;align-items:center;justify-content:center;"
)

// Class names on the rendered elements.
const (
	ClassOverlay = "return-notice-overlay"
	ClassSurface = "return-notice-modal"
	ClassClose   = "return-notice-close"
	ClassTitle   = "return-notice-title"
	ClassMessage = "return-notice-message"
)

// EscapeKey is the key name that dismisses an open dialog.
const EscapeKey = "Escape"

// scrollLocked is the overflow value applied while the dialog is open.
const scrollLocked = "hidden"

// State is the dialog lifecycle state.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Region identifies which part of the overlay received a pointer event.
type Region int

const (
	RegionSurface Region = iota
	RegionBackdrop
	RegionClose
)

// Trigger names what dismissed the dialog.
type Trigger string

const (
	TriggerClose    Trigger = "close"
	TriggerBackdrop Trigger = "backdrop"
	TriggerEscape   Trigger = "escape"
	TriggerTeardown Trigger = "teardown"
)

// View is everything a Host needs to render the dialog.
type View struct {
	ID         string
	Title      string
	Message    string
	CloseLabel string
	CloseText  string
}

// Host renders the dialog and reports user input back to it.
type Host interface {
	// Overflow returns the document scroll-lock value ("" when unset).
	Overflow() string
	SetOverflow(value string)
	// Mount inserts the overlay. onPointer is invoked for clicks on it.
	Mount(v View, onPointer func(Region)) error
	Unmount(id string)
	// FocusClose moves keyboard focus to the close control of dialog id.
	FocusClose(id string)
	// ListenKeys registers a document keydown listener until stop is called.
	ListenKeys(fn func(key string)) (stop func())
}

// Options configures a Dialog.
type Options struct {
	ID        string
	Title     string
	Composer  Composer
	OnShow    func(id string)
	OnDismiss func(id string, t Trigger)
}

// Dialog is a single-instance modal. It is not safe for concurrent use; hosts
// deliver events on the goroutine that drives the page.
type Dialog struct {
	host Host
	opts Options

	state        State
	generation   int
	prevOverflow string
	stopKeys     func()
}

// New returns a closed Dialog bound to host.
func New(host Host, opts Options) *Dialog {
	if opts.ID == "" {
		opts.ID = DefaultDialogID
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return &Dialog{host: host, opts: opts}
}

// ID returns the reserved overlay identifier.
func (d *Dialog) ID() string { return d.opts.ID }

// State returns the current lifecycle state.
func (d *Dialog) State() State { return d.state }

// PreviousOverflow returns the scroll-lock value captured when the dialog
// last opened.
func (d *Dialog) PreviousOverflow() string { return d.prevOverflow }

// MaybeShow opens the dialog for a completed payment. Anything else is a
// no-op.
func (d *Dialog) MaybeShow(s inspect.Summary) bool {
	if !s.Completed() {
		slog.Debug("notice suppressed", "status", s.Status, "has_transaction", s.TransactionID != "")
		return false
	}
	_, ok := d.Show(d.opts.Composer.Message(s))
	return ok
}

// Show mounts the dialog with message and returns a teardown that dismisses
// it. While a dialog is already open Show does nothing and returns false.
func (d *Dialog) Show(message string) (teardown func(), ok bool) {
	if d.state == StateOpen {
		slog.Debug("notice already open", "dialog_id", d.opts.ID)
		return func() {}, false
	}

	view := View{
		ID:         d.opts.ID,
		Title:      d.opts.Title,
		Message:    message,
		CloseLabel: "Close",
		CloseText:  "×",
	}
	prev := d.host.Overflow()
	if err := d.host.Mount(view, d.onPointer); err != nil {
		slog.Debug("notice mount skipped", "dialog_id", d.opts.ID, "error", err)
		return func() {}, false
	}

	d.state = StateOpen
	d.generation++
	d.prevOverflow = prev
	d.stopKeys = d.host.ListenKeys(d.onKey)
	d.host.SetOverflow(scrollLocked)
	d.host.FocusClose(view.ID)

	slog.Info("notice shown", "dialog_id", d.opts.ID)
	if d.opts.OnShow != nil {
		d.opts.OnShow(d.opts.ID)
	}

	gen := d.generation
	return func() {
		if d.generation == gen {
			d.Dismiss(TriggerTeardown)
		}
	}, true
}

// Dismiss closes an open dialog, restoring the previous scroll-lock and
// releasing the key listener. It reports whether anything was closed.
func (d *Dialog) Dismiss(t Trigger) bool {
	if d.state != StateOpen {
		return false
	}
	if d.stopKeys != nil {
		d.stopKeys()
		d.stopKeys = nil
	}
	d.host.Unmount(d.opts.ID)
	d.host.SetOverflow(d.prevOverflow)
	d.state = StateClosed

	slog.Info("notice dismissed", "dialog_id", d.opts.ID, "trigger", string(t))
	if d.opts.OnDismiss != nil {
		d.opts.OnDismiss(d.opts.ID, t)
	}
	return true
}

func (d *Dialog) onPointer(r Region) {
	switch r {
	case RegionClose:
		d.Dismiss(TriggerClose)
	case RegionBackdrop:
		d.Dismiss(TriggerBackdrop)
	}
}

func (d *Dialog) onKey(key string) {
	if key == EscapeKey {
		d.Dismiss(TriggerEscape)
	}
}
