// Package notifier runs the payment-return flow for one page load: inspect
// the query, maybe show the confirmation, then scrub the address.
package notifier

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dgnsrekt/return_notice/internal/inspect"
	"github.com/dgnsrekt/return_notice/internal/notice"
	"github.com/dgnsrekt/return_notice/internal/query"
	"github.com/dgnsrekt/return_notice/internal/scrub"
)

// Event kinds emitted to a Sink.
const (
	KindShown     = "notice.shown"
	KindDismissed = "notice.dismissed"
	KindSanitized = "url.sanitized"
)

// Page is a loaded document that can host the dialog and rewrite its own
// address.
type Page interface {
	notice.Host
	scrub.Page
}

// Event is an outcome notification. It never carries payer or transaction
// data.
type Event struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	DialogID string    `json:"dialog_id,omitempty"`
	Trigger  string    `json:"trigger,omitempty"`
	Removed  int       `json:"removed,omitempty"`
	At       time.Time `json:"at"`
}

// Sink receives events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Sinks fans an event out to every non-nil sink in order.
type Sinks []Sink

func (ss Sinks) Emit(e Event) {
	for _, s := range ss {
		if s != nil {
			s.Emit(e)
		}
	}
}

// Config configures a Notifier.
type Config struct {
	DialogID string
	Title    string
	Composer notice.Composer
	// Keys overrides the scrubbed key set. Empty means scrub.SensitiveKeys.
	Keys []string
	Sink Sink
}

// Outcome summarizes one Run.
type Outcome struct {
	Detected  bool            `json:"detected"`
	Summary   inspect.Summary `json:"summary"`
	Shown     bool            `json:"shown"`
	Sanitized scrub.Result    `json:"sanitized"`
	// Dialog stays live after Run so the host can keep delivering input.
	Dialog *notice.Dialog `json:"-"`
}

// Notifier is reusable across pages; each Run gets its own dialog.
type Notifier struct {
	cfg       Config
	sanitizer *scrub.Sanitizer
	now       func() time.Time
	newID     func() string
}

// New returns a Notifier for cfg.
func New(cfg Config) *Notifier {
	return &Notifier{
		cfg:       cfg,
		sanitizer: scrub.New(cfg.Keys...),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Run executes the three phases against p in order. The sanitizer re-reads
// the address instead of reusing the inspected snapshot.
func (n *Notifier) Run(p Page) Outcome {
	snap := inspect.NewSnapshot(query.SplitHref(p.Href()).RawQuery)
	summary, detected := inspect.FromSnapshot(snap)

	dialog := notice.New(p, notice.Options{
		ID:       n.cfg.DialogID,
		Title:    n.cfg.Title,
		Composer: n.cfg.Composer,
		OnShow: func(id string) {
			n.emit(Event{Kind: KindShown, DialogID: id})
		},
		OnDismiss: func(id string, t notice.Trigger) {
			n.emit(Event{Kind: KindDismissed, DialogID: id, Trigger: string(t)})
		},
	})

	out := Outcome{Detected: detected, Summary: summary, Dialog: dialog}
	if detected {
		out.Shown = dialog.MaybeShow(summary)
	}

	out.Sanitized = n.sanitizer.Apply(p)
	if out.Sanitized.Changed() {
		n.emit(Event{Kind: KindSanitized, Removed: out.Sanitized.Removed})
	}

	slog.Debug("return notifier run", "detected", detected, "shown", out.Shown, "removed", out.Sanitized.Removed)
	return out
}

func (n *Notifier) emit(e Event) {
	if n.cfg.Sink == nil {
		return
	}
	e.ID = n.newID()
	e.At = n.now().UTC()
	n.cfg.Sink.Emit(e)
}
