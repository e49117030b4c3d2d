// Package notify pushes notice events to an NTFY topic for site operators.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgnsrekt/return_notice/internal/notifier"
)

const (
	queueSize   = 64
	sendTimeout = 5 * time.Second
)

// Send sends a message to the requested endpoint using HTTP POST.
func Send(ctx context.Context, client *http.Client, endpoint, message string) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(message))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy notification failed: status=%d", resp.StatusCode)
	}
	return nil
}

// Message renders e as an operator-facing line.
func Message(e notifier.Event) string {
	switch e.Kind {
	case notifier.KindShown:
		return "Donation confirmation shown (" + e.DialogID + ")"
	case notifier.KindDismissed:
		return "Donation confirmation dismissed via " + e.Trigger
	case notifier.KindSanitized:
		return fmt.Sprintf("Return address cleaned, %d payment parameters removed", e.Removed)
	}
	return e.Kind
}

// Sink forwards events to endpoint from a single background sender so page
// runs never wait on the network.
type Sink struct {
	client   *http.Client
	endpoint string
	kinds    map[string]bool
	queue    chan notifier.Event
}

// NewSink returns a Sink posting to endpoint. kinds limits which events are
// sent; empty sends only notice.shown.
func NewSink(client *http.Client, endpoint string, kinds ...string) *Sink {
	if len(kinds) == 0 {
		kinds = []string{notifier.KindShown}
	}
	s := &Sink{
		client:   client,
		endpoint: endpoint,
		kinds:    make(map[string]bool, len(kinds)),
		queue:    make(chan notifier.Event, queueSize),
	}
	for _, k := range kinds {
		s.kinds[k] = true
	}
	return s
}

// Emit queues e. A full queue drops the event.
func (s *Sink) Emit(e notifier.Event) {
	if !s.kinds[e.Kind] {
		return
	}
	select {
	case s.queue <- e:
	default:
		slog.Warn("ntfy queue full, dropping event", "kind", e.Kind)
	}
}

// Run sends queued events until ctx is done.
func (s *Sink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-s.queue:
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			if err := Send(sendCtx, s.client, s.endpoint, Message(e)); err != nil {
				slog.Warn("ntfy send failed", "kind", e.Kind, "error", err)
			}
			cancel()
		}
	}
}
