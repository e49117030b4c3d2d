package relay

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/return_notice/internal/notifier"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

func waitForClients(t *testing.T, b *Broker, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d; want %d", b.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBrokerFanOutAndUnsubscribe(t *testing.T) {
	b := NewBroker()
	id1, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Publish(Event{Kind: notifier.KindShown, Payload: []byte(`{}`)})
	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Kind != notifier.KindShown {
				t.Fatalf("subscriber %d kind = %q", i, evt.Kind)
			}
		default:
			t.Fatalf("subscriber %d received nothing", i)
		}
	}

	b.Unsubscribe(id1)
	if _, ok := <-ch1; ok {
		t.Fatal("unsubscribed channel still open")
	}
	if b.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d; want 1", b.ClientCount())
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker()
	_, ch := b.Subscribe()
	for i := 0; i < subscriberBufSize+10; i++ {
		b.Publish(Event{Kind: "k"})
	}
	if len(ch) != subscriberBufSize {
		t.Fatalf("buffered = %d; want %d", len(ch), subscriberBufSize)
	}
	if b.Published() != int64(subscriberBufSize+10) {
		t.Fatalf("Published() = %d", b.Published())
	}
}

func TestEmitEncodesNotifierEvent(t *testing.T) {
	b := NewBroker()
	_, ch := b.Subscribe()
	b.Emit(notifier.Event{Kind: notifier.KindDismissed, DialogID: "ov", Trigger: "escape"})

	evt := <-ch
	var got notifier.Event
	if err := json.Unmarshal(evt.Payload, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got.Trigger != "escape" || got.DialogID != "ov" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestSSEHandlerFiltersKinds(t *testing.T) {
	b := NewBroker()
	srv := httptest.NewServer(SSEHandler(b))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?kinds="+notifier.KindSanitized, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	waitForClients(t, b, 1)
	b.Emit(notifier.Event{Kind: notifier.KindShown})
	b.Emit(notifier.Event{Kind: notifier.KindSanitized, Removed: 3})

	sc := bufio.NewScanner(resp.Body)
	if !sc.Scan() {
		t.Fatalf("no event line: %v", sc.Err())
	}
	if got := sc.Text(); got != "event: "+notifier.KindSanitized {
		t.Fatalf("first line = %q; want sanitized event (shown filtered)", got)
	}
	if !sc.Scan() || !strings.Contains(sc.Text(), `"removed":3`) {
		t.Fatalf("data line = %q", sc.Text())
	}
}

func TestWSHandlerStreamsEvents(t *testing.T) {
	b := NewBroker()
	srv := httptest.NewServer(WSHandler(b))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	conn, _, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("ws.Dial() error = %v", err)
	}
	defer conn.Close()

	waitForClients(t, b, 1)
	b.Emit(notifier.Event{Kind: notifier.KindShown, DialogID: "ov"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	data, err := wsutil.ReadServerText(conn)
	if err != nil {
		t.Fatalf("ReadServerText() error = %v", err)
	}
	if !strings.Contains(string(data), `"kind":"notice.shown"`) {
		t.Fatalf("frame = %s", data)
	}

	_ = conn.Close()
	waitForClients(t, b, 0)
}

func TestSSEHandlerWritesEventID(t *testing.T) {
	b := NewBroker()
	srv := httptest.NewServer(SSEHandler(b))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	waitForClients(t, b, 1)
	b.Emit(notifier.Event{ID: "evt-1", Kind: notifier.KindShown})

	sc := bufio.NewScanner(resp.Body)
	if !sc.Scan() || sc.Text() != "id: evt-1" {
		t.Fatalf("first line = %q; want id line", sc.Text())
	}
	if !sc.Scan() || sc.Text() != "event: "+notifier.KindShown {
		t.Fatalf("second line = %q", sc.Text())
	}
}
