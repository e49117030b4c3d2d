package relay

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dgnsrekt/return_notice/internal/notifier"
)

const subscriberBufSize = 64

// Event is a single notice event fanned out to feed clients.
type Event struct {
	ID      string
	Kind    string
	Payload []byte
}

// Broker fans out events to all subscribed feed clients.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int64]chan Event
	nextID      atomic.Int64
	published   atomic.Int64
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[int64]chan Event),
	}
}

// Subscribe registers a new client. The channel is buffered; slow consumers
// have events dropped.
func (b *Broker) Subscribe() (int64, <-chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, subscriberBufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers without blocking.
func (b *Broker) Publish(evt Event) {
	b.published.Add(1)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			slog.Debug("relay dropped event for slow subscriber", "subscriber", id, "kind", evt.Kind)
		}
	}
}

// Emit publishes a notifier event, so a Broker can be used as a notifier.Sink.
func (b *Broker) Emit(e notifier.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		slog.Debug("relay marshal failed", "kind", e.Kind, "error", err)
		return
	}
	b.Publish(Event{ID: e.ID, Kind: e.Kind, Payload: payload})
}

// ClientCount returns the number of active subscribers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Published returns how many events have been published.
func (b *Broker) Published() int64 { return b.published.Load() }
