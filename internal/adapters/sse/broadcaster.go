// Package sse fans session events out to Server-Sent Events subscribers.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/randomtoy/oura/internal/app"
)

// BufferSize is the per-subscriber queue length.
const BufferSize = 32

// Message is one SSE frame.
type Message struct {
	Event string
	Data  []byte
}

// Write encodes m in the text/event-stream format.
func (m Message) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", m.Event, m.Data)
	return err
}

type subscriber struct {
	ch chan Message
}

// Broadcaster is an app.Publisher. Publish never blocks: a subscriber whose
// queue is full misses the message.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	logger *slog.Logger
}

func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subs:   make(map[string]map[*subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers a listener for session id. The channel is closed when
// the session is closed or cancel is called.
func (b *Broadcaster) Subscribe(id string) (<-chan Message, func()) {
	sub := &subscriber{ch: make(chan Message, BufferSize)}

	b.mu.Lock()
	if b.subs[id] == nil {
		b.subs[id] = make(map[*subscriber]struct{})
	}
	b.subs[id][sub] = struct{}{}
	count := len(b.subs[id])
	b.mu.Unlock()

	b.logger.Debug("sse client added", "session", id, "clients", count)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if set, ok := b.subs[id]; ok {
				if _, ok := set[sub]; ok {
					delete(set, sub)
					close(sub.ch)
				}
				if len(set) == 0 {
					delete(b.subs, id)
				}
			}
		})
	}
	return sub.ch, cancel
}

// Clients counts subscribers of session id.
func (b *Broadcaster) Clients(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[id])
}

func (b *Broadcaster) Publish(e app.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		b.logger.Error("encode sse event", "session", e.Session, "error", err)
		return
	}
	msg := Message{Event: string(e.Type), Data: data}

	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.subs[e.Session]
	sent := 0
	for sub := range set {
		select {
		case sub.ch <- msg:
			sent++
		default:
			b.logger.Debug("sse client lagging, message dropped", "session", e.Session, "event", msg.Event)
		}
	}
	if e.Type == app.EventClosed {
		for sub := range set {
			close(sub.ch)
		}
		delete(b.subs, e.Session)
	}
	if len(set) > 0 {
		b.logger.Debug("sse broadcast", "session", e.Session, "event", msg.Event, "sent", sent, "clients", len(set))
	}
}
