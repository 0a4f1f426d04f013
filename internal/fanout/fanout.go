// Package fanout delivers one logical event to every interested party:
// topic subscribers (GraphQL subscriptions) and registered sinks (the
// websocket hub). A single Publish call drives both, so the two delivery
// channels can never drift apart.
package fanout

import (
	"fmt"
	"sync"
)

type EventKind string

const (
	MessageAdded       EventKind = "message_added"
	OrderStatusUpdated EventKind = "order_status_updated"
)

type Event struct {
	Kind EventKind

	// ReceiverID is set for MessageAdded events.
	ReceiverID uint

	// OrderID is set for OrderStatusUpdated events.
	OrderID uint

	// Payload is the persisted record the event describes.
	Payload interface{}
}

// Topic returns the publish/subscribe topic an event lands on.
func (e Event) Topic() string {
	switch e.Kind {
	case MessageAdded:
		return MessageTopic(e.ReceiverID)
	case OrderStatusUpdated:
		return OrderTopic(e.OrderID)
	}
	return ""
}

func MessageTopic(receiverID uint) string {
	return fmt.Sprintf("message:%d", receiverID)
}

func OrderTopic(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

// Sink is a secondary delivery channel invoked on every publish.
type Sink interface {
	Deliver(event Event)
}

type Fanout struct {
	mu    sync.Mutex
	subs  map[string]map[chan Event]struct{}
	sinks []Sink
}

func New() *Fanout {
	return &Fanout{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// RegisterSink adds a delivery sink. Sinks are called synchronously from
// Publish and must not block.
func (f *Fanout) RegisterSink(sink Sink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, sink)
}

// Subscribe returns a channel of events published on the topic and a
// cancel function that must be called when the subscriber goes away.
func (f *Fanout) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	f.mu.Lock()
	if f.subs[topic] == nil {
		f.subs[topic] = make(map[chan Event]struct{})
	}
	f.subs[topic][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[topic]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
				if len(set) == 0 {
					delete(f.subs, topic)
				}
			}
		}
		f.mu.Unlock()
	}

	return ch, cancel
}

// Publish delivers the event to every topic subscriber and every sink.
// Both legs run under one lock so a reader never observes one delivery
// channel updated without the other having been attempted.
func (f *Fanout) Publish(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subs[event.Topic()] {
		select {
		case ch <- event:
		default:
			// Slow subscriber; drop rather than stall every other channel.
		}
	}

	for _, sink := range f.sinks {
		sink.Deliver(event)
	}
}
