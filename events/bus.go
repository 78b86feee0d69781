package events

import (
	"log"
	"sync"
)

// Handler receives the topic it was delivered on plus the payload, so a
// wildcard subscriber can tell emissions apart.
type Handler func(topic Topic, payload interface{})

type subscriber struct {
	id   int
	fn   Handler
	once bool
}

// Bus is a process-local synchronous pub/sub. Delivery is FIFO within a topic;
// a panicking handler is logged and never prevents later handlers from running.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic][]subscriber
}

func NewBus() *Bus {
	return &Bus{subs: map[Topic][]subscriber{}}
}

// On registers a handler and returns an unsubscribe func.
func (b *Bus) On(topic Topic, fn Handler) func() {
	return b.register(topic, fn, false)
}

// Once registers a handler that is removed after its first delivery.
func (b *Bus) Once(topic Topic, fn Handler) func() {
	return b.register(topic, fn, true)
}

func (b *Bus) register(topic Topic, fn Handler, once bool) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn, once: once})
	return func() { b.removeByID(topic, id) }
}

// Off removes all handlers for a topic.
func (b *Bus) Off(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, topic)
}

func (b *Bus) removeByID(topic Topic, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[topic]
	for i, s := range list {
		if s.id == id {
			b.subs[topic] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Emit delivers payload to the topic's subscribers in subscription order, then
// to wildcard subscribers. Synchronous: it returns after the last handler.
func (b *Bus) Emit(topic Topic, payload interface{}) {
	if topic == TopicAll {
		return
	}
	b.dispatch(topic, topic, payload)
	b.dispatch(TopicAll, topic, payload)
}

func (b *Bus) dispatch(key, topic Topic, payload interface{}) {
	b.mu.Lock()
	list := make([]subscriber, len(b.subs[key]))
	copy(list, b.subs[key])
	kept := b.subs[key][:0]
	for _, s := range b.subs[key] {
		if !s.once {
			kept = append(kept, s)
		}
	}
	b.subs[key] = kept
	b.mu.Unlock()

	for _, s := range list {
		b.deliver(s, topic, payload)
	}
}

func (b *Bus) deliver(s subscriber, topic Topic, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event handler panic on %q: %v", topic, r)
		}
	}()
	s.fn(topic, payload)
}
