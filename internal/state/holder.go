// Package state provides the broadcast value holder backing the booking
// cache slots: a current value plus change notification for any number of
// readers. Holders are owned by the service layer and handed to consumers
// by reference; there are no package-level singletons.
package state

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultBuffer is the per-subscriber channel depth used when none is
// configured.
const DefaultBuffer = 4

// Holder keeps a current value of type T and notifies subscribers on
// every Set. Readers always observe a whole value; writers replace the
// value atomically under the holder lock, so concurrent readers never see
// a torn update.
//
// Delivery is latest-wins per subscriber: when a subscriber's channel is
// full the oldest buffered value is dropped to make room. A subscriber
// that only reads occasionally still ends up at the newest value.
type Holder[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[string]chan T
	buffer int
}

// NewHolder creates a holder seeded with initial.
func NewHolder[T any](initial T, buffer int) *Holder[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Holder[T]{
		value:  initial,
		subs:   make(map[string]chan T),
		buffer: buffer,
	}
}

// Get returns the current value.
func (h *Holder[T]) Get() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

// Set replaces the current value and notifies every subscriber.
func (h *Holder[T]) Set(value T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.value = value
	for _, ch := range h.subs {
		send(ch, value)
	}
}

// Subscribe registers a reader. The returned channel delivers the current
// value immediately, then every subsequent Set until unsubscribe is
// called. Unsubscribing only detaches the reader; it never cancels any
// in-flight remote request feeding the holder.
func (h *Holder[T]) Subscribe() (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := uuid.NewString()
	ch := make(chan T, h.buffer)
	ch <- h.value
	h.subs[key] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[key]; ok {
			delete(h.subs, key)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// send never blocks: on a full channel the oldest value is evicted so the
// newest one always fits.
func send[T any](ch chan T, value T) {
	for {
		select {
		case ch <- value:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
