package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
		panic("unreachable")
	}
}

func TestHolder_GetReturnsCurrent(t *testing.T) {
	h := NewHolder(42, 0)
	assert.Equal(t, 42, h.Get())

	h.Set(7)
	assert.Equal(t, 7, h.Get())
}

func TestHolder_SubscribeDeliversCurrentThenUpdates(t *testing.T) {
	h := NewHolder("initial", 0)

	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	assert.Equal(t, "initial", receive(t, ch))

	h.Set("second")
	h.Set("third")
	assert.Equal(t, "second", receive(t, ch))
	assert.Equal(t, "third", receive(t, ch))
}

func TestHolder_MultipleSubscribers(t *testing.T) {
	h := NewHolder(1, 0)

	a, unsubA := h.Subscribe()
	b, unsubB := h.Subscribe()
	defer unsubA()
	defer unsubB()

	assert.Equal(t, 1, receive(t, a))
	assert.Equal(t, 1, receive(t, b))

	h.Set(2)
	assert.Equal(t, 2, receive(t, a))
	assert.Equal(t, 2, receive(t, b))
}

func TestHolder_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHolder(1, 0)

	ch, unsubscribe := h.Subscribe()
	require.Equal(t, 1, receive(t, ch))

	unsubscribe()
	h.Set(2)

	_, open := <-ch
	assert.False(t, open)

	// Other readers are unaffected.
	assert.Equal(t, 2, h.Get())
}

func TestHolder_UnsubscribeTwiceIsSafe(t *testing.T) {
	h := NewHolder(1, 0)
	_, unsubscribe := h.Subscribe()

	unsubscribe()
	unsubscribe()
}

func TestHolder_SlowSubscriberKeepsLatest(t *testing.T) {
	h := NewHolder(0, 1)

	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	// Never read while the writer runs ahead of the buffer; the oldest
	// values are evicted so the newest survives.
	for i := 1; i <= 10; i++ {
		h.Set(i)
	}

	assert.Equal(t, 10, receive(t, ch))
}
