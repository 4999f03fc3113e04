package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// testEvent is a simple event type used to exercise the emitter.
type testEvent struct {
	value int
}

// TestEventEmitter ensures that all subscribed handlers are invoked, in subscription order, each time an event is
// published.
func TestEventEmitter(t *testing.T) {
	emitter := EventEmitter[testEvent]{}

	// Subscribe two handlers which record the values they observe.
	received := make([]int, 0)
	emitter.Subscribe(func(e testEvent) {
		received = append(received, e.value)
	})
	emitter.Subscribe(func(e testEvent) {
		received = append(received, e.value*10)
	})

	// Publish two events and verify both handlers observed both, in order.
	emitter.Publish(testEvent{value: 1})
	emitter.Publish(testEvent{value: 2})
	assert.Equal(t, []int{1, 10, 2, 20}, received)
}
