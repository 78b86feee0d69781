package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitFIFOWithinTopic(t *testing.T) {
	bus := NewBus()
	var order []int

	bus.On(TopicDraftSaved, func(Topic, interface{}) { order = append(order, 1) })
	bus.On(TopicDraftSaved, func(Topic, interface{}) { order = append(order, 2) })
	bus.On(TopicDraftSaved, func(Topic, interface{}) { order = append(order, 3) })

	bus.Emit(TopicDraftSaved, nil)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestOnceDeliversExactlyOnce(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Once(TopicDraftCreated, func(Topic, interface{}) { calls++ })

	bus.Emit(TopicDraftCreated, nil)
	bus.Emit(TopicDraftCreated, nil)
	assert.Equal(t, 1, calls)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	off := bus.On(TopicStepSaved, func(Topic, interface{}) { calls++ })

	bus.Emit(TopicStepSaved, nil)
	off()
	bus.Emit(TopicStepSaved, nil)
	assert.Equal(t, 1, calls)
}

func TestOffRemovesAllHandlers(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.On(TopicStepSaved, func(Topic, interface{}) { calls++ })
	bus.On(TopicStepSaved, func(Topic, interface{}) { calls++ })

	bus.Off(TopicStepSaved)
	bus.Emit(TopicStepSaved, nil)
	assert.Zero(t, calls)
}

func TestPanicDoesNotStopLaterHandlers(t *testing.T) {
	bus := NewBus()
	reached := false
	bus.On(TopicDraftSaved, func(Topic, interface{}) { panic("boom") })
	bus.On(TopicDraftSaved, func(Topic, interface{}) { reached = true })

	bus.Emit(TopicDraftSaved, nil)
	assert.True(t, reached)
}

func TestWildcardReceivesEverything(t *testing.T) {
	bus := NewBus()
	var seen []Topic
	bus.On(TopicAll, func(topic Topic, _ interface{}) { seen = append(seen, topic) })

	bus.Emit(TopicDraftCreated, nil)
	bus.Emit(TopicStepEntered, nil)
	require.Len(t, seen, 2)
	assert.Equal(t, TopicDraftCreated, seen[0])
	assert.Equal(t, TopicStepEntered, seen[1])
}

func TestEmitWildcardIsNoop(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.On(TopicAll, func(Topic, interface{}) { calls++ })

	bus.Emit(TopicAll, nil)
	assert.Zero(t, calls)
}

func TestPayloadDelivered(t *testing.T) {
	bus := NewBus()
	var got DraftEvent
	bus.On(TopicDraftPublished, func(_ Topic, payload interface{}) {
		got = payload.(DraftEvent)
	})

	bus.Emit(TopicDraftPublished, DraftEvent{UserID: "u1", DraftID: "d1", ItineraryID: "i1"})
	assert.Equal(t, "d1", got.DraftID)
	assert.Equal(t, "i1", got.ItineraryID)
}
