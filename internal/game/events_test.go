package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSubscriber struct {
	events []GameEvent
}

func (c *countingSubscriber) OnEvent(event GameEvent) {
	c.events = append(c.events, event)
}

func TestEventBus_PublishAndUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	first := &countingSubscriber{}
	second := &countingSubscriber{}
	var funcEvents []EventType

	bus.Subscribe(first)
	bus.Subscribe(SubscriberFunc(func(event GameEvent) {
		funcEvents = append(funcEvents, event.EventType())
	}))
	bus.Subscribe(second)

	bus.Publish(NewEffectEvent(Effect{Kind: EffectMatch, Cards: []int{1, 4}}, 1, testEpochTime))
	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, []EventType{"match"}, funcEvents)

	bus.Unsubscribe(second)
	bus.Unsubscribe(SubscriberFunc(func(GameEvent) {}))
	bus.Publish(NewEffectEvent(Effect{Kind: EffectReset}, 2, testEpochTime))

	assert.Len(t, first.events, 2)
	assert.Len(t, second.events, 1)
	assert.Len(t, funcEvents, 2)
}

func TestNewEffectEvent_CopiesCards(t *testing.T) {
	cards := []int{2, 3}
	event := NewEffectEvent(Effect{Kind: EffectMismatch, Cards: cards}, 7, testEpochTime)
	cards[0] = 9

	assert.Equal(t, []int{2, 3}, event.Effect.Cards)
	assert.Equal(t, uint64(7), event.Epoch)
	assert.Equal(t, testEpochTime, event.Timestamp())
	assert.Equal(t, "mismatch", event.EventType().String())
}
