package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow-io/deskflow/pkg/eventbus"
)

type createdEvent struct {
	ID string
}

type deletedEvent struct {
	ID string
}

func TestEventPublisher_DispatchesByArgumentType(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())

	var created []createdEvent
	var deleted []deletedEvent
	bus.Subscribe(func(e createdEvent) {
		created = append(created, e)
	})
	bus.Subscribe(func(e deletedEvent) {
		deleted = append(deleted, e)
	})

	bus.Publish(createdEvent{ID: "a"})
	bus.Publish(createdEvent{ID: "b"})
	bus.Publish(deletedEvent{ID: "a"})

	require.Len(t, created, 2)
	assert.Equal(t, "a", created[0].ID)
	assert.Equal(t, "b", created[1].ID)
	require.Len(t, deleted, 1)
	assert.Equal(t, "a", deleted[0].ID)
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())

	calls := 0
	handler := func(createdEvent) {
		calls++
	}
	bus.Subscribe(handler)
	assert.Equal(t, 1, bus.SubscribersCount())

	bus.Publish(createdEvent{})
	bus.Unsubscribe(handler)
	bus.Publish(createdEvent{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestEventPublisher_InterfaceParameters(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())

	var seen []interface{}
	bus.Subscribe(func(e interface{}) {
		seen = append(seen, e)
	})

	bus.Publish(createdEvent{ID: "a"})
	bus.Publish(deletedEvent{ID: "b"})

	assert.Len(t, seen, 2)
}

func TestEventPublisher_NonFunctionSubscriberPanics(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())
	assert.Panics(t, func() {
		bus.Subscribe("not a function")
	})
}
