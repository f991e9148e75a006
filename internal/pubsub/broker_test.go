package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receive pulls one event off ch or fails the test after a short wait.
func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
		return Event[T]{}
	}
}

func TestBroker_Subscribe(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := broker.Subscribe(ctx)

	broker.Publish(UpdatedEvent, ".pastille/config.yaml")

	event := receive(t, ch)
	assert.Equal(t, ".pastille/config.yaml", event.Payload)
	assert.Equal(t, UpdatedEvent, event.Type)
	assert.False(t, event.Timestamp.IsZero())
}

func TestBroker_FansOutToAllSubscribers(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx := context.Background()
	ch1 := broker.Subscribe(ctx)
	ch2 := broker.Subscribe(ctx)
	ch3 := broker.Subscribe(ctx)
	require.Equal(t, 3, broker.SubscriberCount())

	broker.Publish(CreatedEvent, "INFO [ui] ready\n")

	for _, ch := range []<-chan Event[string]{ch1, ch2, ch3} {
		event := receive(t, ch)
		assert.Equal(t, "INFO [ui] ready\n", event.Payload)
		assert.Equal(t, CreatedEvent, event.Type)
	}
}

func TestBroker_ContextCancelDropsSubscription(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()
	time.Sleep(20 * time.Millisecond) // let the cleanup goroutine run

	assert.Equal(t, 0, broker.SubscriberCount())
	_, open := <-ch
	assert.False(t, open)
}

func TestBroker_PublishNeverBlocks(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	broker.Publish(UpdatedEvent, 1) // fills the buffer

	done := make(chan struct{})
	go func() {
		broker.Publish(UpdatedEvent, 2)
		broker.Publish(UpdatedEvent, 3)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Publish blocked on a full subscriber")
	}

	// Only the buffered event survived.
	assert.Equal(t, 1, receive(t, ch).Payload)
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()
	ctx := context.Background()

	ch1 := broker.Subscribe(ctx)
	ch2 := broker.Subscribe(ctx)
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Close()

	_, open1 := <-ch1
	_, open2 := <-ch2
	assert.False(t, open1)
	assert.False(t, open2)
	assert.Equal(t, 0, broker.SubscriberCount())

	_, open3 := <-broker.Subscribe(ctx)
	assert.False(t, open3, "subscribing after Close should yield a closed channel")

	broker.Publish(UpdatedEvent, "late") // must not panic
}

func TestBroker_CloseIdempotent(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()
	broker.Close()

	_, open := <-ch
	assert.False(t, open)
}
