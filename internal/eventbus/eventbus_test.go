package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	bus := New(2, 16, zerolog.Nop())
	defer bus.Shutdown(context.Background())

	received := make(chan string, 2)
	bus.Subscribe(TopicMessageStored, func(ctx context.Context, messageID string) {
		received <- "first:" + messageID
	})
	bus.Subscribe(TopicMessageStored, func(ctx context.Context, messageID string) {
		received <- "second:" + messageID
	})

	bus.Publish(TopicMessageStored, "msg-1")

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case v := <-received:
			got[v] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
	assert.True(t, got["first:msg-1"])
	assert.True(t, got["second:msg-1"])
}

func TestPublishWithoutSubscribersIsANoop(t *testing.T) {
	bus := New(1, 4, zerolog.Nop())
	defer bus.Shutdown(context.Background())

	assert.NotPanics(t, func() {
		bus.Publish("unknown.topic", "msg-1")
	})
}

func TestFullQueueDropsEvents(t *testing.T) {
	bus := New(1, 1, zerolog.Nop())

	block := make(chan struct{})
	var mu sync.Mutex
	var handled []string

	bus.Subscribe(TopicMessageStored, func(ctx context.Context, messageID string) {
		<-block
		mu.Lock()
		handled = append(handled, messageID)
		mu.Unlock()
	})

	// First event occupies the single worker, second fills the queue.
	bus.Publish(TopicMessageStored, "msg-1")
	time.Sleep(50 * time.Millisecond)
	bus.Publish(TopicMessageStored, "msg-2")

	// The queue is full now: these are dropped, not delivered later.
	bus.Publish(TopicMessageStored, "msg-3")
	bus.Publish(TopicMessageStored, "msg-4")

	close(block)
	bus.Shutdown(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, len(handled), 3)
	assert.Contains(t, handled, "msg-1")
}

func TestHandlerPanicDoesNotKillWorker(t *testing.T) {
	bus := New(1, 4, zerolog.Nop())
	defer bus.Shutdown(context.Background())

	done := make(chan struct{})
	bus.Subscribe(TopicLEIVerified, func(ctx context.Context, messageID string) {
		if messageID == "bad" {
			panic("boom")
		}
		close(done)
	})

	bus.Publish(TopicLEIVerified, "bad")
	bus.Publish(TopicLEIVerified, "good")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker died after handler panic")
	}
}

func TestPublishAfterShutdownIsDropped(t *testing.T) {
	bus := New(1, 4, zerolog.Nop())

	var mu sync.Mutex
	count := 0
	bus.Subscribe(TopicMessageStored, func(ctx context.Context, messageID string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Shutdown(context.Background())

	assert.NotPanics(t, func() {
		bus.Publish(TopicMessageStored, "late")
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, count)
}

func TestShutdownWaitsForInflightHandlers(t *testing.T) {
	bus := New(1, 4, zerolog.Nop())

	var mu sync.Mutex
	finished := false
	bus.Subscribe(TopicMessageStored, func(ctx context.Context, messageID string) {
		time.Sleep(100 * time.Millisecond)
		mu.Lock()
		finished = true
		mu.Unlock()
	})

	bus.Publish(TopicMessageStored, "msg-1")
	time.Sleep(20 * time.Millisecond)
	bus.Shutdown(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, finished)
}
