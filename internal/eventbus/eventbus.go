package eventbus

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Topics the pipeline stages publish and subscribe on.
const (
	TopicMessageStored       = "message.stored"
	TopicLEIVerified         = "lei.verified"
	TopicBlockchainValidated = "blockchain.validated"
)

// Handler processes one event. Handlers own their error handling; the bus
// only guards against panics so a worker never dies silently.
type Handler func(ctx context.Context, messageID string)

// IEventBus is an in-process, at-most-once, non-durable publish/subscribe
// channel. Publish never blocks on subscriber completion; when the dispatch
// queue is full the event is dropped and logged. Events are not persisted
// and are lost on shutdown.
type IEventBus interface {
	Subscribe(topic string, handler Handler)
	Publish(topic, messageID string)
	Shutdown(ctx context.Context)
}

type task struct {
	topic     string
	messageID string
	handler   Handler
}

type eventBus struct {
	mu          sync.Mutex
	subscribers map[string][]Handler
	dispatch    chan task
	workers     sync.WaitGroup
	closed      bool
	logger      zerolog.Logger
}

func New(workers, queueSize int, logger zerolog.Logger) IEventBus {
	if workers < 1 {
		workers = 1
	}
	b := &eventBus{
		subscribers: make(map[string][]Handler),
		dispatch:    make(chan task, queueSize),
		logger:      logger,
	}

	b.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go b.worker()
	}

	return b
}

// Subscribe registers a handler for a topic. Subscriptions are expected to
// be wired once at start-up, before any publish.
func (b *eventBus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], handler)
}

// Publish enqueues the event for every subscriber of the topic, in
// subscription order. Enqueueing is non-blocking: a full queue drops the
// event for that subscriber (at-most-once delivery).
func (b *eventBus) Publish(topic, messageID string) {
	// Enqueueing happens under the lock so a concurrent Shutdown cannot
	// close the dispatch channel mid-publish.
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.logger.Warn().Str("topic", topic).Str("message_id", messageID).Msg("Event bus closed, dropping event")
		return
	}

	for _, handler := range b.subscribers[topic] {
		select {
		case b.dispatch <- task{topic: topic, messageID: messageID, handler: handler}:
		default:
			b.logger.Warn().Str("topic", topic).Str("message_id", messageID).Msg("Dispatch queue full, dropping event")
		}
	}
}

// Shutdown stops accepting events and waits for in-flight handlers, or
// returns when ctx expires. Queued events still drain; dropped ones are gone.
func (b *eventBus) Shutdown(ctx context.Context) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.dispatch)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn().Msg("Event bus shutdown timed out with handlers still running")
	}
}

func (b *eventBus) worker() {
	defer b.workers.Done()
	for t := range b.dispatch {
		b.run(t)
	}
}

func (b *eventBus) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("topic", t.topic).
				Str("message_id", t.messageID).
				Interface("panic", r).
				Msg("Recovered panic in event handler")
		}
	}()

	t.handler(context.Background(), t.messageID)
}
