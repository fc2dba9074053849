package statuswatch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/domain"
	"github.com/robert8597/swifthackathon/internal/eventbus"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
)

// INotifier receives status updates as messages advance through the
// pipeline. The WebSocket hub implements it.
type INotifier interface {
	Broadcast(update *domain.StatusUpdate)
}

// StatusWatcher listens on every pipeline topic and pushes the current
// persisted status of the affected message to connected clients. It is a
// passive observer: it never mutates records.
type StatusWatcher struct {
	messageRepo messagerepo.IMessageRepository
	notifier    INotifier
	logger      zerolog.Logger
}

func NewStatusWatcher(messageRepo messagerepo.IMessageRepository, notifier INotifier, logger zerolog.Logger) *StatusWatcher {
	return &StatusWatcher{
		messageRepo: messageRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Register subscribes the watcher to all pipeline topics.
func (w *StatusWatcher) Register(bus eventbus.IEventBus) {
	for _, topic := range []string{
		eventbus.TopicMessageStored,
		eventbus.TopicLEIVerified,
		eventbus.TopicBlockchainValidated,
	} {
		topic := topic
		bus.Subscribe(topic, func(ctx context.Context, messageID string) {
			w.broadcast(topic, messageID)
		})
	}
}

func (w *StatusWatcher) broadcast(topic, messageID string) {
	message, err := w.messageRepo.GetByID(messageID)
	if err != nil {
		w.logger.Warn().Err(err).Str("message_id", messageID).Msg("Could not load message for status broadcast")
		return
	}

	w.notifier.Broadcast(&domain.StatusUpdate{
		Type:              topic,
		MessageID:         messageID,
		TransactionStatus: message.TransactionStatus,
		Timestamp:         time.Now(),
	})
}
