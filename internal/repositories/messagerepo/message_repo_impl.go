package messagerepo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/domain"
)

const storageFileName = "messages.json"

// messageRepositoryImpl persists all records as one JSON array in a single
// file. Every operation reads the entire collection, mutates it in memory
// and writes it back under one mutex, so a reader never observes a
// partially written collection. The file is the durable state; nothing is
// cached between operations.
type messageRepositoryImpl struct {
	storagePath string
	fileLock    sync.Mutex
	logger      zerolog.Logger
}

func New(storagePath string, logger zerolog.Logger) IMessageRepository {
	return &messageRepositoryImpl{
		storagePath: storagePath,
		logger:      logger,
	}
}

func (r *messageRepositoryImpl) Put(message *domain.StoredMessage) error {
	if message == nil || message.MessageID == "" {
		return fmt.Errorf("cannot store a message without an id")
	}

	r.fileLock.Lock()
	defer r.fileLock.Unlock()

	messages, err := r.readMessages()
	if err != nil {
		return err
	}

	for i := range messages {
		if messages[i].MessageID == message.MessageID {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, message.MessageID)
		}
	}

	messages = append(messages, *message)
	if err := r.writeMessages(messages); err != nil {
		return err
	}

	r.logger.Info().Str("message_id", message.MessageID).Str("path", r.storageFilePath()).Msg("Stored message")
	return nil
}

func (r *messageRepositoryImpl) GetByID(messageID string) (*domain.StoredMessage, error) {
	r.fileLock.Lock()
	defer r.fileLock.Unlock()

	messages, err := r.readMessages()
	if err != nil {
		return nil, err
	}

	for i := range messages {
		if messages[i].MessageID == messageID {
			found := messages[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, messageID)
}

func (r *messageRepositoryImpl) ListAll() ([]domain.StoredMessage, error) {
	r.fileLock.Lock()
	defer r.fileLock.Unlock()

	return r.readMessages()
}

func (r *messageRepositoryImpl) Update(message *domain.StoredMessage) error {
	if message == nil || message.MessageID == "" {
		return fmt.Errorf("cannot update a message without an id")
	}

	r.fileLock.Lock()
	defer r.fileLock.Unlock()

	messages, err := r.readMessages()
	if err != nil {
		return err
	}

	for i := range messages {
		if messages[i].MessageID == message.MessageID {
			messages[i] = *message
			return r.writeMessages(messages)
		}
	}

	r.logger.Warn().Str("message_id", message.MessageID).Msg("Message to update not found, no changes were made")
	return fmt.Errorf("%w: %s", ErrNotFound, message.MessageID)
}

// readMessages loads the whole collection. Caller must hold fileLock.
func (r *messageRepositoryImpl) readMessages() ([]domain.StoredMessage, error) {
	data, err := os.ReadFile(r.storageFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.StoredMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read message store: %w", err)
	}
	if len(data) == 0 {
		return []domain.StoredMessage{}, nil
	}

	var messages []domain.StoredMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode message store: %w", err)
	}
	return messages, nil
}

// writeMessages replaces the whole collection. The temp-file rename keeps a
// crashed write from truncating the store. Caller must hold fileLock.
func (r *messageRepositoryImpl) writeMessages(messages []domain.StoredMessage) error {
	if err := os.MkdirAll(r.storagePath, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode message store: %w", err)
	}

	tmp := r.storageFilePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write message store: %w", err)
	}
	if err := os.Rename(tmp, r.storageFilePath()); err != nil {
		return fmt.Errorf("failed to replace message store: %w", err)
	}
	return nil
}

func (r *messageRepositoryImpl) storageFilePath() string {
	return filepath.Join(r.storagePath, storageFileName)
}
