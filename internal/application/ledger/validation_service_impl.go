package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/domain"
	"github.com/robert8597/swifthackathon/internal/eventbus"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
)

// EVM-style transaction hashes: 0x followed by 64 hex characters.
const evmTxHashLength = 66

type validationService struct {
	messageRepo messagerepo.IMessageRepository
	bus         eventbus.IEventBus
	logger      zerolog.Logger
}

func NewValidationService(
	messageRepo messagerepo.IMessageRepository,
	bus eventbus.IEventBus,
	logger zerolog.Logger,
) IValidationService {
	return &validationService{
		messageRepo: messageRepo,
		bus:         bus,
		logger:      logger,
	}
}

// ValidateTransaction runs the blockchain validation stage for one message.
// A failed validation fails the whole workflow and halts the pipeline: no
// event is published.
func (s *validationService) ValidateTransaction(ctx context.Context, messageID string) error {
	s.logger.Info().Str("message_id", messageID).Msg("Starting blockchain transaction validation")

	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		s.logger.Error().Err(err).Str("message_id", messageID).Msg("Could not load message for blockchain validation")
		return err
	}

	// No on-ledger reference: the step succeeds by default.
	if message.BlckchnDetails == nil || message.BlckchnDetails.TxID == "" {
		s.logger.Info().Str("message_id", messageID).Msg("No blockchain details found, skipping validation")
		message.BlckchnTransactionValidationStatus = domain.BlockchainSkipped
		message.AddAuditEntry("Skipping Blockchain Validation", "No blockchain transaction reference present on this message")
		if err := s.messageRepo.Update(message); err != nil {
			return err
		}
		s.bus.Publish(eventbus.TopicBlockchainValidated, messageID)
		return nil
	}

	// Outbound messages settle on the counterparty's ledger; validation is
	// not applicable.
	if message.Direction == domain.DirectionOutbound {
		s.logger.Info().Str("message_id", messageID).Msg("Outbound message, no blockchain validation necessary")
		message.BlckchnTransactionValidationStatus = domain.BlockchainSkipped
		message.AddAuditEntry("Skipping Blockchain Validation due to Outbound Message",
			fmt.Sprintf("Outbound Message, no blockchain validation necessary for messageId: %s", messageID))
		if err := s.messageRepo.Update(message); err != nil {
			return err
		}
		s.bus.Publish(eventbus.TopicBlockchainValidated, messageID)
		return nil
	}

	message.TransactionStatus = domain.StatusBlockchainTxnValidating
	message.AddAuditEntry("Blockchain Validation Started",
		fmt.Sprintf("Validating transaction hash on the network %s", message.BlckchnDetails.Network))
	if err := s.messageRepo.Update(message); err != nil {
		return err
	}

	valid := validateTxHash(message.BlckchnDetails.TxID, message.BlckchnDetails.Network)

	if valid {
		s.logger.Info().Str("message_id", messageID).Msg("Blockchain transaction hash is valid")
		message.BlckchnTransactionValidationStatus = domain.BlockchainValidated
		message.AddAuditEntry("Blockchain Validation Succeeded", "Transaction hash is valid.")
	} else {
		s.logger.Error().Str("message_id", messageID).Msg("Blockchain transaction hash is invalid")
		message.BlckchnTransactionValidationStatus = domain.BlockchainFailed
		message.TransactionStatus = domain.StatusFailed
		message.AddAuditEntry("Blockchain Validation Failed", "Transaction hash is invalid.")
	}

	if err := s.messageRepo.Update(message); err != nil {
		return err
	}

	if valid {
		s.bus.Publish(eventbus.TopicBlockchainValidated, messageID)
	}
	return nil
}

// validateTxHash is a deterministic structural check standing in for a
// blockchain explorer call: the reference must carry the 0x prefix and the
// fixed hash length of the network's format.
func validateTxHash(txID, network string) bool {
	return strings.HasPrefix(txID, "0x") && len(txID) == evmTxHashLength
}
