package verification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/domain"
	"github.com/robert8597/swifthackathon/internal/domain/interfaces"
	"github.com/robert8597/swifthackathon/internal/eventbus"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
)

const (
	partyDebitor  = "debitor"
	partyCreditor = "creditor"
)

type verificationService struct {
	messageRepo messagerepo.IMessageRepository
	leiClient   interfaces.ILEIRegistryClient
	bus         eventbus.IEventBus
	logger      zerolog.Logger
}

func NewVerificationService(
	messageRepo messagerepo.IMessageRepository,
	leiClient interfaces.ILEIRegistryClient,
	bus eventbus.IEventBus,
	logger zerolog.Logger,
) IVerificationService {
	return &verificationService{
		messageRepo: messageRepo,
		leiClient:   leiClient,
		bus:         bus,
		logger:      logger,
	}
}

// VerifyLEIsForMessage runs the LEI verification stage for one message.
// Both parties are verified independently; only when both end VERIFIED is
// the lei.verified event published. The overall status stays in progress in
// that case, the next stage advances it.
func (s *verificationService) VerifyLEIsForMessage(ctx context.Context, messageID string) error {
	s.logger.Info().Str("message_id", messageID).Msg("Starting LEI verification")

	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		s.logger.Error().Err(err).Str("message_id", messageID).Msg("Could not load message for LEI verification")
		return err
	}

	message.TransactionStatus = domain.StatusLEIVerificationRunning
	message.AddAuditEntry("Started LEI Verification", "LEI Verification is now in Progress")
	if err := s.messageRepo.Update(message); err != nil {
		return err
	}

	s.verifySingleLEI(ctx, message, partyCreditor)
	message.AddAuditEntry("Creditor LEI Verification", fmt.Sprintf("Verification status: %s", message.CreditorLEIStatus))

	s.verifySingleLEI(ctx, message, partyDebitor)
	message.AddAuditEntry("Debitor LEI Verification", fmt.Sprintf("Verification status: %s", message.DebitorLEIStatus))

	bothVerified := message.CreditorLEIStatus == domain.VerificationVerified &&
		message.DebitorLEIStatus == domain.VerificationVerified

	if bothVerified {
		s.logger.Info().Str("message_id", messageID).Msg("Both LEIs verified successfully")
	} else {
		s.logger.Error().
			Str("message_id", messageID).
			Str("creditor_status", string(message.CreditorLEIStatus)).
			Str("debitor_status", string(message.DebitorLEIStatus)).
			Msg("LEI verification failed")
		message.TransactionStatus = domain.StatusFailed
	}

	if err := s.messageRepo.Update(message); err != nil {
		return err
	}

	// Publish only after the verified record is persisted so downstream
	// stages read the verification outcome, not a stale copy.
	if bothVerified {
		s.bus.Publish(eventbus.TopicLEIVerified, messageID)
	}

	s.logger.Info().
		Str("message_id", messageID).
		Str("creditor_status", string(message.CreditorLEIStatus)).
		Str("debitor_status", string(message.DebitorLEIStatus)).
		Msg("Completed LEI verification")
	return nil
}

// verifySingleLEI verifies one party and records the outcome on the
// message. All failure modes resolve to a FAILED sub-status; nothing
// escapes the stage boundary.
func (s *verificationService) verifySingleLEI(ctx context.Context, message *domain.StoredMessage, party string) {
	var lei, bic string
	switch party {
	case partyDebitor:
		lei, bic = message.DebitorAgentLEI, message.DebitorAgentBIC
	case partyCreditor:
		lei, bic = message.CreditorAgentLEI, message.CreditorAgentBIC
	default:
		s.logger.Warn().Str("party", party).Msg("Unknown party")
		message.AddAuditEntry("Verification failed", fmt.Sprintf("Party %s is unknown", party))
		return
	}

	if strings.TrimSpace(lei) == "" {
		s.logger.Warn().Str("party", party).Msg("LEI is blank, cannot verify")
		message.AddAuditEntry("Verification failed", "LEI is null or blank, cannot verify.")
		s.setStatus(message, party, domain.VerificationFailed)
		return
	}

	record, err := s.leiClient.LookupLEI(ctx, lei)
	if err != nil {
		s.logger.Error().Err(err).Str("lei", lei).Msg("Error calling LEI registry")
		message.AddAuditEntry("Verification failed", "Error while calling GLEIF API for LEI Verification")
		s.setStatus(message, party, domain.VerificationFailed)
		return
	}

	s.logger.Info().
		Str("lei", lei).
		Str("entity_status", record.Status).
		Str("legal_name", record.LegalName).
		Strs("bics", record.BICs).
		Msg("LEI record resolved")

	if !strings.EqualFold(record.Status, "ACTIVE") {
		message.AddAuditEntry("Verification failed", fmt.Sprintf("LEI %s is not ACTIVE. Status is %s", lei, record.Status))
		s.setStatus(message, party, domain.VerificationFailed)
		return
	}

	if !containsBIC(record.BICs, bic) {
		message.AddAuditEntry("Verification failed", fmt.Sprintf("LEI-assigned BICs %v do not match passed BIC %s", record.BICs, bic))
		s.setStatus(message, party, domain.VerificationFailed)
		return
	}

	if party == partyDebitor {
		message.DebitorAgentLegalName = record.LegalName
	} else {
		message.CreditorAgentLegalName = record.LegalName
	}
	s.setStatus(message, party, domain.VerificationVerified)
}

func (s *verificationService) setStatus(message *domain.StoredMessage, party string, status domain.VerificationStatus) {
	if party == partyDebitor {
		message.DebitorLEIStatus = status
	} else {
		message.CreditorLEIStatus = status
	}
}

func containsBIC(bics []string, bic string) bool {
	if bic == "" {
		return false
	}
	for _, b := range bics {
		if b == bic {
			return true
		}
	}
	return false
}
