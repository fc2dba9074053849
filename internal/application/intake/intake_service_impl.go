package intake

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/domain"
	"github.com/robert8597/swifthackathon/internal/eventbus"
	"github.com/robert8597/swifthackathon/internal/iso20022"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
	"github.com/robert8597/swifthackathon/pkg/config"
	"github.com/robert8597/swifthackathon/pkg/currency"
)

// impliedRateScale fixes the precision of the implied rate derived from an
// inbound document (settlement / instructed, half-up).
const impliedRateScale = 6

type intakeService struct {
	messageRepo messagerepo.IMessageRepository
	codec       *iso20022.Codec
	bus         eventbus.IEventBus
	local       config.LocalConfig
	logger      zerolog.Logger
}

func NewIntakeService(
	messageRepo messagerepo.IMessageRepository,
	codec *iso20022.Codec,
	bus eventbus.IEventBus,
	local config.LocalConfig,
	logger zerolog.Logger,
) IIntakeService {
	return &intakeService{
		messageRepo: messageRepo,
		codec:       codec,
		bus:         bus,
		local:       local,
		logger:      logger,
	}
}

// SubmitMessage validates the submission synchronously and acknowledges
// with the generated message id; all downstream stages run asynchronously
// off the message.stored event.
func (s *intakeService) SubmitMessage(ctx context.Context, payloadB64 string) (*domain.MessageResponse, error) {
	messageID := uuid.New().String()
	receivedTimestamp := time.Now()

	s.logger.Info().Str("message_id", messageID).Msg("Received payment message")

	raw, err := base64.StdEncoding.DecodeString(payloadB64)
	if err != nil {
		return nil, &RejectionError{Reason: "payload is not valid base64", Cause: err}
	}

	pacs008, err := s.codec.DecodePacs008(raw, iso20022.SchemaPacs008)
	if err != nil {
		return nil, &RejectionError{Reason: "payload is not a valid pacs.008 document", Cause: err}
	}

	message, err := s.buildStoredMessage(messageID, receivedTimestamp, payloadB64, pacs008)
	if err != nil {
		return nil, err
	}

	message.AddAuditEntry("Persisting message to Storage", "This message is now being stored into the storage")
	if err := s.messageRepo.Put(message); err != nil {
		return nil, err
	}

	s.bus.Publish(eventbus.TopicMessageStored, messageID)

	return &domain.MessageResponse{
		MessageReference: messageID,
		SentTimestamp:    receivedTimestamp,
		Success:          true,
	}, nil
}

func (s *intakeService) buildStoredMessage(messageID string, receivedTimestamp time.Time, payloadB64 string, pacs008 *iso20022.Pacs008Document) (*domain.StoredMessage, error) {
	txInf := pacs008.FIToFICstmrCdtTrf.CdtTrfTxInf[0]

	direction, err := s.deriveDirection(&txInf)
	if err != nil {
		return nil, err
	}

	message := &domain.StoredMessage{
		MessageID:         messageID,
		Timestamp:         receivedTimestamp,
		Direction:         direction,
		CreditorAgentBIC:  txInf.CdtrAgt.FinInstnID.BICFI,
		CreditorAgentLEI:  txInf.CdtrAgt.FinInstnID.LEI,
		DebitorAgentBIC:   txInf.DbtrAgt.FinInstnID.BICFI,
		DebitorAgentLEI:   txInf.DbtrAgt.FinInstnID.LEI,
		DebitorLEIStatus:  domain.VerificationUnverified,
		CreditorLEIStatus: domain.VerificationUnverified,
		TransactionStatus: domain.StatusReceived,
		Payload:           payloadB64,
	}
	message.AddAuditEntry("Initial Message Receival", "DFX Service received initial payment message")

	// Source leg: a token id on the debtor account marks a digital-asset
	// leg; the token id doubles as the leg currency.
	if acct := txInf.DbtrAcct; acct != nil && acct.TokenID != "" {
		message.DebitorWallet = acct.WalletID.WalletAddress()
		message.DebitorNetwork = acct.WalletNtwrk.Network()
		message.Ccy = acct.TokenID
	} else if acct != nil {
		message.Ccy = acct.Ccy
	}

	// Target leg, with the remittance FX marker as fallback when the
	// creditor account declares neither currency nor token.
	if acct := txInf.CdtrAcct; acct != nil && acct.TokenID != "" {
		message.CreditorWallet = acct.WalletID.WalletAddress()
		message.CreditorNetwork = acct.WalletNtwrk.Network()
		message.TargetCcy = acct.TokenID
	} else if acct != nil && acct.Ccy != "" {
		message.TargetCcy = acct.Ccy
	} else {
		var lines []string
		if txInf.RmtInf != nil {
			lines = txInf.RmtInf.Ustrd
		}
		_, target, err := currency.ParseFxRemittance(lines)
		if err != nil {
			return nil, &RejectionError{Reason: "cannot determine target currency", Cause: err}
		}
		message.TargetCcy = target
	}

	settlementAmt := txInf.IntrBkSttlmAmt.Value
	message.TargetAmt = &settlementAmt

	// Inbound messages already carry the conversion outcome: record the
	// instructed amount and the implied rate.
	if direction == domain.DirectionInbound {
		message.FxTradeDate = iso20022.NewISODate(receivedTimestamp).Format("2006-01-02")
		if txInf.InstdAmt != nil && !txInf.InstdAmt.Value.IsZero() {
			instdAmt := txInf.InstdAmt.Value
			message.Amt = &instdAmt
			rate := settlementAmt.DivRound(instdAmt, impliedRateScale)
			message.FxRate = &rate
		}
	}

	if txInf.PmtID.TxHash != "" || (txInf.DbtrAcct != nil && txInf.DbtrAcct.TokenID != "") {
		details := &domain.BlockchainTransactionDetails{
			TxID: txInf.PmtID.TxHash,
		}
		if txInf.DbtrAcct != nil {
			details.Token = txInf.DbtrAcct.TokenID
			details.Network = txInf.DbtrAcct.WalletNtwrk.Network()
		}
		message.BlckchnDetails = details
	}

	return message, nil
}

// deriveDirection classifies the message by comparing the agent BICs
// against the configured local institution. A document where the local
// entity is neither agent is rejected.
func (s *intakeService) deriveDirection(txInf *iso20022.CreditTransferTransaction) (domain.Direction, error) {
	switch {
	case txInf.CdtrAgt.FinInstnID.BICFI == s.local.BIC:
		return domain.DirectionInbound, nil
	case txInf.DbtrAgt.FinInstnID.BICFI == s.local.BIC:
		return domain.DirectionOutbound, nil
	default:
		return "", &RejectionError{
			Reason: s.local.LegalName + " is neither Debitor nor Creditor Agent. Aborting...",
		}
	}
}
