package fx

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/application/fxrate"
	"github.com/robert8597/swifthackathon/internal/domain"
	"github.com/robert8597/swifthackathon/internal/iso20022"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
	"github.com/robert8597/swifthackathon/pkg/currency"
)

type fxService struct {
	messageRepo  messagerepo.IMessageRepository
	rateProvider fxrate.IRateProvider
	codec        *iso20022.Codec
	logger       zerolog.Logger
}

func NewFXService(
	messageRepo messagerepo.IMessageRepository,
	rateProvider fxrate.IRateProvider,
	codec *iso20022.Codec,
	logger zerolog.Logger,
) IFXService {
	return &fxService{
		messageRepo:  messageRepo,
		rateProvider: rateProvider,
		codec:        codec,
		logger:       logger,
	}
}

// HandleFxTradeCreation runs the conversion stage for one message: re-decode
// the stored pacs.008, look up the fixed rate, derive the fxtr.014 trade
// instruction and complete the workflow. Any failure along the path fails
// the workflow with the reason on the audit trail. The record is persisted
// once at the start (in-progress marker) and once at the end of the attempt.
func (s *fxService) HandleFxTradeCreation(ctx context.Context, messageID string) error {
	s.logger.Info().Str("message_id", messageID).Msg("Starting FX trade instruction creation")

	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		s.logger.Error().Err(err).Str("message_id", messageID).Msg("Could not load message for FX creation")
		return err
	}

	message.TransactionStatus = domain.StatusFxMessageCreationRunning
	message.AddAuditEntry("FX Conversion Creation Started", "Beginning creation of fxtr.014 message.")
	if err := s.messageRepo.Update(message); err != nil {
		return err
	}

	if err := s.createTradeInstruction(message); err != nil {
		s.logger.Error().Err(err).Str("message_id", messageID).Msg("Failed to create FX trade instruction")
		message.TransactionStatus = domain.StatusFailed
		message.AddAuditEntry("FX Conversion Creation Failed", err.Error())
	}

	return s.messageRepo.Update(message)
}

// createTradeInstruction mutates the message in memory only; the caller
// persists the outcome exactly once.
func (s *fxService) createTradeInstruction(message *domain.StoredMessage) error {
	payload, err := base64.StdEncoding.DecodeString(message.Payload)
	if err != nil {
		return fmt.Errorf("stored payload is not valid base64: %w", err)
	}

	pacs008, err := s.codec.DecodePacs008(payload, iso20022.SchemaPacs008)
	if err != nil {
		return fmt.Errorf("failed to decode stored pacs.008: %w", err)
	}

	sourceCcy := message.Ccy
	targetCcy := message.TargetCcy
	txInf := pacs008.FIToFICstmrCdtTrf.CdtTrfTxInf[0]

	// A digital source leg settles with the XXX sentinel on the document;
	// only fiat legs are cross-checked against the extracted currency.
	if txInf.IntrBkSttlmAmt.Ccy == currency.NoCurrencyCode {
		s.logger.Info().Str("message_id", message.MessageID).Msg("Message has a digital token as source currency")
	} else if txInf.IntrBkSttlmAmt.Ccy != sourceCcy {
		return fmt.Errorf("message %s has mismatching source currency information", message.MessageID)
	}

	rate, ok := s.rateProvider.GetRate(sourceCcy, targetCcy)
	if !ok {
		return fmt.Errorf("no FX rate found for %s to %s", sourceCcy, targetCcy)
	}

	fxtr014, err := iso20022.BuildTradeInstruction(pacs008, sourceCcy, targetCcy, rate)
	if err != nil {
		return err
	}

	agreedRate := fxtr014.FXTradInstr.AgrdRate.XchgRate
	tradeDate := fxtr014.FXTradInstr.TradInf.TradDt
	message.FxRate = &agreedRate
	message.FxTradeDate = tradeDate.Format("2006-01-02")
	message.AddAuditEntry("FX Conversion initiated",
		fmt.Sprintf("Agreed FX Rate: %s, FX Conversion Date: %s", rate, message.FxTradeDate))

	targetAmt := fxtr014.FXTradInstr.TradAmts.BuyAmount()
	message.TargetAmt = &targetAmt
	message.TargetCcy = targetCcy

	encoded, err := s.codec.EncodeFxtr014(fxtr014)
	if err != nil {
		return err
	}

	message.FxtrPayload = base64.StdEncoding.EncodeToString(encoded)
	message.TransactionStatus = domain.StatusCompleted
	message.AddAuditEntry("FX Conversion Created", "Successfully created fxtr.014 message.")
	message.AddAuditEntry("Transaction completed", "Successfully completed all flows linked to this transaction.")

	s.logger.Info().Str("message_id", message.MessageID).Msg("Successfully created fxtr.014 trade instruction")
	return nil
}
