package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/application/fx"
	"github.com/robert8597/swifthackathon/internal/application/fxrate"
	"github.com/robert8597/swifthackathon/internal/application/intake"
	"github.com/robert8597/swifthackathon/internal/application/ledger"
	"github.com/robert8597/swifthackathon/internal/application/statuswatch"
	"github.com/robert8597/swifthackathon/internal/application/verification"
	"github.com/robert8597/swifthackathon/internal/eventbus"
	"github.com/robert8597/swifthackathon/internal/infrastructure/clients"
	"github.com/robert8597/swifthackathon/internal/iso20022"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
	"github.com/robert8597/swifthackathon/internal/server"
	"github.com/robert8597/swifthackathon/internal/server/websocket"
	"github.com/robert8597/swifthackathon/pkg/config"
	"github.com/robert8597/swifthackathon/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(cfg.Logger)

	messageRepo := messagerepo.New(cfg.Storage.Path, log)

	rateProvider, err := fxrate.Load(cfg.Rates.FilePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load FX rate table")
	}

	leiClient := clients.NewGleifClient(cfg.Gleif, log)
	codec := iso20022.NewCodec()
	bus := eventbus.New(cfg.EventBus.Workers, cfg.EventBus.QueueSize, log)
	hub := websocket.NewHub(cfg.WebSocket, log)

	intakeSvc := intake.NewIntakeService(messageRepo, codec, bus, cfg.Local, log)
	verificationSvc := verification.NewVerificationService(messageRepo, leiClient, bus, log)
	ledgerSvc := ledger.NewValidationService(messageRepo, bus, log)
	fxSvc := fx.NewFXService(messageRepo, rateProvider, codec, log)

	wireSubscriptions(bus, verificationSvc, ledgerSvc, fxSvc, log)
	statuswatch.NewStatusWatcher(messageRepo, hub, log).Register(bus)

	srv := server.New(cfg, intakeSvc, messageRepo, rateProvider, bus, hub, log)
	srv.Start()
}

// wireSubscriptions connects the pipeline stages explicitly. Both the
// ledger validation and the FX conversion stage react to lei.verified:
// conversion is deliberately not gated on the ledger outcome, preserving
// the original pipeline ordering. blockchain.validated only feeds the
// status stream.
func wireSubscriptions(
	bus eventbus.IEventBus,
	verificationSvc verification.IVerificationService,
	ledgerSvc ledger.IValidationService,
	fxSvc fx.IFXService,
	log zerolog.Logger,
) {
	bus.Subscribe(eventbus.TopicMessageStored, func(ctx context.Context, messageID string) {
		if err := verificationSvc.VerifyLEIsForMessage(ctx, messageID); err != nil {
			log.Error().Err(err).Str("message_id", messageID).Msg("LEI verification stage failed")
		}
	})

	bus.Subscribe(eventbus.TopicLEIVerified, func(ctx context.Context, messageID string) {
		if err := ledgerSvc.ValidateTransaction(ctx, messageID); err != nil {
			log.Error().Err(err).Str("message_id", messageID).Msg("Blockchain validation stage failed")
		}
	})

	bus.Subscribe(eventbus.TopicLEIVerified, func(ctx context.Context, messageID string) {
		if err := fxSvc.HandleFxTradeCreation(ctx, messageID); err != nil {
			log.Error().Err(err).Str("message_id", messageID).Msg("FX conversion stage failed")
		}
	})
}
