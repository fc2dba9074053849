package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/application/fxrate"
	"github.com/robert8597/swifthackathon/internal/application/intake"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
	"github.com/robert8597/swifthackathon/internal/server/middleware"
	"github.com/robert8597/swifthackathon/internal/server/websocket"
	"github.com/robert8597/swifthackathon/pkg/config"
)

type Handlers struct {
	IntakeSvc    intake.IIntakeService
	MessageRepo  messagerepo.IMessageRepository
	RateProvider fxrate.IRateProvider
	Hub          *websocket.Hub
	Logger       zerolog.Logger
	Config       *config.Config
}

func New(
	intakeSvc intake.IIntakeService,
	messageRepo messagerepo.IMessageRepository,
	rateProvider fxrate.IRateProvider,
	hub *websocket.Hub,
	logger zerolog.Logger,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		IntakeSvc:    intakeSvc,
		MessageRepo:  messageRepo,
		RateProvider: rateProvider,
		Hub:          hub,
		Logger:       logger,
		Config:       cfg,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	mw := middleware.NewMiddleware(h.Config.Security, h.Logger)

	messageHandler := NewMessageHandler(h.IntakeSvc, h.MessageRepo, h.Logger)
	ratesHandler := NewRatesHandler(h.RateProvider)
	wsHandler := NewWebSocketHandler(h.Hub)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// WebSocket status stream
	router.GET("/status", wsHandler.HandleConnection)

	v1 := router.Group("/v1")
	v1.Use(mw.APIKeyMiddleware())
	{
		v1.POST("/messages", messageHandler.PostMessage)
		v1.GET("/messages", messageHandler.ListMessages)
		v1.GET("/rates", ratesHandler.GetRates)
	}
}
