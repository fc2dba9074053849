package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/application/fxrate"
	"github.com/robert8597/swifthackathon/internal/application/intake"
	"github.com/robert8597/swifthackathon/internal/eventbus"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
	"github.com/robert8597/swifthackathon/internal/server/handlers"
	"github.com/robert8597/swifthackathon/internal/server/middleware"
	"github.com/robert8597/swifthackathon/internal/server/websocket"
	"github.com/robert8597/swifthackathon/pkg/config"
)

type Server struct {
	IntakeSvc    intake.IIntakeService
	MessageRepo  messagerepo.IMessageRepository
	RateProvider fxrate.IRateProvider
	Bus          eventbus.IEventBus
	Hub          *websocket.Hub
	Cfg          *config.Config
	Logger       zerolog.Logger
	Router       *gin.Engine
	httpServer   *http.Server
}

func New(
	cfg *config.Config,
	intakeSvc intake.IIntakeService,
	messageRepo messagerepo.IMessageRepository,
	rateProvider fxrate.IRateProvider,
	bus eventbus.IEventBus,
	hub *websocket.Hub,
	logger zerolog.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		Cfg:          cfg,
		IntakeSvc:    intakeSvc,
		MessageRepo:  messageRepo,
		RateProvider: rateProvider,
		Bus:          bus,
		Hub:          hub,
		Logger:       logger,
		Router:       gin.New(),
	}
}

func (s *Server) SetupRouter() {
	mw := middleware.NewMiddleware(s.Cfg.Security, s.Logger)
	mw.SetupMiddleware(s.Router)

	handler := handlers.New(
		s.IntakeSvc,
		s.MessageRepo,
		s.RateProvider,
		s.Hub,
		s.Logger,
		s.Cfg,
	)
	handler.SetupHandlers(s.Router)
}

func (s *Server) Start() {
	s.SetupRouter()

	s.httpServer = &http.Server{
		Addr:         s.Cfg.Server.Host + ":" + s.Cfg.Server.Port,
		Handler:      s.Router,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	s.Logger.Info().Msgf("Starting server on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-stopChan
	s.Logger.Info().Msg("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop accepting new work, then let in-flight pipeline stages drain.
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	s.Bus.Shutdown(ctx)

	s.Logger.Info().Msg("Server exited gracefully")
}
