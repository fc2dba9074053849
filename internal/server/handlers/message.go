package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/application/intake"
	"github.com/robert8597/swifthackathon/internal/domain"
	"github.com/robert8597/swifthackathon/internal/repositories/messagerepo"
)

type MessageHandler struct {
	intakeSvc   intake.IIntakeService
	messageRepo messagerepo.IMessageRepository
	logger      zerolog.Logger
}

func NewMessageHandler(intakeSvc intake.IIntakeService, messageRepo messagerepo.IMessageRepository, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		intakeSvc:   intakeSvc,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// PostMessage accepts a base64-encoded pacs.008 document. Rejections are
// synchronous; on success the pipeline continues asynchronously.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	var req domain.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	response, err := h.intakeSvc.SubmitMessage(c.Request.Context(), req.Payload)
	if err != nil {
		var rejection *intake.RejectionError
		if errors.As(err, &rejection) {
			h.logger.Warn().Err(err).Msg("Rejected inbound message")
			c.JSON(http.StatusBadRequest, domain.MessageResponse{
				Success:       false,
				SentTimestamp: time.Now(),
				Error:         rejection.Error(),
			})
			return
		}

		h.logger.Error().Err(err).Msg("Failed to process inbound message")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to process message",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListMessages returns every stored message record including status, audit
// trail and derived artifacts.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messageRepo.ListAll()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list stored messages")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list messages",
		})
		return
	}

	c.JSON(http.StatusOK, messages)
}
