package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/robert8597/swifthackathon/internal/server/websocket"
)

type WebSocketHandler struct {
	hub *websocket.Hub
}

func NewWebSocketHandler(hub *websocket.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	h.hub.HandleConnection(c.Writer, c.Request)
}
