// Package handlers implements the HTTP surface of the chat proxy.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokke174/Neimark-hackathon/internal/chat"
	"github.com/lokke174/Neimark-hackathon/internal/config"
)

type Handler struct {
	Cfg  config.Config
	Chat *chat.Service
}

func New(cfg config.Config, svc *chat.Service) *Handler {
	return &Handler{Cfg: cfg, Chat: svc}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
