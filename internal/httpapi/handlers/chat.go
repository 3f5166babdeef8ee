package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lokke174/Neimark-hackathon/internal/chat"
	"github.com/lokke174/Neimark-hackathon/pkg/log"
)

// SessionCookie carries the opaque conversation token on the client side.
const SessionCookie = "session_id"

// User-facing strings, localized as in the original service.
const (
	errChatGeneric      = "Произошла ошибка при обработке запроса. Попробуйте еще раз."
	errFeedbackGeneric  = "Ошибка при обработке отзыва"
	errFeedbackNotFound = "Сообщение не найдено"
	msgFeedbackThanks   = "Спасибо за ваш отзыв!"
)

// ChatPage ensures the session token and chat row exist and serves the UI.
func (h *Handler) ChatPage(c *gin.Context) {
	sid, err := c.Cookie(SessionCookie)
	if err != nil || sid == "" {
		sid = uuid.NewString()
		c.SetCookie(SessionCookie, sid, 0, "/", "", false, true)
	}

	if _, err := h.Chat.ResolveOrCreateChat(c.Request.Context(), sid); err != nil {
		log.Error("resolve chat failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errChatGeneric})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{})
}

type chatProxyReq struct {
	Message string `json:"message"`
}

// ChatProxy persists the user turn, forwards it upstream and persists the
// reconciled bot turn. On any upstream or storage failure after the user
// turn, no bot turn is committed and a generic error goes back.
func (h *Handler) ChatProxy(c *gin.Context) {
	sid, err := c.Cookie(SessionCookie)
	if err != nil || sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session not initialized"})
		return
	}

	var req chatProxyReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message not provided"})
		return
	}

	ctx := c.Request.Context()
	chatID, err := h.Chat.ResolveOrCreateChat(ctx, sid)
	if err != nil {
		log.Error("resolve chat failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errChatGeneric})
		return
	}

	res, err := h.Chat.Ask(ctx, sid, chatID, req.Message)
	if err != nil {
		log.Errorw("chat proxy failed",
			"error", err,
			"session_id", sid,
			"request_id", c.GetString("request_id"),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errChatGeneric})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":        res.Answer,
		"sources":       res.Sources,
		"session_id":    sid,
		"response_time": res.ResponseTime,
		"message_id":    res.MessageID,
	})
}

type feedbackReq struct {
	MessageID uint64 `json:"message_id"`
	Type      string `json:"type"`
}

func (h *Handler) Feedback(c *gin.Context) {
	var req feedbackReq
	if err := c.ShouldBindJSON(&req); err != nil || req.MessageID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message ID not provided"})
		return
	}

	if err := h.Chat.SetFeedback(c.Request.Context(), req.MessageID, req.Type); err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyFeedback):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback type not provided"})
		case errors.Is(err, chat.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errFeedbackNotFound})
		default:
			log.Error("update feedback failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errFeedbackGeneric})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": msgFeedbackThanks,
	})
}

// History lists the turns bound to the caller's session token. No token or
// no chat means an empty array, not an error.
func (h *Handler) History(c *gin.Context) {
	sid, err := c.Cookie(SessionCookie)
	if err != nil || sid == "" {
		c.JSON(http.StatusOK, []chat.HistoryEntry{})
		return
	}

	entries, err := h.Chat.HistoryBySession(c.Request.Context(), sid)
	if err != nil {
		log.Error("list history failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errChatGeneric})
		return
	}
	c.JSON(http.StatusOK, entries)
}
