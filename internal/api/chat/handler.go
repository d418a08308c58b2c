package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trustchat/internal/domain"
	"trustchat/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Chat)
	r.GET("/:session_id/history", h.History)
	r.DELETE("/:session_id", h.Clear)
}

// Chat runs the answer pipeline for one user message
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// History returns a session's turn log
func (h *Handler) History(c *gin.Context) {
	turns, err := h.chatService.History(c.Param("session_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	type turnView struct {
		ID        string `json:"id"`
		Sender    string `json:"sender"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	}
	views := make([]turnView, 0, len(turns))
	for _, t := range turns {
		views = append(views, turnView{
			ID:        t.ID,
			Sender:    t.Sender.String(),
			Text:      t.Text,
			CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"turns": views})
}

// Clear empties a session's turn log
func (h *Handler) Clear(c *gin.Context) {
	if err := h.chatService.ClearHistory(c.Param("session_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var stageErr *domain.StageError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBackendUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &stageErr):
		// Stage failures carry the pseudo-sender the UI attributes them to.
		c.JSON(http.StatusBadGateway, gin.H{
			"error": stageErr.Err.Error(),
			"stage": string(stageErr.Stage),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
