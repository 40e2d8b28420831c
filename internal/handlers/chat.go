package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uiforge/uiforge/internal/ai"
	"github.com/uiforge/uiforge/internal/stream"
	appErrors "github.com/uiforge/uiforge/pkg/errors"
	"github.com/uiforge/uiforge/pkg/logger"
	"github.com/uiforge/uiforge/pkg/response"
)

// ChatHandler answers platform-assistant conversations.
type ChatHandler struct {
	ai *ai.Client
}

func NewChatHandler(client *ai.Client) *ChatHandler {
	return &ChatHandler{ai: client}
}

type chatRequest struct {
	Messages []chatTurn `json:"messages" validate:"required,min=1,dive"`
}

type chatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=8000"`
}

// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if h.ai == nil {
		response.Error(c, appErrors.ErrGenerationFailed)
		return
	}

	history := make([]ai.ChatMessage, 0, len(req.Messages))
	for _, turn := range req.Messages {
		history = append(history, ai.ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	reply, err := h.ai.Chat(c.Request.Context(), history)
	if err != nil {
		logger.Error("assistant chat failed", zap.Error(err))
		if errors.Is(err, stream.ErrStream) {
			response.Error(c, appErrors.ErrGenerationFailed)
			return
		}
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reply": reply})
}
