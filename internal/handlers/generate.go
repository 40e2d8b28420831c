package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uiforge/uiforge/internal/ai"
	"github.com/uiforge/uiforge/internal/middleware"
	"github.com/uiforge/uiforge/internal/services"
	"github.com/uiforge/uiforge/internal/stream"
	appErrors "github.com/uiforge/uiforge/pkg/errors"
	"github.com/uiforge/uiforge/pkg/logger"
	"github.com/uiforge/uiforge/pkg/metrics"
	"github.com/uiforge/uiforge/pkg/response"
)

// GenerateHandler drives AI-backed component generation and refinement.
type GenerateHandler struct {
	ai         *ai.Client
	components *services.ComponentService
}

func NewGenerateHandler(client *ai.Client, components *services.ComponentService) *GenerateHandler {
	return &GenerateHandler{ai: client, components: components}
}

type generateRequest struct {
	Description string `json:"description" validate:"required,min=3,max=4000"`
	Name        string `json:"name" validate:"max=200"`
}

// POST /api/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if h.ai == nil {
		response.Error(c, appErrors.ErrGenerationFailed)
		return
	}

	start := time.Now()
	code, err := h.ai.GenerateComponent(c.Request.Context(), req.Description)
	if err != nil {
		metrics.GenerationDuration.WithLabelValues("generate", "error").Observe(time.Since(start).Seconds())
		logger.Error("component generation failed", zap.Error(err))
		if errors.Is(err, stream.ErrStream) {
			response.Error(c, appErrors.ErrGenerationFailed)
			return
		}
		response.Error(c, appErrors.ErrInternalServer)
		return
	}
	metrics.GenerationDuration.WithLabelValues("generate", "ok").Observe(time.Since(start).Seconds())

	ownerID := c.GetString(middleware.CtxUserIDKey)
	component, err := h.components.SaveGenerated(c.Request.Context(), ownerID, req.Name, req.Description, code)
	if err != nil {
		logger.Error("failed to persist generated component", zap.Error(err))
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, component)
}

type refineRequest struct {
	Code        string `json:"code" validate:"required"`
	Instruction string `json:"instruction" validate:"required,min=3,max=4000"`
}

// POST /api/refine
func (h *GenerateHandler) Refine(c *gin.Context) {
	var req refineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if h.ai == nil {
		response.Error(c, appErrors.ErrGenerationFailed)
		return
	}

	start := time.Now()
	code, err := h.ai.RefineComponent(c.Request.Context(), req.Code, req.Instruction)
	if err != nil {
		metrics.GenerationDuration.WithLabelValues("refine", "error").Observe(time.Since(start).Seconds())
		logger.Error("component refinement failed", zap.Error(err))
		if errors.Is(err, stream.ErrStream) {
			response.Error(c, appErrors.ErrGenerationFailed)
			return
		}
		response.Error(c, appErrors.ErrInternalServer)
		return
	}
	metrics.GenerationDuration.WithLabelValues("refine", "ok").Observe(time.Since(start).Seconds())

	response.Success(c, http.StatusOK, gin.H{"code": code})
}
