package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uiforge/uiforge/internal/middleware"
	"github.com/uiforge/uiforge/internal/services"
	appErrors "github.com/uiforge/uiforge/pkg/errors"
	"github.com/uiforge/uiforge/pkg/response"
)

// StatsHandler serves the dashboard counters.
type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GET /api/dashboard/stats
func (h *StatsHandler) Overview(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	overview, err := h.stats.Overview(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, overview)
}
