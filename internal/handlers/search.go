package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uiforge/uiforge/internal/ai"
	"github.com/uiforge/uiforge/internal/services"
	appErrors "github.com/uiforge/uiforge/pkg/errors"
	"github.com/uiforge/uiforge/pkg/logger"
	"github.com/uiforge/uiforge/pkg/response"
)

// SearchHandler ranks catalog components against a natural language query.
// With a model available the ranking is delegated to it; otherwise the
// handler degrades to the same substring matching the listing endpoint uses.
type SearchHandler struct {
	ai         *ai.Client
	components *services.ComponentService
}

func NewSearchHandler(client *ai.Client, components *services.ComponentService) *SearchHandler {
	return &SearchHandler{ai: client, components: components}
}

type searchRequest struct {
	Query string `json:"query" validate:"max=500"`
}

// POST /api/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if req.Query == "" {
		response.Success(c, http.StatusOK, gin.H{"component_ids": nil})
		return
	}

	ids, err := h.rank(c, req.Query)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	components, err := h.components.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"component_ids": ids,
		"components":    components,
	})
}

func (h *SearchHandler) rank(c *gin.Context, query string) ([]string, error) {
	if h.ai == nil {
		return h.fallbackRank(c, query)
	}

	summaries, err := h.components.Summaries(c.Request.Context())
	if err != nil {
		return nil, err
	}

	catalog := make([]ai.ComponentSummary, 0, len(summaries))
	for _, s := range summaries {
		catalog = append(catalog, ai.ComponentSummary{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Category:    s.Category,
		})
	}

	ids, err := h.ai.RankComponents(c.Request.Context(), query, catalog)
	if err != nil {
		// A model hiccup degrades to no matches rather than failing the search.
		logger.Warn("search ranking failed", zap.Error(err))
		return []string{}, nil
	}
	return ids, nil
}

func (h *SearchHandler) fallbackRank(c *gin.Context, query string) ([]string, error) {
	matches, _, err := h.components.List(c.Request.Context(), services.ListComponentsInput{Search: query})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
