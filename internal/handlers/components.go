package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/uiforge/uiforge/internal/middleware"
	"github.com/uiforge/uiforge/internal/models"
	"github.com/uiforge/uiforge/internal/services"
	appErrors "github.com/uiforge/uiforge/pkg/errors"
	"github.com/uiforge/uiforge/pkg/response"
)

// ComponentHandler exposes CRUD over the saved component library.
type ComponentHandler struct {
	components *services.ComponentService
}

func NewComponentHandler(components *services.ComponentService) *ComponentHandler {
	return &ComponentHandler{components: components}
}

// GET /api/components
func (h *ComponentHandler) List(c *gin.Context) {
	input := services.ListComponentsInput{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Page:     parseIntQuery(c, "page", 1),
		PerPage:  parseIntQuery(c, "per_page", 20),
	}

	items, total, err := h.components.List(c.Request.Context(), input)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	perPage := input.PerPage
	if perPage < 1 {
		perPage = 20
	}
	page := input.Page
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// GET /api/components/:id
func (h *ComponentHandler) Get(c *gin.Context) {
	component, err := h.components.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrComponentNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, component)
}

type createComponentRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Category    string          `json:"category" validate:"max=100"`
	Code        string          `json:"code" validate:"required"`
	Props       json.RawMessage `json:"props"`
	Preview     string          `json:"preview"`
}

// POST /api/components
func (h *ComponentHandler) Create(c *gin.Context) {
	var req createComponentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ownerID := c.GetString(middleware.CtxUserIDKey)
	component := &models.Component{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Code:        req.Code,
		Preview:     req.Preview,
	}
	if ownerID != "" {
		component.OwnerID = &ownerID
	}
	if len(req.Props) > 0 {
		component.Props = datatypes.JSON(req.Props)
	}

	if err := h.components.Create(c.Request.Context(), component); err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusCreated, component)
}

// DELETE /api/components/:id
func (h *ComponentHandler) Delete(c *gin.Context) {
	ownerID := c.GetString(middleware.CtxUserIDKey)
	if err := h.components.Delete(c.Request.Context(), c.Param("id"), ownerID); err != nil {
		if errors.Is(err, services.ErrComponentNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
