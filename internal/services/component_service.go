package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/uiforge/uiforge/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ComponentService manages the stored component library.
type ComponentService struct {
	db *gorm.DB
}

// NewComponentService constructs a ComponentService.
func NewComponentService(db *gorm.DB) (*ComponentService, error) {
	if db == nil {
		return nil, errors.New("component service: db is required")
	}
	return &ComponentService{db: db}, nil
}

// ListComponentsInput filters and paginates the component listing.
type ListComponentsInput struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}

// List returns a page of components plus the total match count.
func (s *ComponentService) List(ctx context.Context, input ListComponentsInput) ([]models.Component, int64, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 {
		perPage = defaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}

	query := s.db.WithContext(ctx).Model(&models.Component{})

	if search := strings.TrimSpace(input.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("component service: count: %w", err)
	}

	var components []models.Component
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&components).Error
	if err != nil {
		return nil, 0, fmt.Errorf("component service: list: %w", err)
	}

	return components, total, nil
}

// CatalogSummary is the lightweight catalog view used for search ranking.
type CatalogSummary struct {
	ID          string
	Name        string
	Description string
	Category    string
}

// Summaries returns id/name/description/category for the whole catalog.
func (s *ComponentService) Summaries(ctx context.Context) ([]CatalogSummary, error) {
	var summaries []CatalogSummary
	err := s.db.WithContext(ctx).
		Model(&models.Component{}).
		Select("id", "name", "description", "category").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("component service: summaries: %w", err)
	}
	return summaries, nil
}

// GetByIDs fetches the named components, preserving the input order.
func (s *ComponentService) GetByIDs(ctx context.Context, ids []string) ([]models.Component, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var components []models.Component
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&components).Error; err != nil {
		return nil, fmt.Errorf("component service: get by ids: %w", err)
	}

	byID := make(map[string]models.Component, len(components))
	for _, component := range components {
		byID[component.ID] = component
	}
	ordered := make([]models.Component, 0, len(components))
	for _, id := range ids {
		if component, ok := byID[id]; ok {
			ordered = append(ordered, component)
		}
	}
	return ordered, nil
}

// Get fetches one component by id.
func (s *ComponentService) Get(ctx context.Context, id string) (*models.Component, error) {
	var component models.Component
	if err := s.db.WithContext(ctx).First(&component, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComponentNotFound
		}
		return nil, fmt.Errorf("component service: get: %w", err)
	}
	return &component, nil
}

// Create persists a new component.
func (s *ComponentService) Create(ctx context.Context, component *models.Component) error {
	if component == nil {
		return errors.New("component service: component is required")
	}
	if strings.TrimSpace(component.Name) == "" {
		return errors.New("component service: name is required")
	}
	if strings.TrimSpace(component.Code) == "" {
		return errors.New("component service: code is required")
	}

	if err := s.db.WithContext(ctx).Create(component).Error; err != nil {
		return fmt.Errorf("component service: create: %w", err)
	}
	return nil
}

// SaveGenerated stores the artifact of a completed generation stream for its
// owner and returns the stored component.
func (s *ComponentService) SaveGenerated(ctx context.Context, ownerID, name, prompt, code string) (*models.Component, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("component service: generated code is empty")
	}
	if strings.TrimSpace(name) == "" {
		name = "Generated Component"
	}

	component := models.Component{
		Name:      name,
		Category:  "generated",
		Code:      code,
		Prompt:    prompt,
		Generated: true,
	}
	if ownerID != "" {
		component.OwnerID = &ownerID
	}

	if err := s.db.WithContext(ctx).Create(&component).Error; err != nil {
		return nil, fmt.Errorf("component service: save generated: %w", err)
	}
	return &component, nil
}

// Delete removes a component owned by the caller. Components without an
// owner are curated library entries and cannot be deleted through the API.
func (s *ComponentService) Delete(ctx context.Context, id, ownerID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Component{})
	if res.Error != nil {
		return fmt.Errorf("component service: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrComponentNotFound
	}
	return nil
}
