package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/uiforge/uiforge/internal/models"
)

const recentActivityLimit = 3

// StatsService aggregates dashboard counters over the core tables.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService constructs a StatsService.
func NewStatsService(db *gorm.DB) (*StatsService, error) {
	if db == nil {
		return nil, errors.New("stats service: db is required")
	}
	return &StatsService{db: db}, nil
}

// RecentComponent is one entry of the dashboard activity feed.
type RecentComponent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Overview bundles the dashboard counters for one user.
type Overview struct {
	ComponentCount int64             `json:"component_count"`
	UserCount      int64             `json:"user_count"`
	OwnedCount     int64             `json:"owned_count"`
	RecentActivity []RecentComponent `json:"recent_activity"`
}

// Overview returns library-wide counts, the caller's own component count, and
// the most recently added components.
func (s *StatsService) Overview(ctx context.Context, userID string) (*Overview, error) {
	var overview Overview

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Component{}).Count(&overview.ComponentCount).Error; err != nil {
		return nil, fmt.Errorf("stats service: component count: %w", err)
	}
	if err := db.Model(&models.User{}).Count(&overview.UserCount).Error; err != nil {
		return nil, fmt.Errorf("stats service: user count: %w", err)
	}
	if userID != "" {
		err := db.Model(&models.Component{}).
			Where("owner_id = ?", userID).
			Count(&overview.OwnedCount).Error
		if err != nil {
			return nil, fmt.Errorf("stats service: owned count: %w", err)
		}
	}

	err := db.Model(&models.Component{}).
		Select("id", "name", "created_at").
		Order("created_at DESC").
		Limit(recentActivityLimit).
		Find(&overview.RecentActivity).Error
	if err != nil {
		return nil, fmt.Errorf("stats service: recent activity: %w", err)
	}

	return &overview, nil
}
