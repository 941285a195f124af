package foodprefs

import (
	"context"
	"fmt"
	"time"

	"github.com/fdg312/meal-planner/internal/catalog"
	"github.com/fdg312/meal-planner/internal/storage"
)

// Service stores onboarding preferences under the userPreferences key.
type Service struct {
	state  storage.StateStorage
	logger storage.Logger
	now    func() time.Time
}

// NewService creates a new preferences service.
func NewService(state storage.StateStorage, logger storage.Logger) *Service {
	return &Service{state: state, logger: logger, now: time.Now}
}

// Get returns the owner's preferences; found=false when never saved.
func (s *Service) Get(ctx context.Context, ownerUserID string) (Preferences, bool, error) {
	var p Preferences
	found, err := storage.LoadJSON(ctx, s.state, ownerUserID, storage.KeyUserPreferences, &p, s.logger)
	if err != nil {
		return Preferences{}, false, fmt.Errorf("failed to load preferences: %w", err)
	}
	if !found {
		return Preferences{Allergies: []string{}}, false, nil
	}
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	return p, true, nil
}

// Put validates and replaces the owner's preferences.
func (s *Service) Put(ctx context.Context, ownerUserID string, p Preferences) (Preferences, error) {
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if err := p.Validate(); err != nil {
		return Preferences{}, fmt.Errorf("validation failed: %w", err)
	}

	p.UpdatedAt = s.now().UTC()
	if err := storage.SaveJSON(ctx, s.state, ownerUserID, storage.KeyUserPreferences, p); err != nil {
		return Preferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return p, nil
}

// Taste implements catalog.TasteSource.
func (s *Service) Taste(ctx context.Context, ownerUserID string) (catalog.Taste, bool, error) {
	p, found, err := s.Get(ctx, ownerUserID)
	if err != nil || !found {
		return catalog.Taste{}, false, err
	}
	return p.Taste(), true, nil
}
