package nutrition

import (
	"context"
	"fmt"
	"time"

	"github.com/fdg312/meal-planner/internal/foodprefs"
	"github.com/fdg312/meal-planner/internal/storage"
)

// PreferencesReader is the part of foodprefs.Service targets depend on.
type PreferencesReader interface {
	Get(ctx context.Context, ownerUserID string) (foodprefs.Preferences, bool, error)
}

// Service handles nutrition targets business logic.
type Service struct {
	state  storage.StateStorage
	prefs  PreferencesReader
	logger storage.Logger
	now    func() time.Time
}

// NewService creates a new nutrition service. prefs may be nil.
func NewService(state storage.StateStorage, prefs PreferencesReader, logger storage.Logger) *Service {
	return &Service{state: state, prefs: prefs, logger: logger, now: time.Now}
}

// GetOrDefault returns stored targets, else targets derived from preferences,
// else the defaults. isDefault is true whenever nothing was stored.
func (s *Service) GetOrDefault(ctx context.Context, ownerUserID string) (Targets, bool, error) {
	var t Targets
	found, err := storage.LoadJSON(ctx, s.state, ownerUserID, storage.KeyNutritionTargets, &t, s.logger)
	if err != nil {
		return Targets{}, false, fmt.Errorf("failed to get nutrition targets: %w", err)
	}
	if found {
		return t, false, nil
	}

	if s.prefs != nil {
		p, ok, err := s.prefs.Get(ctx, ownerUserID)
		if err != nil {
			return Targets{}, false, err
		}
		if ok {
			if derived, ok := TargetsFromPreferences(p); ok {
				return derived, true, nil
			}
		}
	}

	return DefaultTargets(), true, nil
}

// Upsert replaces the owner's targets.
func (s *Service) Upsert(ctx context.Context, ownerUserID string, req UpsertTargetsRequest) (Targets, error) {
	if err := req.Validate(); err != nil {
		return Targets{}, fmt.Errorf("validation failed: %w", err)
	}

	t := Targets{
		CaloriesKcal: req.CaloriesKcal,
		ProteinG:     req.ProteinG,
		FatG:         req.FatG,
		CarbsG:       req.CarbsG,
		FiberG:       req.FiberG,
		Source:       SourceCustom,
		UpdatedAt:    s.now().UTC(),
	}
	if err := storage.SaveJSON(ctx, s.state, ownerUserID, storage.KeyNutritionTargets, t); err != nil {
		return Targets{}, fmt.Errorf("failed to upsert nutrition targets: %w", err)
	}
	return t, nil
}

// Reset deletes custom targets so derived or default ones apply again.
func (s *Service) Reset(ctx context.Context, ownerUserID string) error {
	if err := s.state.DeleteState(ctx, ownerUserID, storage.KeyNutritionTargets); err != nil {
		return fmt.Errorf("failed to reset nutrition targets: %w", err)
	}
	return nil
}
