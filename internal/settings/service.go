// Package settings manages the single site settings object.
package settings

import (
	"context"
	"fmt"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// Store is the persistence the settings service needs.
type Store interface {
	LoadSettings(ctx context.Context) models.Settings
	SaveSettings(ctx context.Context, s models.Settings) error
}

// Service reads and replaces the settings object.
type Service struct {
	store Store
	mu    sync.Mutex
}

// NewService creates a settings service over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the current settings. A stored negative highlight count is
// treated as unreadable and replaced by the default.
func (s *Service) Get(ctx context.Context) models.Settings {
	st := s.store.LoadSettings(ctx)
	if st.NumberOfHighlights < 0 {
		return models.DefaultSettings()
	}
	return st
}

// Set validates and persists st, returning the stored value.
func (s *Service) Set(ctx context.Context, st models.Settings) (models.Settings, error) {
	if err := Validate(st); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveSettings(ctx, st); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}

// Validate checks the settings invariants.
func Validate(st models.Settings) error {
	return validation.ValidateStruct(&st,
		validation.Field(&st.NumberOfHighlights, validation.Min(0)),
	)
}
