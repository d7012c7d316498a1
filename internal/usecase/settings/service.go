package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// UpdateInput represents the input for updating user settings
type UpdateInput struct {
	Theme    domain.Theme
	Language string
}

// SettingsService handles per-user preference storage
type SettingsService struct {
	SettingsRepo domain.UserSettingsRepository
}

// NewSettingsService creates a new SettingsService instance
func NewSettingsService(settingsRepo domain.UserSettingsRepository) *SettingsService {
	return &SettingsService{SettingsRepo: settingsRepo}
}

// Get returns the user's settings, creating the default row on first access
func (s *SettingsService) Get(ctx context.Context, user *domain.User) (*domain.UserSettings, error) {
	existing, err := s.SettingsRepo.GetByUserID(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	created := &domain.UserSettings{
		ID:       uuid.New(),
		UserID:   user.ID,
		Theme:    domain.ThemeLight,
		Language: "en",
	}
	if err := s.SettingsRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return created, nil
}

// Update applies the input to the user's settings, creating them if needed
func (s *SettingsService) Update(ctx context.Context, user *domain.User, input UpdateInput) (*domain.UserSettings, error) {
	if input.Theme != domain.ThemeLight && input.Theme != domain.ThemeDark {
		return nil, errors.New("theme must be light or dark")
	}
	if input.Language == "" {
		return nil, errors.New("language cannot be empty")
	}

	settings, err := s.Get(ctx, user)
	if err != nil {
		return nil, err
	}

	settings.Theme = input.Theme
	settings.Language = input.Language

	if err := s.SettingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
