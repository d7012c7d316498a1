package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// userSettingsRepository implements domain.UserSettingsRepository
type userSettingsRepository struct {
	db *DB
}

// NewUserSettingsRepository creates a new user settings repository
func NewUserSettingsRepository(db *DB) domain.UserSettingsRepository {
	return &userSettingsRepository{db: db}
}

func (r *userSettingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	query := `
		SELECT id, user_id, theme, language, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var settings domain.UserSettings
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.ID,
		&settings.UserID,
		&settings.Theme,
		&settings.Language,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (r *userSettingsRepository) Create(ctx context.Context, settings *domain.UserSettings) error {
	query := `
		INSERT INTO user_settings (id, user_id, theme, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		settings.ID,
		settings.UserID,
		string(settings.Theme),
		settings.Language,
	)
	if err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}
	return nil
}

func (r *userSettingsRepository) Update(ctx context.Context, settings *domain.UserSettings) error {
	query := `
		UPDATE user_settings
		SET theme = $2, language = $3, updated_at = NOW()
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		settings.UserID,
		string(settings.Theme),
		settings.Language,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return requireRowAffected(result)
}
