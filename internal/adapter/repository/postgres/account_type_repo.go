package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// accountTypeRepository implements domain.AccountTypeRepository
type accountTypeRepository struct {
	db *DB
}

// NewAccountTypeRepository creates a new account type repository
func NewAccountTypeRepository(db *DB) domain.AccountTypeRepository {
	return &accountTypeRepository{db: db}
}

const accountTypeColumns = `id, name, label, icon, is_default, user_id, created_at, updated_at`

func (r *accountTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountTypeDefinition, error) {
	query := `SELECT ` + accountTypeColumns + ` FROM account_types WHERE id = $1`

	def, err := scanAccountType(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return def, nil
}

// GetAllForUser retrieves the system defaults plus the user's own types
func (r *accountTypeRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.AccountTypeDefinition, error) {
	query := `SELECT ` + accountTypeColumns + ` FROM account_types
		WHERE is_default OR user_id = $1
		ORDER BY is_default DESC, name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account types: %w", err)
	}
	defer rows.Close()

	defs := []*domain.AccountTypeDefinition{}
	for rows.Next() {
		def, err := scanAccountType(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account types: %w", err)
	}
	return defs, nil
}

func (r *accountTypeRepository) Create(ctx context.Context, def *domain.AccountTypeDefinition) error {
	query := `
		INSERT INTO account_types (id, name, label, icon, is_default, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		def.ID,
		def.Name,
		def.Label,
		def.Icon,
		def.IsDefault,
		def.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to create account type: %w", err)
	}
	return nil
}

func (r *accountTypeRepository) Update(ctx context.Context, def *domain.AccountTypeDefinition) error {
	query := `
		UPDATE account_types
		SET name = $2, label = $3, icon = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, def.ID, def.Name, def.Label, def.Icon)
	if err != nil {
		return fmt.Errorf("failed to update account type: %w", err)
	}
	return requireRowAffected(result)
}

func (r *accountTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM account_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account type: %w", err)
	}
	return requireRowAffected(result)
}

// SeedDefaults inserts the system default types, skipping any that exist
func (r *accountTypeRepository) SeedDefaults(ctx context.Context, defs []domain.AccountTypeDefinition) error {
	query := `
		INSERT INTO account_types (id, name, label, icon, is_default, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, NULL, NOW(), NOW())
		ON CONFLICT (name) WHERE is_default DO NOTHING
	`

	for _, def := range defs {
		id := def.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := r.db.ExecContext(ctx, query, id, def.Name, def.Label, def.Icon); err != nil {
			return fmt.Errorf("failed to seed account type %s: %w", def.Name, err)
		}
	}
	return nil
}

func scanAccountType(row rowScanner) (*domain.AccountTypeDefinition, error) {
	var def domain.AccountTypeDefinition
	var userID sql.NullString

	err := row.Scan(
		&def.ID,
		&def.Name,
		&def.Label,
		&def.Icon,
		&def.IsDefault,
		&userID,
		&def.CreatedAt,
		&def.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan account type: %w", err)
	}

	if userID.Valid {
		parsed, err := uuid.Parse(userID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse user_id: %w", err)
		}
		def.UserID = &parsed
	}
	return &def, nil
}
