package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// groupRepository implements domain.AccountGroupRepository
type groupRepository struct {
	db       *DB
	accounts domain.AccountRepository
}

// NewGroupRepository creates a new account group repository. It reuses the
// account repository to materialize member accounts with their balances.
func NewGroupRepository(db *DB, accounts domain.AccountRepository) domain.AccountGroupRepository {
	return &groupRepository{db: db, accounts: accounts}
}

func (r *groupRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.AccountGroup, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM account_groups
		WHERE id = $1 AND user_id = $2
	`

	var group domain.AccountGroup
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&group.ID,
		&group.UserID,
		&group.Name,
		&group.Description,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := r.loadMembers(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.AccountGroup, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM account_groups
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*domain.AccountGroup{}
	for rows.Next() {
		var group domain.AccountGroup
		err := rows.Scan(
			&group.ID,
			&group.UserID,
			&group.Name,
			&group.Description,
			&group.CreatedAt,
			&group.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := r.loadMembers(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// Create creates the group and its memberships in one database transaction
func (r *groupRepository) Create(ctx context.Context, group *domain.AccountGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertGroup := `
		INSERT INTO account_groups (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	_, err = tx.ExecContext(ctx, insertGroup,
		group.ID,
		group.UserID,
		group.Name,
		group.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMemberships(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update persists group fields and replaces the membership set
func (r *groupRepository) Update(ctx context.Context, group *domain.AccountGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateGroup := `
		UPDATE account_groups
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.ExecContext(ctx, updateGroup, group.ID, group.Name, group.Description)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if err := requireRowAffected(result); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM account_group_members WHERE group_id = $1`, group.ID); err != nil {
		return fmt.Errorf("failed to clear memberships: %w", err)
	}
	if err := insertMemberships(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a group; memberships cascade via the schema
func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM account_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireRowAffected(result)
}

func (r *groupRepository) loadMembers(ctx context.Context, group *domain.AccountGroup) error {
	query := `
		SELECT account_id
		FROM account_group_members
		WHERE group_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, group.ID)
	if err != nil {
		return fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	accountIDs := []uuid.UUID{}
	for rows.Next() {
		var accountID uuid.UUID
		if err := rows.Scan(&accountID); err != nil {
			return fmt.Errorf("failed to scan membership: %w", err)
		}
		accountIDs = append(accountIDs, accountID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate memberships: %w", err)
	}

	group.Accounts = make([]*domain.Account, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		account, err := r.accounts.GetByID(ctx, accountID)
		if err != nil {
			// a concurrently deleted account just drops out of the group
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return err
		}
		group.Accounts = append(group.Accounts, account)
	}
	return nil
}

func insertMemberships(ctx context.Context, tx *sql.Tx, group *domain.AccountGroup) error {
	insert := `
		INSERT INTO account_group_members (group_id, account_id, position)
		VALUES ($1, $2, $3)
	`

	for i, account := range group.Accounts {
		if _, err := tx.ExecContext(ctx, insert, group.ID, account.ID, i); err != nil {
			return fmt.Errorf("failed to insert membership: %w", err)
		}
	}
	return nil
}
