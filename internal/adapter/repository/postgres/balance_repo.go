package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// balanceRepository implements domain.BalanceRepository
type balanceRepository struct {
	db *DB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *DB) domain.BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Balance, error) {
	query := `
		SELECT id, account_id, date, amount, created_at, updated_at
		FROM balances
		WHERE id = $1
	`

	var balance domain.Balance
	var amountStr string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&balance.ID,
		&balance.AccountID,
		&balance.Date,
		&amountStr,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	balance.Amount = amount

	return &balance, nil
}

func (r *balanceRepository) GetAllForAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Balance, error) {
	query := `
		SELECT id, account_id, date, amount, created_at, updated_at
		FROM balances
		WHERE account_id = $1
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	balances := []domain.Balance{}
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return balances, nil
}

func (r *balanceRepository) Create(ctx context.Context, balance *domain.Balance) error {
	query := `
		INSERT INTO balances (id, account_id, date, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		balance.ID,
		balance.AccountID,
		balance.Date,
		balance.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create balance: %w", err)
	}
	return nil
}

func (r *balanceRepository) Update(ctx context.Context, balance *domain.Balance) error {
	query := `
		UPDATE balances
		SET date = $2, amount = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		balance.ID,
		balance.Date,
		balance.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return requireRowAffected(result)
}

func (r *balanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM balances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete balance: %w", err)
	}
	return requireRowAffected(result)
}
