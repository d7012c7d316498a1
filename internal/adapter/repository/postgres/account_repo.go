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

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// GetByID retrieves an account with its balances eagerly loaded
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, user_id, name, currency, account_type, is_excluded_from_totals, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Currency,
		&account.AccountType,
		&account.IsExcludedFromTotals,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	balances, err := r.loadBalances(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	account.Balances = balances

	return &account, nil
}

// GetAllForUser retrieves all of a user's accounts with balances loaded
func (r *accountRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	query := `
		SELECT id, user_id, name, currency, account_type, is_excluded_from_totals, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*domain.Account{}
	byID := map[uuid.UUID]*domain.Account{}
	for rows.Next() {
		var account domain.Account
		err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Name,
			&account.Currency,
			&account.AccountType,
			&account.IsExcludedFromTotals,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.Balances = []domain.Balance{}
		accounts = append(accounts, &account)
		byID[account.ID] = &account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	if len(accounts) == 0 {
		return accounts, nil
	}

	// single balance query for all accounts instead of one per account
	balanceQuery := `
		SELECT b.id, b.account_id, b.date, b.amount, b.created_at, b.updated_at
		FROM balances b
		JOIN accounts a ON a.id = b.account_id
		WHERE a.user_id = $1
		ORDER BY b.date DESC, b.created_at DESC
	`

	balanceRows, err := r.db.QueryContext(ctx, balanceQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer balanceRows.Close()

	for balanceRows.Next() {
		balance, err := scanBalance(balanceRows)
		if err != nil {
			return nil, err
		}
		if account, ok := byID[balance.AccountID]; ok {
			account.Balances = append(account.Balances, balance)
		}
	}
	if err := balanceRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return accounts, nil
}

// Create creates an account together with its initial balances in one
// database transaction
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertAccount := `
		INSERT INTO accounts (id, user_id, name, currency, account_type, is_excluded_from_totals, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`

	_, err = tx.ExecContext(ctx, insertAccount,
		account.ID,
		account.UserID,
		account.Name,
		string(account.Currency),
		account.AccountType,
		account.IsExcludedFromTotals,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	insertBalance := `
		INSERT INTO balances (id, account_id, date, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	for _, balance := range account.Balances {
		_, err = tx.ExecContext(ctx, insertBalance,
			balance.ID,
			balance.AccountID,
			balance.Date,
			balance.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, currency = $3, account_type = $4, is_excluded_from_totals = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Name,
		string(account.Currency),
		account.AccountType,
		account.IsExcludedFromTotals,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireRowAffected(result)
}

// Delete removes an account; balances cascade via the schema
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return requireRowAffected(result)
}

func (r *accountRepository) loadBalances(ctx context.Context, accountID uuid.UUID) ([]domain.Balance, error) {
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

// scanBalance reads one balance row, parsing the DECIMAL amount from its
// string form
func scanBalance(rows *sql.Rows) (domain.Balance, error) {
	var balance domain.Balance
	var amountStr string

	err := rows.Scan(
		&balance.ID,
		&balance.AccountID,
		&balance.Date,
		&amountStr,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("failed to scan balance: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("failed to parse amount: %w", err)
	}
	balance.Amount = amount

	return balance, nil
}
