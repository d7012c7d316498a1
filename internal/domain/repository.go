package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no entity matches the query
var ErrNotFound = errors.New("entity not found")

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email address
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update persists changes to an existing user
	Update(ctx context.Context, user *User) error
}

// RefreshTokenRepository defines the interface for refresh token persistence
type RefreshTokenRepository interface {
	// Create stores a new refresh token
	Create(ctx context.Context, token *RefreshToken) error

	// GetByToken retrieves a refresh token by its opaque value
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)

	// Delete removes a refresh token (logout / rotation)
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all tokens that expired before the given instant
	DeleteExpired(ctx context.Context, before time.Time) error
}

// UserSettingsRepository defines the interface for user settings persistence
type UserSettingsRepository interface {
	// GetByUserID retrieves the settings row for a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*UserSettings, error)

	// Create stores a new settings row
	Create(ctx context.Context, settings *UserSettings) error

	// Update persists changes to an existing settings row
	Update(ctx context.Context, settings *UserSettings) error
}

// AccountRepository defines the interface for account persistence operations.
// All read methods return accounts with their balances eagerly loaded,
// ordered by date descending then creation time descending.
type AccountRepository interface {
	// GetByID retrieves an account with balances by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetAllForUser retrieves all accounts with balances owned by a user
	GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// Create creates a new account together with any initial balances
	Create(ctx context.Context, account *Account) error

	// Update persists changes to an existing account (not its balances)
	Update(ctx context.Context, account *Account) error

	// Delete removes an account and its balances
	Delete(ctx context.Context, id uuid.UUID) error
}

// BalanceRepository defines the interface for balance snapshot persistence
type BalanceRepository interface {
	// GetByID retrieves a single balance snapshot
	GetByID(ctx context.Context, id uuid.UUID) (*Balance, error)

	// GetAllForAccount retrieves all balances for an account,
	// ordered by date descending then creation time descending
	GetAllForAccount(ctx context.Context, accountID uuid.UUID) ([]Balance, error)

	// Create creates a new balance snapshot
	Create(ctx context.Context, balance *Balance) error

	// Update persists changes to an existing balance snapshot
	Update(ctx context.Context, balance *Balance) error

	// Delete removes a balance snapshot
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountGroupRepository defines the interface for account group persistence.
// Read methods load member accounts with their balances.
type AccountGroupRepository interface {
	// GetByIDAndUser retrieves a group owned by the user, with member
	// accounts and balances loaded
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*AccountGroup, error)

	// GetAllForUser retrieves all groups owned by the user, with member
	// accounts and balances loaded
	GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*AccountGroup, error)

	// Create creates a new group and its memberships
	Create(ctx context.Context, group *AccountGroup) error

	// Update persists group fields and replaces memberships
	Update(ctx context.Context, group *AccountGroup) error

	// Delete removes a group (memberships cascade)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExchangeRateRepository defines the interface for persisted exchange rates
type ExchangeRateRepository interface {
	// GetLatest retrieves rates for a base currency fetched within maxAge.
	// Returns an empty slice when only stale rates exist.
	GetLatest(ctx context.Context, base Currency, maxAge time.Duration) ([]ExchangeRate, error)

	// GetAllByBase retrieves all rates for a base currency regardless of age
	GetAllByBase(ctx context.Context, base Currency) ([]ExchangeRate, error)

	// ReplaceAll deletes all rates for the base currency and stores the
	// given set in a single transaction
	ReplaceAll(ctx context.Context, base Currency, rates []ExchangeRate) error
}

// BudgetCategoryRepository defines the interface for budget category persistence
type BudgetCategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BudgetCategory, error)
	GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*BudgetCategory, error)
	Create(ctx context.Context, category *BudgetCategory) error
	Update(ctx context.Context, category *BudgetCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// IncomeRepository defines the interface for budget income persistence
type IncomeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Income, error)
	GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*Income, error)

	// GetRecurring retrieves entries with the given recurring frequency
	GetRecurring(ctx context.Context, userID uuid.UUID, freq Frequency) ([]*Income, error)

	// GetOneTimeForMonth retrieves one-time entries effective in the given month
	GetOneTimeForMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*Income, error)

	Create(ctx context.Context, income *Income) error
	Update(ctx context.Context, income *Income) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseRepository defines the interface for budget expense persistence.
// Read methods populate CategoryName from the joined category.
type ExpenseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*Expense, error)
	GetRecurring(ctx context.Context, userID uuid.UUID, freq Frequency) ([]*Expense, error)
	GetOneTimeForMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*Expense, error)
	Create(ctx context.Context, expense *Expense) error
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountTypeRepository defines the interface for account type definitions
type AccountTypeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AccountTypeDefinition, error)

	// GetAllForUser retrieves system defaults plus the user's own types
	GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*AccountTypeDefinition, error)

	Create(ctx context.Context, def *AccountTypeDefinition) error
	Update(ctx context.Context, def *AccountTypeDefinition) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SeedDefaults inserts the system default types if they are missing
	SeedDefaults(ctx context.Context, defs []AccountTypeDefinition) error
}
