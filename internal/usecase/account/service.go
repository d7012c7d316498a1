package account

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// BalanceInput represents one initial balance supplied at account creation
type BalanceInput struct {
	Date   time.Time
	Amount decimal.Decimal
}

// CreateAccountInput represents the input for creating an account
type CreateAccountInput struct {
	Name                 string
	Currency             domain.Currency
	AccountType          string
	IsExcludedFromTotals bool
	Balances             []BalanceInput
}

// UpdateAccountInput represents the input for updating an account
type UpdateAccountInput struct {
	Name                 string
	Currency             domain.Currency
	AccountType          string
	IsExcludedFromTotals bool
}

// Stats represents an account's balance changes over several periods
type Stats struct {
	AllTimeChangeAmount     decimal.Decimal
	AllTimeChangePercent    decimal.Decimal
	ThreeMonthChangeAmount  decimal.Decimal
	ThreeMonthChangePercent decimal.Decimal
	SixMonthChangeAmount    decimal.Decimal
	SixMonthChangePercent   decimal.Decimal
	ThisMonthChange         decimal.Decimal
}

// AccountService handles account CRUD operations scoped to their owner
type AccountService struct {
	AccountRepo domain.AccountRepository
}

// NewAccountService creates a new AccountService instance
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{AccountRepo: accountRepo}
}

// CreateAccount creates an account for the user, with any initial balances
func (s *AccountService) CreateAccount(ctx context.Context, user *domain.User, input CreateAccountInput) (*domain.Account, error) {
	accountID := uuid.New()

	balances := make([]domain.Balance, 0, len(input.Balances))
	for _, b := range input.Balances {
		balances = append(balances, domain.Balance{
			ID:        uuid.New(),
			AccountID: accountID,
			Date:      domain.DateOnly(b.Date),
			Amount:    b.Amount,
		})
	}

	account := &domain.Account{
		ID:                   accountID,
		UserID:               user.ID,
		Name:                 input.Name,
		Currency:             input.Currency,
		AccountType:          input.AccountType,
		IsExcludedFromTotals: input.IsExcludedFromTotals,
		Balances:             balances,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// GetAll retrieves all of the user's accounts with balances loaded
func (s *AccountService) GetAll(ctx context.Context, user *domain.User) ([]*domain.Account, error) {
	accounts, err := s.AccountRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetAccount retrieves one account, enforcing ownership.
// Accounts belonging to other users surface as not found.
func (s *AccountService) GetAccount(ctx context.Context, user *domain.User, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != user.ID {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

// UpdateAccount applies the update input to an owned account
func (s *AccountService) UpdateAccount(ctx context.Context, user *domain.User, accountID uuid.UUID, input UpdateAccountInput) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, user, accountID)
	if err != nil {
		return nil, err
	}

	account.Name = input.Name
	account.Currency = input.Currency
	account.AccountType = input.AccountType
	account.IsExcludedFromTotals = input.IsExcludedFromTotals

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// ToggleExclusion flips whether the account is excluded from grand totals
func (s *AccountService) ToggleExclusion(ctx context.Context, user *domain.User, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, user, accountID)
	if err != nil {
		return nil, err
	}

	account.IsExcludedFromTotals = !account.IsExcludedFromTotals

	if err := s.AccountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to toggle exclusion: %w", err)
	}
	return account, nil
}

// DeleteAccount removes an owned account and its balances
func (s *AccountService) DeleteAccount(ctx context.Context, user *domain.User, accountID uuid.UUID) error {
	if _, err := s.GetAccount(ctx, user, accountID); err != nil {
		return err
	}
	if err := s.AccountRepo.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// CalculateStats computes balance changes over all-time, three-month,
// six-month and month-over-month windows, as of the given date.
// Logic:
//  1. Sort balances descending by (date, created at); newest entry is the
//     current balance, oldest is the baseline
//  2. Period changes compare against the newest balance dated on or
//     before the period cutoff, falling back to the oldest balance
//  3. Percentages are relative to the absolute base value; a zero base
//     yields a zero percentage
//  4. The month-over-month change needs a balance in both the current and
//     previous calendar month, otherwise it stays zero
func CalculateStats(account *domain.Account, asOf time.Time) Stats {
	if len(account.Balances) == 0 {
		return Stats{}
	}

	sorted := make([]domain.Balance, len(account.Balances))
	copy(sorted, account.Balances)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := domain.DateOnly(sorted[i].Date), domain.DateOnly(sorted[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	current := sorted[0].Amount
	oldest := sorted[len(sorted)-1].Amount

	stats := Stats{
		AllTimeChangeAmount:  current.Sub(oldest),
		AllTimeChangePercent: percentChange(current, oldest),
	}

	today := domain.DateOnly(asOf)

	threeMonthBase := balanceAt(sorted, today.AddDate(0, 0, -90), oldest)
	stats.ThreeMonthChangeAmount = current.Sub(threeMonthBase)
	stats.ThreeMonthChangePercent = percentChange(current, threeMonthBase)

	sixMonthBase := balanceAt(sorted, today.AddDate(0, 0, -180), oldest)
	stats.SixMonthChangeAmount = current.Sub(sixMonthBase)
	stats.SixMonthChangePercent = percentChange(current, sixMonthBase)

	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstOfPrevMonth := firstOfMonth.AddDate(0, -1, 0)

	thisMonth, haveThis := latestInRange(sorted, firstOfMonth, today.AddDate(0, 0, 1))
	lastMonth, haveLast := latestInRange(sorted, firstOfPrevMonth, firstOfMonth)
	if haveThis && haveLast {
		stats.ThisMonthChange = thisMonth.Sub(lastMonth)
	}

	return stats
}

// balanceAt returns the newest balance dated on or before cutoff,
// or the fallback when every balance is newer
func balanceAt(sortedDesc []domain.Balance, cutoff time.Time, fallback decimal.Decimal) decimal.Decimal {
	for _, b := range sortedDesc {
		if !domain.DateOnly(b.Date).After(cutoff) {
			return b.Amount
		}
	}
	return fallback
}

// latestInRange returns the newest balance with from <= date < to
func latestInRange(sortedDesc []domain.Balance, from, to time.Time) (decimal.Decimal, bool) {
	for _, b := range sortedDesc {
		d := domain.DateOnly(b.Date)
		if d.Before(to) && !d.Before(from) {
			return b.Amount, true
		}
	}
	return decimal.Decimal{}, false
}

func percentChange(current, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return current.Sub(base).Div(base.Abs()).Mul(decimal.NewFromInt(100))
}
