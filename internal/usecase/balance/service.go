package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// CreateBalanceInput represents the input for recording a balance snapshot
type CreateBalanceInput struct {
	Date   time.Time
	Amount decimal.Decimal
}

// UpdateBalanceInput represents the input for correcting a balance snapshot
type UpdateBalanceInput struct {
	Date   time.Time
	Amount decimal.Decimal
}

// BalanceService handles balance snapshot operations under an owned account
type BalanceService struct {
	AccountRepo domain.AccountRepository
	BalanceRepo domain.BalanceRepository
}

// NewBalanceService creates a new BalanceService instance
func NewBalanceService(accountRepo domain.AccountRepository, balanceRepo domain.BalanceRepository) *BalanceService {
	return &BalanceService{AccountRepo: accountRepo, BalanceRepo: balanceRepo}
}

// CreateBalance records a new snapshot for an account owned by the user
func (s *BalanceService) CreateBalance(ctx context.Context, user *domain.User, accountID uuid.UUID, input CreateBalanceInput) (*domain.Balance, error) {
	if _, err := s.ownedAccount(ctx, user, accountID); err != nil {
		return nil, err
	}

	balance := &domain.Balance{
		ID:        uuid.New(),
		AccountID: accountID,
		Date:      domain.DateOnly(input.Date),
		Amount:    input.Amount,
	}

	if err := s.BalanceRepo.Create(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to create balance: %w", err)
	}
	return balance, nil
}

// GetAllForAccount lists an owned account's snapshots, newest first
func (s *BalanceService) GetAllForAccount(ctx context.Context, user *domain.User, accountID uuid.UUID) ([]domain.Balance, error) {
	if _, err := s.ownedAccount(ctx, user, accountID); err != nil {
		return nil, err
	}

	balances, err := s.BalanceRepo.GetAllForAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return balances, nil
}

// GetBalance retrieves one snapshot, enforcing account ownership
func (s *BalanceService) GetBalance(ctx context.Context, user *domain.User, accountID, balanceID uuid.UUID) (*domain.Balance, error) {
	if _, err := s.ownedAccount(ctx, user, accountID); err != nil {
		return nil, err
	}

	balance, err := s.BalanceRepo.GetByID(ctx, balanceID)
	if err != nil {
		return nil, err
	}
	if balance.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	return balance, nil
}

// UpdateBalance corrects an existing snapshot's date or amount
func (s *BalanceService) UpdateBalance(ctx context.Context, user *domain.User, accountID, balanceID uuid.UUID, input UpdateBalanceInput) (*domain.Balance, error) {
	balance, err := s.GetBalance(ctx, user, accountID, balanceID)
	if err != nil {
		return nil, err
	}

	balance.Date = domain.DateOnly(input.Date)
	balance.Amount = input.Amount

	if err := s.BalanceRepo.Update(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	return balance, nil
}

// DeleteBalance removes a snapshot from an owned account
func (s *BalanceService) DeleteBalance(ctx context.Context, user *domain.User, accountID, balanceID uuid.UUID) error {
	if _, err := s.GetBalance(ctx, user, accountID, balanceID); err != nil {
		return err
	}
	if err := s.BalanceRepo.Delete(ctx, balanceID); err != nil {
		return fmt.Errorf("failed to delete balance: %w", err)
	}
	return nil
}

// ownedAccount loads the account and verifies it belongs to the user.
// Foreign accounts surface as not found.
func (s *BalanceService) ownedAccount(ctx context.Context, user *domain.User, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != user.ID {
		return nil, domain.ErrNotFound
	}
	return account, nil
}
