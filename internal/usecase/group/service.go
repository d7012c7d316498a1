package group

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nettrack/nettrack-backend/internal/domain"
	"github.com/nettrack/nettrack-backend/internal/usecase/history"
)

// CreateGroupInput represents the input for creating an account group
type CreateGroupInput struct {
	Name        string
	Description string
	AccountIDs  []uuid.UUID
}

// UpdateGroupInput represents the input for updating an account group.
// A nil AccountIDs slice leaves the membership untouched.
type UpdateGroupInput struct {
	Name        string
	Description string
	AccountIDs  []uuid.UUID
}

// Summary represents an account group with aggregated dashboard data
type Summary struct {
	Group           *domain.AccountGroup
	AccountCount    int
	TotalBalanceGBP decimal.Decimal
	History         []history.Point
}

// MemberAccount represents a group member with its latest GBP balance
type MemberAccount struct {
	Account          *domain.Account
	LatestBalanceGBP decimal.Decimal
}

// Detail represents a single group with members and balance history
type Detail struct {
	Group           *domain.AccountGroup
	Members         []MemberAccount
	AccountCount    int
	TotalBalanceGBP decimal.Decimal
	History         []history.Point
}

// GroupService handles account group operations and their aggregations
type GroupService struct {
	GroupRepo   domain.AccountGroupRepository
	AccountRepo domain.AccountRepository
	Converter   history.Converter

	logger *zap.Logger
}

// NewGroupService creates a new GroupService instance
func NewGroupService(
	groupRepo domain.AccountGroupRepository,
	accountRepo domain.AccountRepository,
	converter history.Converter,
	logger *zap.Logger,
) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{
		GroupRepo:   groupRepo,
		AccountRepo: accountRepo,
		Converter:   converter,
		logger:      logger,
	}
}

// CreateGroup creates a group for the user. Requested member accounts that
// do not exist fail the call; accounts owned by someone else are skipped.
func (s *GroupService) CreateGroup(ctx context.Context, user *domain.User, input CreateGroupInput) (*domain.AccountGroup, error) {
	accounts, err := s.resolveMembers(ctx, user, input.AccountIDs)
	if err != nil {
		return nil, err
	}

	group := &domain.AccountGroup{
		ID:          uuid.New(),
		UserID:      user.ID,
		Name:        input.Name,
		Description: input.Description,
		Accounts:    accounts,
	}

	if err := group.Validate(); err != nil {
		return nil, err
	}

	if err := s.GroupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// GetAll returns summaries for every group the user owns, each with its
// latest GBP total and a fill-forward balance history
func (s *GroupService) GetAll(ctx context.Context, user *domain.User, from, to *time.Time) ([]Summary, error) {
	groups, err := s.GroupRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	summaries := make([]Summary, 0, len(groups))
	for _, g := range groups {
		total, err := s.latestTotalGBP(ctx, g.Accounts)
		if err != nil {
			return nil, err
		}

		points, err := history.ComputeBalanceHistory(ctx, g.Accounts, from, to, s.Converter)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, Summary{
			Group:           g,
			AccountCount:    len(g.Accounts),
			TotalBalanceGBP: total,
			History:         points,
		})
	}
	return summaries, nil
}

// GetGroup returns one owned group with member balances and history
func (s *GroupService) GetGroup(ctx context.Context, user *domain.User, groupID uuid.UUID, from, to *time.Time) (*Detail, error) {
	g, err := s.GroupRepo.GetByIDAndUser(ctx, groupID, user.ID)
	if err != nil {
		return nil, err
	}

	members := make([]MemberAccount, 0, len(g.Accounts))
	total := decimal.Zero
	for _, account := range g.Accounts {
		latest := decimal.Zero
		if b, ok := account.LatestBalance(); ok {
			latest, err = s.Converter.ConvertToGBP(ctx, b.Amount, account.Currency)
			if err != nil {
				return nil, err
			}
		}
		total = total.Add(latest)
		members = append(members, MemberAccount{Account: account, LatestBalanceGBP: latest})
	}

	points, err := history.ComputeBalanceHistory(ctx, g.Accounts, from, to, s.Converter)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Group:           g,
		Members:         members,
		AccountCount:    len(members),
		TotalBalanceGBP: total,
		History:         points,
	}, nil
}

// UpdateGroup applies field changes and, when AccountIDs is non-nil,
// replaces the membership
func (s *GroupService) UpdateGroup(ctx context.Context, user *domain.User, groupID uuid.UUID, input UpdateGroupInput) (*domain.AccountGroup, error) {
	g, err := s.GroupRepo.GetByIDAndUser(ctx, groupID, user.ID)
	if err != nil {
		return nil, err
	}

	g.Name = input.Name
	g.Description = input.Description

	if input.AccountIDs != nil {
		accounts, err := s.resolveMembers(ctx, user, input.AccountIDs)
		if err != nil {
			return nil, err
		}
		g.Accounts = accounts
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.GroupRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return g, nil
}

// DeleteGroup removes an owned group
func (s *GroupService) DeleteGroup(ctx context.Context, user *domain.User, groupID uuid.UUID) error {
	if _, err := s.GroupRepo.GetByIDAndUser(ctx, groupID, user.ID); err != nil {
		return err
	}
	if err := s.GroupRepo.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// resolveMembers loads the requested accounts, erroring on unknown IDs and
// silently skipping accounts that belong to another user
func (s *GroupService) resolveMembers(ctx context.Context, user *domain.User, ids []uuid.UUID) ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		account, err := s.AccountRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", id, err)
		}
		if account.UserID != user.ID {
			s.logger.Warn("skipping account not owned by user",
				zap.String("account_id", id.String()),
				zap.String("user_id", user.ID.String()))
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// latestTotalGBP sums the latest balance of each account converted to GBP
func (s *GroupService) latestTotalGBP(ctx context.Context, accounts []*domain.Account) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, account := range accounts {
		b, ok := account.LatestBalance()
		if !ok {
			continue
		}
		converted, err := s.Converter.ConvertToGBP(ctx, b.Amount, account.Currency)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(converted)
	}
	return total, nil
}
