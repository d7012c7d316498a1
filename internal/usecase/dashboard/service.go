package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
	"github.com/nettrack/nettrack-backend/internal/usecase/history"
)

// TypeSlice represents the share of net worth held in one account type
type TypeSlice struct {
	AccountType string
	TotalGBP    decimal.Decimal
	Percentage  decimal.Decimal
}

// GroupTotal represents a group's aggregated latest balance
type GroupTotal struct {
	GroupID      string
	Name         string
	TotalGBP     decimal.Decimal
	AccountCount int
}

// Summary represents the dashboard headline figures
type Summary struct {
	TotalBalanceGBP decimal.Decimal
	AccountCount    int
	Groups          []GroupTotal
	Distribution    []TypeSlice
}

// GroupSeries represents one group's balance history series
type GroupSeries struct {
	GroupID string
	Name    string
	Points  []history.Point
}

// History represents the dashboard chart payload: the overall net-worth
// series plus one series per group
type History struct {
	Total  []history.Point
	Groups []GroupSeries
}

// DashboardService aggregates accounts and groups into dashboard views
type DashboardService struct {
	AccountRepo domain.AccountRepository
	GroupRepo   domain.AccountGroupRepository
	Converter   history.Converter
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	accountRepo domain.AccountRepository,
	groupRepo domain.AccountGroupRepository,
	converter history.Converter,
) *DashboardService {
	return &DashboardService{
		AccountRepo: accountRepo,
		GroupRepo:   groupRepo,
		Converter:   converter,
	}
}

// GetSummary computes the user's total net worth, per-group totals and the
// distribution of the total across account types.
// Logic:
//  1. Accounts flagged as excluded from totals do not contribute to the
//     grand total or the distribution
//  2. Each account contributes its latest balance converted to GBP
//  3. Group totals include every member account regardless of exclusion,
//     since a group is an explicit selection
//  4. Distribution percentages are relative to the grand total; a zero
//     total yields zero percentages
func (s *DashboardService) GetSummary(ctx context.Context, user *domain.User) (*Summary, error) {
	accounts, err := s.AccountRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	total := decimal.Zero
	byType := map[string]decimal.Decimal{}
	typeOrder := []string{}
	counted := 0

	for _, account := range accounts {
		if account.IsExcludedFromTotals {
			continue
		}
		counted++
		latest, err := s.latestGBP(ctx, account)
		if err != nil {
			return nil, err
		}
		total = total.Add(latest)
		if _, seen := byType[account.AccountType]; !seen {
			typeOrder = append(typeOrder, account.AccountType)
		}
		byType[account.AccountType] = byType[account.AccountType].Add(latest)
	}

	distribution := make([]TypeSlice, 0, len(typeOrder))
	for _, accountType := range typeOrder {
		slice := TypeSlice{AccountType: accountType, TotalGBP: byType[accountType]}
		if !total.IsZero() {
			slice.Percentage = slice.TotalGBP.Div(total).Mul(decimal.NewFromInt(100))
		}
		distribution = append(distribution, slice)
	}

	groups, err := s.GroupRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	groupTotals := make([]GroupTotal, 0, len(groups))
	for _, g := range groups {
		groupTotal := decimal.Zero
		for _, account := range g.Accounts {
			latest, err := s.latestGBP(ctx, account)
			if err != nil {
				return nil, err
			}
			groupTotal = groupTotal.Add(latest)
		}
		groupTotals = append(groupTotals, GroupTotal{
			GroupID:      g.ID.String(),
			Name:         g.Name,
			TotalGBP:     groupTotal,
			AccountCount: len(g.Accounts),
		})
	}

	return &Summary{
		TotalBalanceGBP: total,
		AccountCount:    counted,
		Groups:          groupTotals,
		Distribution:    distribution,
	}, nil
}

// GetHistory computes the overall net-worth series over the user's
// non-excluded accounts plus one series per group
func (s *DashboardService) GetHistory(ctx context.Context, user *domain.User, from, to *time.Time) (*History, error) {
	accounts, err := s.AccountRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	included := make([]*domain.Account, 0, len(accounts))
	for _, account := range accounts {
		if !account.IsExcludedFromTotals {
			included = append(included, account)
		}
	}

	totalSeries, err := history.ComputeBalanceHistory(ctx, included, from, to, s.Converter)
	if err != nil {
		return nil, err
	}

	groups, err := s.GroupRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	groupSeries := make([]GroupSeries, 0, len(groups))
	for _, g := range groups {
		points, err := history.ComputeBalanceHistory(ctx, g.Accounts, from, to, s.Converter)
		if err != nil {
			return nil, err
		}
		groupSeries = append(groupSeries, GroupSeries{
			GroupID: g.ID.String(),
			Name:    g.Name,
			Points:  points,
		})
	}

	return &History{Total: totalSeries, Groups: groupSeries}, nil
}

// latestGBP converts an account's latest balance to GBP, zero when the
// account has no balances yet
func (s *DashboardService) latestGBP(ctx context.Context, account *domain.Account) (decimal.Decimal, error) {
	b, ok := account.LatestBalance()
	if !ok {
		return decimal.Zero, nil
	}
	return s.Converter.ConvertToGBP(ctx, b.Amount, account.Currency)
}
