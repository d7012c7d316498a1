package history

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// Converter converts an amount in a source currency into the reporting
// currency (GBP). Implementations must not fail on transient rate-provider
// outages; any error returned here is propagated to the caller unchanged.
type Converter interface {
	ConvertToGBP(ctx context.Context, amount decimal.Decimal, currency domain.Currency) (decimal.Decimal, error)
}

// Point represents one observation in a balance history series:
// a calendar date and the total balance in GBP across all accounts.
type Point struct {
	Date  time.Time
	Total decimal.Decimal
}

// accountSeries holds one account's balances pre-sorted ascending by
// (date, created at). Kept as a slice so per-date summation iterates
// accounts in input order, which makes reruns deterministic.
type accountSeries struct {
	currency domain.Currency
	balances []domain.Balance
}

// ComputeBalanceHistory merges the irregular balance series of the given
// accounts into a single chronological series of GBP totals.
// Logic:
//  1. Sort each account's balances ascending by (date, created at);
//     accounts with no balances are skipped entirely
//  2. Collect the distinct dates appearing across any account's balances
//  3. Filter that date set by the optional inclusive from/to bounds
//     (the bounds never restrict which balances feed the fill-forward)
//  4. For each remaining date ascending, sum each account's most recent
//     balance on or before that date (fill-forward); accounts whose first
//     balance is after the date contribute nothing
//  5. Non-GBP amounts go through the converter; if conv is nil such
//     contributions are skipped (callers in this repo always supply one)
//
// Empty or degenerate input yields an empty series, never an error.
// Converter errors are propagated unchanged.
func ComputeBalanceHistory(
	ctx context.Context,
	accounts []*domain.Account,
	from, to *time.Time,
	conv Converter,
) ([]Point, error) {
	if len(accounts) == 0 {
		return []Point{}, nil
	}

	// Step 1: build sorted per-account series
	series := make([]accountSeries, 0, len(accounts))
	for _, account := range accounts {
		if len(account.Balances) == 0 {
			continue
		}
		balances := make([]domain.Balance, len(account.Balances))
		copy(balances, account.Balances)
		sort.SliceStable(balances, func(i, j int) bool {
			di, dj := domain.DateOnly(balances[i].Date), domain.DateOnly(balances[j].Date)
			if !di.Equal(dj) {
				return di.Before(dj)
			}
			return balances[i].CreatedAt.Before(balances[j].CreatedAt)
		})
		series = append(series, accountSeries{
			currency: account.Currency,
			balances: balances,
		})
	}

	if len(series) == 0 {
		return []Point{}, nil
	}

	// Step 2: distinct observation dates across all accounts
	dateSet := make(map[time.Time]struct{})
	for _, s := range series {
		for _, b := range s.balances {
			dateSet[domain.DateOnly(b.Date)] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Step 3: inclusive range filter on the observation dates only
	filtered := dates[:0]
	for _, d := range dates {
		if from != nil && d.Before(domain.DateOnly(*from)) {
			continue
		}
		if to != nil && d.After(domain.DateOnly(*to)) {
			continue
		}
		filtered = append(filtered, d)
	}

	if len(filtered) == 0 {
		return []Point{}, nil
	}

	// Step 4: fill-forward totals per observation date
	points := make([]Point, 0, len(filtered))
	for _, target := range filtered {
		total := decimal.Zero

		for _, s := range series {
			amount, ok := latestOnOrBefore(s.balances, target)
			if !ok {
				// observation date precedes the account's first balance
				continue
			}

			if s.currency == domain.ReportingCurrency {
				total = total.Add(amount)
				continue
			}

			if conv == nil {
				// no conversion capability, skip non-GBP contribution
				continue
			}

			converted, err := conv.ConvertToGBP(ctx, amount, s.currency)
			if err != nil {
				return nil, err
			}
			total = total.Add(converted)
		}

		points = append(points, Point{Date: target, Total: total})
	}

	return points, nil
}

// latestOnOrBefore scans from newest to oldest and returns the amount of
// the first balance dated on or before target. Same-date corrections are
// already ordered by creation time, so the newest correction wins.
func latestOnOrBefore(balances []domain.Balance, target time.Time) (decimal.Decimal, bool) {
	for i := len(balances) - 1; i >= 0; i-- {
		if !domain.DateOnly(balances[i].Date).After(target) {
			return balances[i].Amount, true
		}
	}
	return decimal.Decimal{}, false
}
