package rates

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// Provider fetches a fresh rate table for the given base currency from an
// external source. Rates are expressed as units of target currency per one
// unit of base currency.
type Provider interface {
	FetchRates(ctx context.Context, base domain.Currency) (domain.RateTable, error)
}

// FallbackRates is the static approximate table used when neither a live
// nor a persisted rate table is available. Deliberately imprecise: it
// exists so aggregation never hard-fails on a rate-provider outage.
var FallbackRates = domain.RateTable{
	domain.CurrencyGBP: decimal.NewFromInt(1),
	domain.CurrencyUSD: decimal.RequireFromString("1.25"),
	domain.CurrencyEUR: decimal.RequireFromString("1.15"),
}

// DefaultMaxAge is the staleness threshold beyond which persisted rates
// are refetched from the provider.
const DefaultMaxAge = 24 * time.Hour

// Service converts amounts into the reporting currency (GBP).
// It holds an explicit per-instance cache of the last good rate table,
// replaced wholesale on every successful refresh.
type Service struct {
	Provider Provider
	RateRepo domain.ExchangeRateRepository
	MaxAge   time.Duration

	logger *zap.Logger

	mu        sync.RWMutex
	table     domain.RateTable
	fetchedAt time.Time
}

// NewService creates a new rates Service instance
func NewService(provider Provider, rateRepo domain.ExchangeRateRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Provider: provider,
		RateRepo: rateRepo,
		MaxAge:   DefaultMaxAge,
		logger:   logger,
	}
}

// ConvertToGBP converts an amount from the given currency into GBP.
// GBP amounts are returned unchanged without any lookup. For other
// currencies the amount is divided by the table rate; missing rates fall
// back to the static table. The error result exists to satisfy the
// aggregator's Converter contract and is always nil: provider failures
// degrade internally instead of surfacing.
func (s *Service) ConvertToGBP(ctx context.Context, amount decimal.Decimal, currency domain.Currency) (decimal.Decimal, error) {
	if currency == domain.ReportingCurrency {
		return amount, nil
	}

	table := s.GetRates(ctx, false)

	rate, ok := table[currency]
	if !ok {
		s.logger.Warn("no exchange rate for currency, using fallback",
			zap.String("currency", string(currency)))
		rate, ok = FallbackRates[currency]
		if !ok {
			// unsupported currency slipped through validation; pass through
			return amount, nil
		}
	}

	return amount.Div(rate), nil
}

// GetRates returns the current rate table for the reporting currency.
// Resolution order: fresh in-memory cache, persisted rates within MaxAge,
// live fetch (persisted on success), last known persisted rates, static
// fallback. It never fails; the worst case is the fallback table.
func (s *Service) GetRates(ctx context.Context, forceRefresh bool) domain.RateTable {
	if !forceRefresh {
		if table, ok := s.cachedFresh(); ok {
			return table
		}

		if s.RateRepo != nil {
			stored, err := s.RateRepo.GetLatest(ctx, domain.ReportingCurrency, s.MaxAge)
			if err == nil && len(stored) > 0 {
				table := tableFromRecords(stored)
				s.store(table, stored[0].FetchedAt)
				return table
			}
			if err != nil {
				s.logger.Error("failed to read persisted exchange rates", zap.Error(err))
			}
		}
	}

	return s.fetchAndStore(ctx)
}

// fetchAndStore fetches a fresh table from the provider, persisting and
// caching it on success. On failure it degrades to the last persisted
// table, then to the static fallback.
func (s *Service) fetchAndStore(ctx context.Context) domain.RateTable {
	table, err := s.Provider.FetchRates(ctx, domain.ReportingCurrency)
	if err == nil {
		now := time.Now().UTC()
		if s.RateRepo != nil {
			if err := s.RateRepo.ReplaceAll(ctx, domain.ReportingCurrency, recordsFromTable(table, now)); err != nil {
				// persistence is best effort; the fetched table is still usable
				s.logger.Error("failed to persist exchange rates", zap.Error(err))
			}
		}
		s.store(table, now)
		s.logger.Info("fetched exchange rates", zap.Int("count", len(table)))
		return table
	}

	s.logger.Error("failed to fetch exchange rates", zap.Error(err))

	if s.RateRepo != nil {
		stored, repoErr := s.RateRepo.GetAllByBase(ctx, domain.ReportingCurrency)
		if repoErr == nil && len(stored) > 0 {
			s.logger.Info("using last known persisted exchange rates")
			table := tableFromRecords(stored)
			s.store(table, stored[0].FetchedAt)
			return table
		}
	}

	s.logger.Warn("no exchange rates available, using static fallback")
	return FallbackRates
}

func (s *Service) cachedFresh() (domain.RateTable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil || time.Since(s.fetchedAt) > s.MaxAge {
		return nil, false
	}
	return s.table, true
}

func (s *Service) store(table domain.RateTable, fetchedAt time.Time) {
	s.mu.Lock()
	s.table = table
	s.fetchedAt = fetchedAt
	s.mu.Unlock()
}

func tableFromRecords(records []domain.ExchangeRate) domain.RateTable {
	table := make(domain.RateTable, len(records))
	for _, r := range records {
		table[r.TargetCurrency] = r.Rate
	}
	return table
}

func recordsFromTable(table domain.RateTable, fetchedAt time.Time) []domain.ExchangeRate {
	records := make([]domain.ExchangeRate, 0, len(table))
	for target, rate := range table {
		records = append(records, domain.ExchangeRate{
			ID:             uuid.New(),
			BaseCurrency:   domain.ReportingCurrency,
			TargetCurrency: target,
			Rate:           rate,
			FetchedAt:      fetchedAt,
		})
	}
	return records
}
