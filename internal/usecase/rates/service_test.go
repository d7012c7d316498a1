package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// MockProvider is a mock implementation of Provider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) FetchRates(ctx context.Context, base domain.Currency) (domain.RateTable, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RateTable), args.Error(1)
}

// MockRateRepository is a mock implementation of ExchangeRateRepository for testing
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) GetLatest(ctx context.Context, base domain.Currency, maxAge time.Duration) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, base, maxAge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockRateRepository) GetAllByBase(ctx context.Context, base domain.Currency) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockRateRepository) ReplaceAll(ctx context.Context, base domain.Currency, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, base, rates)
	return args.Error(0)
}

func usdTable(rate string) domain.RateTable {
	return domain.RateTable{
		domain.CurrencyUSD: decimal.RequireFromString(rate),
		domain.CurrencyEUR: decimal.RequireFromString("1.15"),
	}
}

func TestConvertToGBP_Identity(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	service := NewService(provider, nil, nil)

	amount := decimal.RequireFromString("100.00")
	got, err := service.ConvertToGBP(ctx, amount, domain.CurrencyGBP)

	require.NoError(t, err)
	// exact identity, not just numeric equality
	assert.Equal(t, amount, got)
	provider.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything)
}

func TestConvertToGBP_DividesByRate(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("FetchRates", ctx, domain.CurrencyGBP).Return(usdTable("1.25"), nil)

	service := NewService(provider, nil, nil)

	got, err := service.ConvertToGBP(ctx, decimal.NewFromInt(125), domain.CurrencyUSD)

	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(100)), "got %s", got)
}

func TestConvertToGBP_FallbackOnProviderFailure(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("FetchRates", ctx, domain.CurrencyGBP).Return(nil, errors.New("provider down"))

	service := NewService(provider, nil, nil)

	got, err := service.ConvertToGBP(ctx, decimal.NewFromInt(125), domain.CurrencyUSD)

	// never propagates the provider failure; static fallback rate applies
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(100)), "got %s", got)
}

func TestConvertToGBP_MissingRateUsesFallback(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	// table without EUR
	provider.On("FetchRates", ctx, domain.CurrencyGBP).Return(domain.RateTable{
		domain.CurrencyUSD: decimal.RequireFromString("1.25"),
	}, nil)

	service := NewService(provider, nil, nil)

	got, err := service.ConvertToGBP(ctx, decimal.RequireFromString("115"), domain.CurrencyEUR)

	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(100)), "got %s", got)
}

func TestGetRates_CachesFetchedTable(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("FetchRates", ctx, domain.CurrencyGBP).Return(usdTable("1.25"), nil).Once()

	service := NewService(provider, nil, nil)

	first := service.GetRates(ctx, false)
	second := service.GetRates(ctx, false)

	assert.True(t, first[domain.CurrencyUSD].Equal(second[domain.CurrencyUSD]))
	provider.AssertNumberOfCalls(t, "FetchRates", 1)
}

func TestGetRates_PrefersFreshPersistedRates(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	repo := new(MockRateRepository)

	repo.On("GetLatest", ctx, domain.CurrencyGBP, DefaultMaxAge).Return([]domain.ExchangeRate{
		{
			BaseCurrency:   domain.CurrencyGBP,
			TargetCurrency: domain.CurrencyUSD,
			Rate:           decimal.RequireFromString("1.30"),
			FetchedAt:      time.Now().UTC(),
		},
	}, nil)

	service := NewService(provider, repo, nil)

	table := service.GetRates(ctx, false)

	assert.True(t, table[domain.CurrencyUSD].Equal(decimal.RequireFromString("1.30")))
	provider.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything)
}

func TestGetRates_PersistsFreshFetch(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	repo := new(MockRateRepository)

	repo.On("GetLatest", ctx, domain.CurrencyGBP, DefaultMaxAge).
		Return([]domain.ExchangeRate{}, nil)
	provider.On("FetchRates", ctx, domain.CurrencyGBP).Return(usdTable("1.25"), nil)
	repo.On("ReplaceAll", ctx, domain.CurrencyGBP, mock.Anything).Return(nil)

	service := NewService(provider, repo, nil)

	table := service.GetRates(ctx, false)

	assert.Len(t, table, 2)
	repo.AssertCalled(t, "ReplaceAll", ctx, domain.CurrencyGBP, mock.Anything)
}

func TestGetRates_ProviderFailureFallsBackToLastKnown(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	repo := new(MockRateRepository)

	repo.On("GetLatest", ctx, domain.CurrencyGBP, DefaultMaxAge).
		Return([]domain.ExchangeRate{}, nil)
	provider.On("FetchRates", ctx, domain.CurrencyGBP).Return(nil, errors.New("timeout"))
	repo.On("GetAllByBase", ctx, domain.CurrencyGBP).Return([]domain.ExchangeRate{
		{
			BaseCurrency:   domain.CurrencyGBP,
			TargetCurrency: domain.CurrencyUSD,
			Rate:           decimal.RequireFromString("1.20"),
			FetchedAt:      time.Now().Add(-48 * time.Hour),
		},
	}, nil)

	service := NewService(provider, repo, nil)

	table := service.GetRates(ctx, false)

	assert.True(t, table[domain.CurrencyUSD].Equal(decimal.RequireFromString("1.20")))
}

func TestGetRates_TotalOutageReturnsStaticFallback(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	repo := new(MockRateRepository)

	repo.On("GetLatest", ctx, domain.CurrencyGBP, DefaultMaxAge).
		Return(nil, errors.New("db down"))
	provider.On("FetchRates", ctx, domain.CurrencyGBP).Return(nil, errors.New("api down"))
	repo.On("GetAllByBase", ctx, domain.CurrencyGBP).Return(nil, errors.New("db down"))

	service := NewService(provider, repo, nil)

	table := service.GetRates(ctx, false)

	assert.True(t, table[domain.CurrencyUSD].Equal(decimal.RequireFromString("1.25")))
	assert.True(t, table[domain.CurrencyEUR].Equal(decimal.RequireFromString("1.15")))
}

func TestGetRates_ForceRefreshSkipsCache(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("FetchRates", ctx, domain.CurrencyGBP).Return(usdTable("1.25"), nil)

	service := NewService(provider, nil, nil)

	service.GetRates(ctx, false)
	service.GetRates(ctx, true)

	provider.AssertNumberOfCalls(t, "FetchRates", 2)
}
