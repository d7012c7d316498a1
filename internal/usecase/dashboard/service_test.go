package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGroupRepository is a mock implementation of AccountGroupRepository for testing
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.AccountGroup, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountGroup), args.Error(1)
}

func (m *MockGroupRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.AccountGroup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountGroup), args.Error(1)
}

func (m *MockGroupRepository) Create(ctx context.Context, group *domain.AccountGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) Update(ctx context.Context, group *domain.AccountGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// identityConverter treats every currency as already being in GBP
type identityConverter struct{}

func (identityConverter) ConvertToGBP(_ context.Context, amount decimal.Decimal, _ domain.Currency) (decimal.Decimal, error) {
	return amount, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func typedAccount(userID uuid.UUID, accountType string, amount int64, excluded bool) *domain.Account {
	id := uuid.New()
	return &domain.Account{
		ID:                   id,
		UserID:               userID,
		Name:                 accountType,
		Currency:             domain.CurrencyGBP,
		AccountType:          accountType,
		IsExcludedFromTotals: excluded,
		Balances: []domain.Balance{
			{ID: uuid.New(), AccountID: id, Date: day(2024, 1, 1), Amount: decimal.NewFromInt(amount), CreatedAt: day(2024, 1, 1)},
		},
	}
}

func TestGetSummary_ExcludedAccountsDoNotCount(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	groupRepo := new(MockGroupRepository)

	user := &domain.User{ID: uuid.New()}
	accountRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.Account{
		typedAccount(user.ID, "savings", 100, false),
		typedAccount(user.ID, "loan", 900, true),
	}, nil)
	groupRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.AccountGroup{}, nil)

	service := NewDashboardService(accountRepo, groupRepo, identityConverter{})

	summary, err := service.GetSummary(ctx, user)

	require.NoError(t, err)
	assert.True(t, summary.TotalBalanceGBP.Equal(decimal.NewFromInt(100)), "got %s", summary.TotalBalanceGBP)
	assert.Equal(t, 1, summary.AccountCount)
}

func TestGetSummary_DistributionPercentages(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	groupRepo := new(MockGroupRepository)

	user := &domain.User{ID: uuid.New()}
	accountRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.Account{
		typedAccount(user.ID, "savings", 75, false),
		typedAccount(user.ID, "investment", 25, false),
	}, nil)
	groupRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.AccountGroup{}, nil)

	service := NewDashboardService(accountRepo, groupRepo, identityConverter{})

	summary, err := service.GetSummary(ctx, user)

	require.NoError(t, err)
	require.Len(t, summary.Distribution, 2)
	assert.Equal(t, "savings", summary.Distribution[0].AccountType)
	assert.True(t, summary.Distribution[0].Percentage.Equal(decimal.NewFromInt(75)), "got %s", summary.Distribution[0].Percentage)
	assert.True(t, summary.Distribution[1].Percentage.Equal(decimal.NewFromInt(25)), "got %s", summary.Distribution[1].Percentage)
}

func TestGetSummary_ZeroTotalHasZeroPercentages(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	groupRepo := new(MockGroupRepository)

	user := &domain.User{ID: uuid.New()}
	accountRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.Account{
		typedAccount(user.ID, "savings", 0, false),
	}, nil)
	groupRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.AccountGroup{}, nil)

	service := NewDashboardService(accountRepo, groupRepo, identityConverter{})

	summary, err := service.GetSummary(ctx, user)

	require.NoError(t, err)
	require.Len(t, summary.Distribution, 1)
	assert.True(t, summary.Distribution[0].Percentage.IsZero())
}

func TestGetSummary_GroupTotalsIncludeExcludedMembers(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	groupRepo := new(MockGroupRepository)

	user := &domain.User{ID: uuid.New()}
	excluded := typedAccount(user.ID, "loan", 40, true)
	accountRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.Account{excluded}, nil)
	groupRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.AccountGroup{
		{ID: uuid.New(), UserID: user.ID, Name: "Debts", Accounts: []*domain.Account{excluded}},
	}, nil)

	service := NewDashboardService(accountRepo, groupRepo, identityConverter{})

	summary, err := service.GetSummary(ctx, user)

	require.NoError(t, err)
	assert.True(t, summary.TotalBalanceGBP.IsZero())
	require.Len(t, summary.Groups, 1)
	assert.True(t, summary.Groups[0].TotalGBP.Equal(decimal.NewFromInt(40)), "got %s", summary.Groups[0].TotalGBP)
}

func TestGetHistory_TotalSkipsExcludedAccounts(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	groupRepo := new(MockGroupRepository)

	user := &domain.User{ID: uuid.New()}
	accountRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.Account{
		typedAccount(user.ID, "savings", 100, false),
		typedAccount(user.ID, "loan", 900, true),
	}, nil)
	groupRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.AccountGroup{}, nil)

	service := NewDashboardService(accountRepo, groupRepo, identityConverter{})

	hist, err := service.GetHistory(ctx, user, nil, nil)

	require.NoError(t, err)
	require.Len(t, hist.Total, 1)
	assert.True(t, hist.Total[0].Total.Equal(decimal.NewFromInt(100)), "got %s", hist.Total[0].Total)
	assert.Empty(t, hist.Groups)
}

func TestGetHistory_OneSeriesPerGroup(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	groupRepo := new(MockGroupRepository)

	user := &domain.User{ID: uuid.New()}
	a := typedAccount(user.ID, "savings", 100, false)
	accountRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.Account{a}, nil)
	groupRepo.On("GetAllForUser", ctx, user.ID).Return([]*domain.AccountGroup{
		{ID: uuid.New(), UserID: user.ID, Name: "Everything", Accounts: []*domain.Account{a}},
		{ID: uuid.New(), UserID: user.ID, Name: "Empty"},
	}, nil)

	service := NewDashboardService(accountRepo, groupRepo, identityConverter{})

	hist, err := service.GetHistory(ctx, user, nil, nil)

	require.NoError(t, err)
	require.Len(t, hist.Groups, 2)
	assert.Equal(t, "Everything", hist.Groups[0].Name)
	require.Len(t, hist.Groups[0].Points, 1)
	assert.Empty(t, hist.Groups[1].Points)
}
