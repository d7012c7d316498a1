package budget

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// MockCategoryRepository is a mock implementation of BudgetCategoryRepository for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetCategory), args.Error(1)
}

func (m *MockCategoryRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.BudgetCategory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BudgetCategory), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.BudgetCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.BudgetCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIncomeRepository is a mock implementation of IncomeRepository for testing
type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Income, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Income), args.Error(1)
}

func (m *MockIncomeRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Income, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Income), args.Error(1)
}

func (m *MockIncomeRepository) GetRecurring(ctx context.Context, userID uuid.UUID, freq domain.Frequency) ([]*domain.Income, error) {
	args := m.Called(ctx, userID, freq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Income), args.Error(1)
}

func (m *MockIncomeRepository) GetOneTimeForMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*domain.Income, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Income), args.Error(1)
}

func (m *MockIncomeRepository) Create(ctx context.Context, income *domain.Income) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

func (m *MockIncomeRepository) Update(ctx context.Context, income *domain.Income) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

func (m *MockIncomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockExpenseRepository is a mock implementation of ExpenseRepository for testing
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Expense, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) GetRecurring(ctx context.Context, userID uuid.UUID, freq domain.Frequency) ([]*domain.Expense, error) {
	args := m.Called(ctx, userID, freq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) GetOneTimeForMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*domain.Expense, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService() (*BudgetService, *MockCategoryRepository, *MockIncomeRepository, *MockExpenseRepository) {
	categoryRepo := new(MockCategoryRepository)
	incomeRepo := new(MockIncomeRepository)
	expenseRepo := new(MockExpenseRepository)
	return NewBudgetService(categoryRepo, incomeRepo, expenseRepo), categoryRepo, incomeRepo, expenseRepo
}

func intPtr(v int) *int { return &v }

func monthlyIncome(userID uuid.UUID, amount int64) *domain.Income {
	return &domain.Income{
		ID:          uuid.New(),
		UserID:      userID,
		Description: "salary",
		Amount:      decimal.NewFromInt(amount),
		Frequency:   domain.FrequencyMonthly,
	}
}

func monthlyExpense(userID, categoryID uuid.UUID, name string, amount int64) *domain.Expense {
	return &domain.Expense{
		ID:           uuid.New(),
		UserID:       userID,
		Description:  name,
		Amount:       decimal.NewFromInt(amount),
		Frequency:    domain.FrequencyMonthly,
		CategoryID:   categoryID,
		CategoryName: name,
	}
}

func TestCreateExpense_DeniesForeignCategory(t *testing.T) {
	ctx := context.Background()
	service, categoryRepo, _, expenseRepo := newService()

	categoryID := uuid.New()
	categoryRepo.On("GetByID", ctx, categoryID).Return(&domain.BudgetCategory{
		ID:     categoryID,
		UserID: uuid.New(), // different owner
		Name:   "Rent",
	}, nil)

	_, err := service.CreateExpense(ctx, &domain.User{ID: uuid.New()}, ExpenseInput{
		Description: "flat",
		Amount:      decimal.NewFromInt(1200),
		Frequency:   domain.FrequencyMonthly,
		CategoryID:  categoryID,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	expenseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateExpense_DenormalizesCategoryName(t *testing.T) {
	ctx := context.Background()
	service, categoryRepo, _, expenseRepo := newService()

	user := &domain.User{ID: uuid.New()}
	categoryID := uuid.New()
	categoryRepo.On("GetByID", ctx, categoryID).Return(&domain.BudgetCategory{
		ID: categoryID, UserID: user.ID, Name: "Groceries",
	}, nil)
	expenseRepo.On("Create", ctx, mock.AnythingOfType("*domain.Expense")).Return(nil)

	expense, err := service.CreateExpense(ctx, user, ExpenseInput{
		Description: "weekly shop",
		Amount:      decimal.NewFromInt(80),
		Frequency:   domain.FrequencyMonthly,
		CategoryID:  categoryID,
	})

	require.NoError(t, err)
	assert.Equal(t, "Groceries", expense.CategoryName)
}

func TestCreateIncome_OneTimeRequiresEffectiveDate(t *testing.T) {
	ctx := context.Background()
	service, _, incomeRepo, _ := newService()

	_, err := service.CreateIncome(ctx, &domain.User{ID: uuid.New()}, IncomeInput{
		Description: "bonus",
		Amount:      decimal.NewFromInt(500),
		Frequency:   domain.FrequencyOneTime,
	})

	assert.Error(t, err)
	incomeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateIncome_ForeignEntryIsNotFound(t *testing.T) {
	ctx := context.Background()
	service, _, incomeRepo, _ := newService()

	incomeID := uuid.New()
	incomeRepo.On("GetByID", ctx, incomeID).Return(&domain.Income{
		ID: incomeID, UserID: uuid.New(),
	}, nil)

	_, err := service.UpdateIncome(ctx, &domain.User{ID: uuid.New()}, incomeID, IncomeInput{
		Description: "salary",
		Amount:      decimal.NewFromInt(3000),
		Frequency:   domain.FrequencyMonthly,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetMonthlySummary_SavingsRateAndBreakdown(t *testing.T) {
	ctx := context.Background()
	service, _, incomeRepo, expenseRepo := newService()

	user := &domain.User{ID: uuid.New()}
	rent := uuid.New()
	food := uuid.New()

	incomeRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Income{monthlyIncome(user.ID, 2000)}, nil)
	incomeRepo.On("GetOneTimeForMonth", ctx, user.ID, 6, 2024).
		Return([]*domain.Income{}, nil)
	expenseRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Expense{
			monthlyExpense(user.ID, food, "Groceries", 300),
			monthlyExpense(user.ID, rent, "Rent", 1200),
		}, nil)
	expenseRepo.On("GetOneTimeForMonth", ctx, user.ID, 6, 2024).
		Return([]*domain.Expense{}, nil)

	summary, err := service.GetMonthlySummary(ctx, user, 6, 2024)

	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(2000)))
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.NetSavings.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.SavingsRate.Equal(decimal.NewFromInt(25)), "got %s", summary.SavingsRate)

	// breakdown sorted by total descending
	require.Len(t, summary.Breakdown, 2)
	assert.Equal(t, "Rent", summary.Breakdown[0].CategoryName)
	assert.True(t, summary.Breakdown[0].Percentage.Equal(decimal.NewFromInt(80)), "got %s", summary.Breakdown[0].Percentage)
	assert.Equal(t, "Groceries", summary.Breakdown[1].CategoryName)
	assert.True(t, summary.Breakdown[1].Percentage.Equal(decimal.NewFromInt(20)), "got %s", summary.Breakdown[1].Percentage)
}

func TestGetMonthlySummary_IncludesOneTimeItems(t *testing.T) {
	ctx := context.Background()
	service, _, incomeRepo, expenseRepo := newService()

	user := &domain.User{ID: uuid.New()}
	bonus := &domain.Income{
		ID: uuid.New(), UserID: user.ID, Description: "bonus",
		Amount: decimal.NewFromInt(500), Frequency: domain.FrequencyOneTime,
		EffectiveMonth: intPtr(6), EffectiveYear: intPtr(2024),
	}

	incomeRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Income{monthlyIncome(user.ID, 2000)}, nil)
	incomeRepo.On("GetOneTimeForMonth", ctx, user.ID, 6, 2024).
		Return([]*domain.Income{bonus}, nil)
	expenseRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Expense{}, nil)
	expenseRepo.On("GetOneTimeForMonth", ctx, user.ID, 6, 2024).
		Return([]*domain.Expense{}, nil)

	summary, err := service.GetMonthlySummary(ctx, user, 6, 2024)

	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(2500)), "got %s", summary.TotalIncome)
}

func TestGetMonthlySummary_ZeroIncomeYieldsZeroRate(t *testing.T) {
	ctx := context.Background()
	service, _, incomeRepo, expenseRepo := newService()

	user := &domain.User{ID: uuid.New()}
	incomeRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).Return([]*domain.Income{}, nil)
	incomeRepo.On("GetOneTimeForMonth", ctx, user.ID, 1, 2024).Return([]*domain.Income{}, nil)
	expenseRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Expense{monthlyExpense(user.ID, uuid.New(), "Rent", 100)}, nil)
	expenseRepo.On("GetOneTimeForMonth", ctx, user.ID, 1, 2024).Return([]*domain.Expense{}, nil)

	summary, err := service.GetMonthlySummary(ctx, user, 1, 2024)

	require.NoError(t, err)
	assert.True(t, summary.SavingsRate.IsZero())
}

func TestGetYearlySummary_CombinesFrequencies(t *testing.T) {
	ctx := context.Background()
	service, _, incomeRepo, expenseRepo := newService()

	user := &domain.User{ID: uuid.New()}
	yearlyBonus := &domain.Income{
		ID: uuid.New(), UserID: user.ID, Description: "dividend",
		Amount: decimal.NewFromInt(1000), Frequency: domain.FrequencyYearly,
	}

	incomeRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyYearly).
		Return([]*domain.Income{yearlyBonus}, nil)
	incomeRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Income{monthlyIncome(user.ID, 2000)}, nil)
	incomeRepo.On("GetOneTimeForMonth", ctx, user.ID, mock.AnythingOfType("int"), 2024).
		Return([]*domain.Income{}, nil)

	expenseRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyYearly).
		Return([]*domain.Expense{}, nil)
	expenseRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Expense{monthlyExpense(user.ID, uuid.New(), "Rent", 1000)}, nil)
	expenseRepo.On("GetOneTimeForMonth", ctx, user.ID, mock.AnythingOfType("int"), 2024).
		Return([]*domain.Expense{}, nil)

	summary, err := service.GetYearlySummary(ctx, user, 2024)

	require.NoError(t, err)
	// 1000 yearly + 12 * 2000 monthly
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(25000)), "got %s", summary.TotalIncome)
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(12000)), "got %s", summary.TotalExpenses)
	assert.True(t, summary.NetSavings.Equal(decimal.NewFromInt(13000)))
}

func TestGetTrends_SpansYearBoundary(t *testing.T) {
	ctx := context.Background()
	service, _, incomeRepo, expenseRepo := newService()

	user := &domain.User{ID: uuid.New()}
	incomeRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Income{monthlyIncome(user.ID, 100)}, nil)
	incomeRepo.On("GetOneTimeForMonth", ctx, user.ID, mock.AnythingOfType("int"), mock.AnythingOfType("int")).
		Return([]*domain.Income{}, nil)
	expenseRepo.On("GetRecurring", ctx, user.ID, domain.FrequencyMonthly).
		Return([]*domain.Expense{}, nil)
	expenseRepo.On("GetOneTimeForMonth", ctx, user.ID, mock.AnythingOfType("int"), mock.AnythingOfType("int")).
		Return([]*domain.Expense{}, nil)

	points, err := service.GetTrends(ctx, user, 2, 2024, 4)

	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, 11, points[0].Month)
	assert.Equal(t, 2023, points[0].Year)
	assert.Equal(t, 2, points[3].Month)
	assert.Equal(t, 2024, points[3].Year)
	for _, p := range points {
		assert.True(t, p.NetSavings.Equal(decimal.NewFromInt(100)))
	}
}
