package budget

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// CategoryInput represents the input for creating or updating a category
type CategoryInput struct {
	Name        string
	Description string
	Icon        string
	Color       string
	IsEssential bool
}

// IncomeInput represents the input for creating or updating an income entry
type IncomeInput struct {
	Description    string
	Amount         decimal.Decimal
	Frequency      domain.Frequency
	IsNet          bool
	EffectiveMonth *int
	EffectiveYear  *int
}

// ExpenseInput represents the input for creating or updating an expense entry
type ExpenseInput struct {
	Description    string
	Amount         decimal.Decimal
	Frequency      domain.Frequency
	CategoryID     uuid.UUID
	EffectiveMonth *int
	EffectiveYear  *int
}

// CategoryBreakdown represents one category's share of a month's spending
type CategoryBreakdown struct {
	CategoryID   uuid.UUID
	CategoryName string
	Total        decimal.Decimal
	Percentage   decimal.Decimal
}

// MonthlySummary represents the budget position for one calendar month
type MonthlySummary struct {
	Month         int
	Year          int
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetSavings    decimal.Decimal
	SavingsRate   decimal.Decimal
	Breakdown     []CategoryBreakdown
}

// YearlySummary represents the budget position for a calendar year
type YearlySummary struct {
	Year          int
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetSavings    decimal.Decimal
	SavingsRate   decimal.Decimal
}

// TrendPoint represents one month in a budget trend series
type TrendPoint struct {
	Month         int
	Year          int
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetSavings    decimal.Decimal
}

// BudgetService handles budget categories, income and expense entries and
// their aggregated summaries
type BudgetService struct {
	CategoryRepo domain.BudgetCategoryRepository
	IncomeRepo   domain.IncomeRepository
	ExpenseRepo  domain.ExpenseRepository
}

// NewBudgetService creates a new BudgetService instance
func NewBudgetService(
	categoryRepo domain.BudgetCategoryRepository,
	incomeRepo domain.IncomeRepository,
	expenseRepo domain.ExpenseRepository,
) *BudgetService {
	return &BudgetService{
		CategoryRepo: categoryRepo,
		IncomeRepo:   incomeRepo,
		ExpenseRepo:  expenseRepo,
	}
}

// CreateCategory creates a budget category for the user
func (s *BudgetService) CreateCategory(ctx context.Context, user *domain.User, input CategoryInput) (*domain.BudgetCategory, error) {
	category := &domain.BudgetCategory{
		ID:          uuid.New(),
		UserID:      user.ID,
		Name:        input.Name,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		IsEssential: input.IsEssential,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.CategoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// GetCategories lists the user's budget categories
func (s *BudgetService) GetCategories(ctx context.Context, user *domain.User) ([]*domain.BudgetCategory, error) {
	categories, err := s.CategoryRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory applies field changes to an owned category
func (s *BudgetService) UpdateCategory(ctx context.Context, user *domain.User, categoryID uuid.UUID, input CategoryInput) (*domain.BudgetCategory, error) {
	category, err := s.ownedCategory(ctx, user, categoryID)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.Description = input.Description
	category.Icon = input.Icon
	category.Color = input.Color
	category.IsEssential = input.IsEssential

	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.CategoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes an owned category and its expenses (cascade)
func (s *BudgetService) DeleteCategory(ctx context.Context, user *domain.User, categoryID uuid.UUID) error {
	if _, err := s.ownedCategory(ctx, user, categoryID); err != nil {
		return err
	}
	if err := s.CategoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// CreateIncome creates an income entry for the user
func (s *BudgetService) CreateIncome(ctx context.Context, user *domain.User, input IncomeInput) (*domain.Income, error) {
	income := &domain.Income{
		ID:             uuid.New(),
		UserID:         user.ID,
		Description:    input.Description,
		Amount:         input.Amount,
		Frequency:      input.Frequency,
		IsNet:          input.IsNet,
		EffectiveMonth: input.EffectiveMonth,
		EffectiveYear:  input.EffectiveYear,
	}
	if err := income.Validate(); err != nil {
		return nil, err
	}
	if err := s.IncomeRepo.Create(ctx, income); err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}
	return income, nil
}

// GetIncomes lists the user's income entries
func (s *BudgetService) GetIncomes(ctx context.Context, user *domain.User) ([]*domain.Income, error) {
	incomes, err := s.IncomeRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	return incomes, nil
}

// UpdateIncome applies field changes to an owned income entry
func (s *BudgetService) UpdateIncome(ctx context.Context, user *domain.User, incomeID uuid.UUID, input IncomeInput) (*domain.Income, error) {
	income, err := s.IncomeRepo.GetByID(ctx, incomeID)
	if err != nil {
		return nil, err
	}
	if income.UserID != user.ID {
		return nil, domain.ErrNotFound
	}

	income.Description = input.Description
	income.Amount = input.Amount
	income.Frequency = input.Frequency
	income.IsNet = input.IsNet
	income.EffectiveMonth = input.EffectiveMonth
	income.EffectiveYear = input.EffectiveYear

	if err := income.Validate(); err != nil {
		return nil, err
	}
	if err := s.IncomeRepo.Update(ctx, income); err != nil {
		return nil, fmt.Errorf("failed to update income: %w", err)
	}
	return income, nil
}

// DeleteIncome removes an owned income entry
func (s *BudgetService) DeleteIncome(ctx context.Context, user *domain.User, incomeID uuid.UUID) error {
	income, err := s.IncomeRepo.GetByID(ctx, incomeID)
	if err != nil {
		return err
	}
	if income.UserID != user.ID {
		return domain.ErrNotFound
	}
	if err := s.IncomeRepo.Delete(ctx, incomeID); err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	return nil
}

// CreateExpense creates an expense entry referencing an owned category
func (s *BudgetService) CreateExpense(ctx context.Context, user *domain.User, input ExpenseInput) (*domain.Expense, error) {
	category, err := s.ownedCategory(ctx, user, input.CategoryID)
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:             uuid.New(),
		UserID:         user.ID,
		Description:    input.Description,
		Amount:         input.Amount,
		Frequency:      input.Frequency,
		CategoryID:     category.ID,
		CategoryName:   category.Name,
		EffectiveMonth: input.EffectiveMonth,
		EffectiveYear:  input.EffectiveYear,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if err := s.ExpenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return expense, nil
}

// GetExpenses lists the user's expense entries
func (s *BudgetService) GetExpenses(ctx context.Context, user *domain.User) ([]*domain.Expense, error) {
	expenses, err := s.ExpenseRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense applies field changes to an owned expense entry, validating
// the new category's ownership
func (s *BudgetService) UpdateExpense(ctx context.Context, user *domain.User, expenseID uuid.UUID, input ExpenseInput) (*domain.Expense, error) {
	expense, err := s.ExpenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.UserID != user.ID {
		return nil, domain.ErrNotFound
	}

	category, err := s.ownedCategory(ctx, user, input.CategoryID)
	if err != nil {
		return nil, err
	}

	expense.Description = input.Description
	expense.Amount = input.Amount
	expense.Frequency = input.Frequency
	expense.CategoryID = category.ID
	expense.CategoryName = category.Name
	expense.EffectiveMonth = input.EffectiveMonth
	expense.EffectiveYear = input.EffectiveYear

	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if err := s.ExpenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes an owned expense entry
func (s *BudgetService) DeleteExpense(ctx context.Context, user *domain.User, expenseID uuid.UUID) error {
	expense, err := s.ExpenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.UserID != user.ID {
		return domain.ErrNotFound
	}
	if err := s.ExpenseRepo.Delete(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// GetMonthlySummary computes the budget position for one month.
// Logic:
//  1. Income = all monthly entries + one-time entries effective that month
//  2. Expenses likewise, monthly recurring plus that month's one-time
//  3. Savings rate = net savings / income * 100, zero when income is zero
//  4. Breakdown groups expenses by category, sorted by total descending
func (s *BudgetService) GetMonthlySummary(ctx context.Context, user *domain.User, month, year int) (*MonthlySummary, error) {
	incomes, expenses, err := s.monthItems(ctx, user, month, year)
	if err != nil {
		return nil, err
	}

	totalIncome := sumIncomes(incomes)
	totalExpenses := sumExpenses(expenses)
	net := totalIncome.Sub(totalExpenses)

	summary := &MonthlySummary{
		Month:         month,
		Year:          year,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetSavings:    net,
		SavingsRate:   rate(net, totalIncome),
		Breakdown:     breakdownByCategory(expenses, totalExpenses),
	}
	return summary, nil
}

// GetYearlySummary computes the budget position for a calendar year:
// yearly entries once, monthly entries twelve times, plus one-time entries
// effective in that year
func (s *BudgetService) GetYearlySummary(ctx context.Context, user *domain.User, year int) (*YearlySummary, error) {
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero

	yearlyIncomes, err := s.IncomeRepo.GetRecurring(ctx, user.ID, domain.FrequencyYearly)
	if err != nil {
		return nil, fmt.Errorf("failed to load yearly incomes: %w", err)
	}
	totalIncome = totalIncome.Add(sumIncomes(yearlyIncomes))

	yearlyExpenses, err := s.ExpenseRepo.GetRecurring(ctx, user.ID, domain.FrequencyYearly)
	if err != nil {
		return nil, fmt.Errorf("failed to load yearly expenses: %w", err)
	}
	totalExpenses = totalExpenses.Add(sumExpenses(yearlyExpenses))

	monthlyIncomes, err := s.IncomeRepo.GetRecurring(ctx, user.ID, domain.FrequencyMonthly)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly incomes: %w", err)
	}
	totalIncome = totalIncome.Add(sumIncomes(monthlyIncomes).Mul(decimal.NewFromInt(12)))

	monthlyExpenses, err := s.ExpenseRepo.GetRecurring(ctx, user.ID, domain.FrequencyMonthly)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly expenses: %w", err)
	}
	totalExpenses = totalExpenses.Add(sumExpenses(monthlyExpenses).Mul(decimal.NewFromInt(12)))

	for month := 1; month <= 12; month++ {
		oneTimeIncomes, err := s.IncomeRepo.GetOneTimeForMonth(ctx, user.ID, month, year)
		if err != nil {
			return nil, fmt.Errorf("failed to load one-time incomes: %w", err)
		}
		totalIncome = totalIncome.Add(sumIncomes(oneTimeIncomes))

		oneTimeExpenses, err := s.ExpenseRepo.GetOneTimeForMonth(ctx, user.ID, month, year)
		if err != nil {
			return nil, fmt.Errorf("failed to load one-time expenses: %w", err)
		}
		totalExpenses = totalExpenses.Add(sumExpenses(oneTimeExpenses))
	}

	net := totalIncome.Sub(totalExpenses)
	return &YearlySummary{
		Year:          year,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetSavings:    net,
		SavingsRate:   rate(net, totalIncome),
	}, nil
}

// GetTrends computes per-month totals for the N months ending at the given
// month, oldest first
func (s *BudgetService) GetTrends(ctx context.Context, user *domain.User, month, year, months int) ([]TrendPoint, error) {
	if months < 1 {
		months = 1
	}

	points := make([]TrendPoint, 0, months)
	cursor := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		m, y := int(cursor.Month()), cursor.Year()

		incomes, expenses, err := s.monthItems(ctx, user, m, y)
		if err != nil {
			return nil, err
		}

		totalIncome := sumIncomes(incomes)
		totalExpenses := sumExpenses(expenses)
		points = append(points, TrendPoint{
			Month:         m,
			Year:          y,
			TotalIncome:   totalIncome,
			TotalExpenses: totalExpenses,
			NetSavings:    totalIncome.Sub(totalExpenses),
		})

		cursor = cursor.AddDate(0, 1, 0)
	}
	return points, nil
}

// monthItems loads the income and expense entries that apply to one month:
// monthly recurring entries plus that month's one-time entries
func (s *BudgetService) monthItems(ctx context.Context, user *domain.User, month, year int) ([]*domain.Income, []*domain.Expense, error) {
	incomes, err := s.IncomeRepo.GetRecurring(ctx, user.ID, domain.FrequencyMonthly)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load monthly incomes: %w", err)
	}
	oneTimeIncomes, err := s.IncomeRepo.GetOneTimeForMonth(ctx, user.ID, month, year)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load one-time incomes: %w", err)
	}
	incomes = append(incomes, oneTimeIncomes...)

	expenses, err := s.ExpenseRepo.GetRecurring(ctx, user.ID, domain.FrequencyMonthly)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load monthly expenses: %w", err)
	}
	oneTimeExpenses, err := s.ExpenseRepo.GetOneTimeForMonth(ctx, user.ID, month, year)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load one-time expenses: %w", err)
	}
	expenses = append(expenses, oneTimeExpenses...)

	return incomes, expenses, nil
}

// ownedCategory loads a category and verifies the user owns it.
// Foreign categories surface as not found.
func (s *BudgetService) ownedCategory(ctx context.Context, user *domain.User, categoryID uuid.UUID) (*domain.BudgetCategory, error) {
	category, err := s.CategoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != user.ID {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

func sumIncomes(incomes []*domain.Income) decimal.Decimal {
	total := decimal.Zero
	for _, i := range incomes {
		total = total.Add(i.Amount)
	}
	return total
}

func sumExpenses(expenses []*domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// rate returns part/whole as a percentage, zero when the whole is zero
func rate(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// breakdownByCategory aggregates expenses per category and sorts the result
// by total descending
func breakdownByCategory(expenses []*domain.Expense, totalExpenses decimal.Decimal) []CategoryBreakdown {
	totals := map[uuid.UUID]*CategoryBreakdown{}
	order := []uuid.UUID{}
	for _, e := range expenses {
		entry, ok := totals[e.CategoryID]
		if !ok {
			entry = &CategoryBreakdown{CategoryID: e.CategoryID, CategoryName: e.CategoryName}
			totals[e.CategoryID] = entry
			order = append(order, e.CategoryID)
		}
		entry.Total = entry.Total.Add(e.Amount)
	}

	breakdown := make([]CategoryBreakdown, 0, len(order))
	for _, id := range order {
		entry := *totals[id]
		entry.Percentage = rate(entry.Total, totalExpenses)
		breakdown = append(breakdown, entry)
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Total.GreaterThan(breakdown[j].Total)
	})
	return breakdown
}
