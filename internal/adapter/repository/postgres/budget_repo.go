package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// budgetCategoryRepository implements domain.BudgetCategoryRepository
type budgetCategoryRepository struct {
	db *DB
}

// NewBudgetCategoryRepository creates a new budget category repository
func NewBudgetCategoryRepository(db *DB) domain.BudgetCategoryRepository {
	return &budgetCategoryRepository{db: db}
}

func (r *budgetCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetCategory, error) {
	query := `
		SELECT id, user_id, name, description, icon, color, is_essential, created_at, updated_at
		FROM budget_categories
		WHERE id = $1
	`

	var category domain.BudgetCategory
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Description,
		&category.Icon,
		&category.Color,
		&category.IsEssential,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *budgetCategoryRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.BudgetCategory, error) {
	query := `
		SELECT id, user_id, name, description, icon, color, is_essential, created_at, updated_at
		FROM budget_categories
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.BudgetCategory{}
	for rows.Next() {
		var category domain.BudgetCategory
		err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Name,
			&category.Description,
			&category.Icon,
			&category.Color,
			&category.IsEssential,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func (r *budgetCategoryRepository) Create(ctx context.Context, category *domain.BudgetCategory) error {
	query := `
		INSERT INTO budget_categories (id, user_id, name, description, icon, color, is_essential, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Description,
		category.Icon,
		category.Color,
		category.IsEssential,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *budgetCategoryRepository) Update(ctx context.Context, category *domain.BudgetCategory) error {
	query := `
		UPDATE budget_categories
		SET name = $2, description = $3, icon = $4, color = $5, is_essential = $6, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.Icon,
		category.Color,
		category.IsEssential,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRowAffected(result)
}

func (r *budgetCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budget_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRowAffected(result)
}

// incomeRepository implements domain.IncomeRepository
type incomeRepository struct {
	db *DB
}

// NewIncomeRepository creates a new income repository
func NewIncomeRepository(db *DB) domain.IncomeRepository {
	return &incomeRepository{db: db}
}

const incomeColumns = `id, user_id, description, amount, frequency, is_net, effective_month, effective_year, created_at, updated_at`

func (r *incomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE id = $1`

	income, err := scanIncomeRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return income, nil
}

func (r *incomeRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE user_id = $1 ORDER BY created_at`
	return r.queryIncomes(ctx, query, userID)
}

func (r *incomeRepository) GetRecurring(ctx context.Context, userID uuid.UUID, freq domain.Frequency) ([]*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE user_id = $1 AND frequency = $2 ORDER BY created_at`
	return r.queryIncomes(ctx, query, userID, string(freq))
}

func (r *incomeRepository) GetOneTimeForMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes
		WHERE user_id = $1 AND frequency = $2 AND effective_month = $3 AND effective_year = $4
		ORDER BY created_at`
	return r.queryIncomes(ctx, query, userID, string(domain.FrequencyOneTime), month, year)
}

func (r *incomeRepository) Create(ctx context.Context, income *domain.Income) error {
	query := `
		INSERT INTO incomes (id, user_id, description, amount, frequency, is_net, effective_month, effective_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		income.ID,
		income.UserID,
		income.Description,
		income.Amount.String(),
		string(income.Frequency),
		income.IsNet,
		income.EffectiveMonth,
		income.EffectiveYear,
	)
	if err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}
	return nil
}

func (r *incomeRepository) Update(ctx context.Context, income *domain.Income) error {
	query := `
		UPDATE incomes
		SET description = $2, amount = $3, frequency = $4, is_net = $5, effective_month = $6, effective_year = $7, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		income.ID,
		income.Description,
		income.Amount.String(),
		string(income.Frequency),
		income.IsNet,
		income.EffectiveMonth,
		income.EffectiveYear,
	)
	if err != nil {
		return fmt.Errorf("failed to update income: %w", err)
	}
	return requireRowAffected(result)
}

func (r *incomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	return requireRowAffected(result)
}

func (r *incomeRepository) queryIncomes(ctx context.Context, query string, args ...interface{}) ([]*domain.Income, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	incomes := []*domain.Income{}
	for rows.Next() {
		income, err := scanIncomeRow(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incomes: %w", err)
	}
	return incomes, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIncomeRow(row rowScanner) (*domain.Income, error) {
	var income domain.Income
	var amountStr string
	var month, year sql.NullInt64

	err := row.Scan(
		&income.ID,
		&income.UserID,
		&income.Description,
		&amountStr,
		&income.Frequency,
		&income.IsNet,
		&month,
		&year,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan income: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	income.Amount = amount

	if month.Valid {
		v := int(month.Int64)
		income.EffectiveMonth = &v
	}
	if year.Valid {
		v := int(year.Int64)
		income.EffectiveYear = &v
	}
	return &income, nil
}

// expenseRepository implements domain.ExpenseRepository
type expenseRepository struct {
	db *DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *DB) domain.ExpenseRepository {
	return &expenseRepository{db: db}
}

// expense reads join the category so CategoryName comes back populated
const expenseSelect = `
	SELECT e.id, e.user_id, e.description, e.amount, e.frequency, e.category_id,
	       e.effective_month, e.effective_year, c.name, e.created_at, e.updated_at
	FROM expenses e
	JOIN budget_categories c ON c.id = e.category_id
`

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	query := expenseSelect + ` WHERE e.id = $1`

	expense, err := scanExpenseRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (r *expenseRepository) GetAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Expense, error) {
	query := expenseSelect + ` WHERE e.user_id = $1 ORDER BY e.created_at`
	return r.queryExpenses(ctx, query, userID)
}

func (r *expenseRepository) GetRecurring(ctx context.Context, userID uuid.UUID, freq domain.Frequency) ([]*domain.Expense, error) {
	query := expenseSelect + ` WHERE e.user_id = $1 AND e.frequency = $2 ORDER BY e.created_at`
	return r.queryExpenses(ctx, query, userID, string(freq))
}

func (r *expenseRepository) GetOneTimeForMonth(ctx context.Context, userID uuid.UUID, month, year int) ([]*domain.Expense, error) {
	query := expenseSelect + `
		WHERE e.user_id = $1 AND e.frequency = $2 AND e.effective_month = $3 AND e.effective_year = $4
		ORDER BY e.created_at`
	return r.queryExpenses(ctx, query, userID, string(domain.FrequencyOneTime), month, year)
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, description, amount, frequency, category_id, effective_month, effective_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		expense.ID,
		expense.UserID,
		expense.Description,
		expense.Amount.String(),
		string(expense.Frequency),
		expense.CategoryID,
		expense.EffectiveMonth,
		expense.EffectiveYear,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	query := `
		UPDATE expenses
		SET description = $2, amount = $3, frequency = $4, category_id = $5, effective_month = $6, effective_year = $7, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		expense.ID,
		expense.Description,
		expense.Amount.String(),
		string(expense.Frequency),
		expense.CategoryID,
		expense.EffectiveMonth,
		expense.EffectiveYear,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return requireRowAffected(result)
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRowAffected(result)
}

func (r *expenseRepository) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]*domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*domain.Expense{}
	for rows.Next() {
		expense, err := scanExpenseRow(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func scanExpenseRow(row rowScanner) (*domain.Expense, error) {
	var expense domain.Expense
	var amountStr string
	var month, year sql.NullInt64

	err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Description,
		&amountStr,
		&expense.Frequency,
		&expense.CategoryID,
		&month,
		&year,
		&expense.CategoryName,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	expense.Amount = amount

	if month.Valid {
		v := int(month.Int64)
		expense.EffectiveMonth = &v
	}
	if year.Valid {
		v := int(year.Int64)
		expense.EffectiveYear = &v
	}
	return &expense, nil
}
