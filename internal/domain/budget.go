package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency represents how often a budget item recurs
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyOneTime Frequency = "one_time"
)

// Valid reports whether the frequency is a known value
func (f Frequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyYearly || f == FrequencyOneTime
}

// BudgetCategory represents a user-defined grouping for expenses
type BudgetCategory struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Icon        string
	Color       string
	IsEssential bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate ensures the category adheres to domain rules
func (c *BudgetCategory) Validate() error {
	if c.Name == "" {
		return errors.New("category name cannot be empty")
	}
	return nil
}

// Income represents a recurring or one-time income entry in the budget
type Income struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Description    string
	Amount         decimal.Decimal
	Frequency      Frequency
	IsNet          bool
	EffectiveMonth *int // 1-12, set only for one-time entries
	EffectiveYear  *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate ensures the income entry adheres to domain rules
func (i *Income) Validate() error {
	if i.Description == "" {
		return errors.New("income description cannot be empty")
	}
	if i.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("income amount must be positive")
	}
	return validateFrequencyDates(i.Frequency, i.EffectiveMonth, i.EffectiveYear)
}

// Expense represents a recurring or one-time expense entry in the budget
type Expense struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Description    string
	Amount         decimal.Decimal
	Frequency      Frequency
	CategoryID     uuid.UUID
	EffectiveMonth *int
	EffectiveYear  *int
	CategoryName   string // populated on read from the joined category
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate ensures the expense entry adheres to domain rules
func (e *Expense) Validate() error {
	if e.Description == "" {
		return errors.New("expense description cannot be empty")
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("expense amount must be positive")
	}
	if e.CategoryID == uuid.Nil {
		return errors.New("expense must reference a budget category")
	}
	return validateFrequencyDates(e.Frequency, e.EffectiveMonth, e.EffectiveYear)
}

// validateFrequencyDates ensures one-time entries carry an effective month
// and year, and that recurring entries do not
func validateFrequencyDates(f Frequency, month, year *int) error {
	if !f.Valid() {
		return errors.New("frequency must be monthly, yearly or one_time")
	}
	if f == FrequencyOneTime {
		if month == nil || year == nil {
			return errors.New("one-time entries require an effective month and year")
		}
		if *month < 1 || *month > 12 {
			return errors.New("effective month must be between 1 and 12")
		}
		return nil
	}
	if month != nil || year != nil {
		return errors.New("recurring entries must not set an effective month or year")
	}
	return nil
}
