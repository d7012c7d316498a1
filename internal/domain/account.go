package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency represents one of the supported ISO 4217 currency codes
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// ReportingCurrency is the single currency all aggregated totals are expressed in
const ReportingCurrency = CurrencyGBP

// SupportedCurrencies lists every currency accounts may be denominated in
var SupportedCurrencies = []Currency{CurrencyGBP, CurrencyUSD, CurrencyEUR}

// ParseCurrency converts a string to a Currency (case insensitive)
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", errors.New("unsupported currency: " + s)
	}
	return c, nil
}

// Valid reports whether the currency is one of the supported set
func (c Currency) Valid() bool {
	for _, s := range SupportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// Balance represents a single dated snapshot of an account's value,
// denominated in the account's currency.
// Multiple balances may share a date (corrections); CreatedAt breaks the tie.
type Balance struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Date      time.Time // day granularity, normalized to UTC midnight
	Amount    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account represents a financial account entity in the domain layer
type Account struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Name                 string
	Currency             Currency
	AccountType          string
	IsExcludedFromTotals bool
	Balances             []Balance
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}
	if !a.Currency.Valid() {
		return errors.New("account currency must be one of the supported currencies")
	}
	if a.AccountType == "" {
		return errors.New("account type cannot be empty")
	}
	return nil
}

// LatestBalance returns the most recent balance for the account, ordering
// by date and breaking same-date ties by creation time (latest wins).
// The second return value is false when the account has no balances.
func (a *Account) LatestBalance() (Balance, bool) {
	if len(a.Balances) == 0 {
		return Balance{}, false
	}
	latest := a.Balances[0]
	for _, b := range a.Balances[1:] {
		if b.Date.After(latest.Date) ||
			(b.Date.Equal(latest.Date) && b.CreatedAt.After(latest.CreatedAt)) {
			latest = b
		}
	}
	return latest, true
}

// DateOnly truncates t to calendar-day granularity (UTC midnight)
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
