package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate represents one persisted rate: 1 unit of the base currency
// buys Rate units of the target currency
type ExchangeRate struct {
	ID             uuid.UUID
	BaseCurrency   Currency
	TargetCurrency Currency
	Rate           decimal.Decimal
	FetchedAt      time.Time
}

// RateTable maps a target currency to units of that currency per 1 unit
// of the base (reporting) currency
type RateTable map[Currency]decimal.Decimal
