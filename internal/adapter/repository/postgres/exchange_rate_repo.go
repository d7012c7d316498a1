package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// exchangeRateRepository implements domain.ExchangeRateRepository
type exchangeRateRepository struct {
	db *DB
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *DB) domain.ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

func (r *exchangeRateRepository) GetLatest(ctx context.Context, base domain.Currency, maxAge time.Duration) ([]domain.ExchangeRate, error) {
	query := `
		SELECT id, base_currency, target_currency, rate, fetched_at
		FROM exchange_rates
		WHERE base_currency = $1 AND fetched_at >= $2
		ORDER BY fetched_at DESC
	`

	cutoff := time.Now().UTC().Add(-maxAge)
	return r.queryRates(ctx, query, string(base), cutoff)
}

func (r *exchangeRateRepository) GetAllByBase(ctx context.Context, base domain.Currency) ([]domain.ExchangeRate, error) {
	query := `
		SELECT id, base_currency, target_currency, rate, fetched_at
		FROM exchange_rates
		WHERE base_currency = $1
		ORDER BY fetched_at DESC
	`

	return r.queryRates(ctx, query, string(base))
}

// ReplaceAll swaps the stored rate set for a base currency in one
// database transaction
func (r *exchangeRateRepository) ReplaceAll(ctx context.Context, base domain.Currency, rates []domain.ExchangeRate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exchange_rates WHERE base_currency = $1`, string(base)); err != nil {
		return fmt.Errorf("failed to clear exchange rates: %w", err)
	}

	insert := `
		INSERT INTO exchange_rates (id, base_currency, target_currency, rate, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, rate := range rates {
		_, err := tx.ExecContext(ctx, insert,
			rate.ID,
			string(rate.BaseCurrency),
			string(rate.TargetCurrency),
			rate.Rate.String(),
			rate.FetchedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert exchange rate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *exchangeRateRepository) queryRates(ctx context.Context, query string, args ...interface{}) ([]domain.ExchangeRate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchange rates: %w", err)
	}
	return rates, nil
}

func scanRate(rows *sql.Rows) (domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	var rateStr string

	err := rows.Scan(
		&rate.ID,
		&rate.BaseCurrency,
		&rate.TargetCurrency,
		&rateStr,
		&rate.FetchedAt,
	)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("failed to scan exchange rate: %w", err)
	}

	parsed, err := decimal.NewFromString(rateStr)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("failed to parse rate: %w", err)
	}
	rate.Rate = parsed

	return rate, nil
}
