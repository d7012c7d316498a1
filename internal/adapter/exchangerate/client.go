package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// DefaultBaseURL is the public exchange-rate API endpoint. The base
// currency is appended as the final path segment.
const DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

const requestTimeout = 10 * time.Second

// Client fetches live exchange rates from the public exchangerate-api
// endpoint. It implements rates.Provider.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new exchange rate API client
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates retrieves the latest rate table for the given base currency,
// filtered down to the supported currency set (the base itself excluded).
func (c *Client) FetchRates(ctx context.Context, base domain.Currency) (domain.RateTable, error) {
	url := fmt.Sprintf("%s/%s", c.BaseURL, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build exchange rate request")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch exchange rates")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode exchange rate response")
	}

	if len(body.Rates) == 0 {
		return nil, errors.New("exchange rate response contains no rates")
	}

	table := make(domain.RateTable)
	for _, currency := range domain.SupportedCurrencies {
		if currency == base {
			continue
		}
		rate, ok := body.Rates[string(currency)]
		if !ok {
			continue
		}
		table[currency] = decimal.NewFromFloat(rate)
	}

	return table, nil
}
