// internal/repository/exchange/http_source.go
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"esim-pricing-service/internal/domain/currency"

	"github.com/shopspring/decimal"
)

// HTTPSource fetches the USD-based exchange rate table from the configured
// provider endpoint. The response is expected as {"rates": {"EUR": 0.92, ...}}.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Load(ctx context.Context) (currency.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return currency.RateTable{}, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to decode rates: %w", err)
	}
	if len(payload.Rates) == 0 {
		return currency.RateTable{}, fmt.Errorf("rate source returned no rates")
	}

	return currency.RateTable{
		Rates:     payload.Rates,
		FetchedAt: time.Now(),
	}, nil
}
