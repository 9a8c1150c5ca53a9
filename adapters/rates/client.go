// Package rates provides the exchange-rate source.
// Rates are fetched over HTTP into an in-memory snapshot refreshed on a
// schedule; the engine only ever sees the snapshot handed to it by the
// calling layer.
package rates

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"garment-cost/core/types"
	"garment-cost/internal/errors"
)

// defaultTimeout bounds a single rate fetch
const defaultTimeout = 10 * time.Second

// Client fetches a rate document from a JSON endpoint
type Client struct {
	url        string
	httpClient *http.Client
}

// rateDocument is the wire format of the rate endpoint
type rateDocument struct {
	Rates map[string]float64 `json:"rates"`
}

// NewClient creates a rate client for the given endpoint
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the current rate table. Only supported currencies are
// kept; a document missing a supported currency or carrying a non-positive
// rate is rejected whole.
func (c *Client) Fetch(ctx context.Context) (types.ExchangeRates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.TypeNetwork, "build rate request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.TypeNetwork, "fetch exchange rates", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.TypeNetwork, "rate endpoint returned status %d", resp.StatusCode)
	}

	var doc rateDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.TypeNetwork, "decode rate document", err)
	}

	table := make(types.ExchangeRates)
	for raw, rate := range doc.Rates {
		table[types.Currency(strings.ToUpper(raw))] = rate
	}

	out := make(types.ExchangeRates, len(types.ForeignCurrencies()))
	for _, currency := range types.ForeignCurrencies() {
		rate, ok := table[currency]
		if !ok {
			return nil, errors.Newf(errors.TypeNetwork,
				"rate document missing %s", currency)
		}
		if rate <= 0 {
			return nil, errors.Newf(errors.TypeNetwork,
				"rate document carries non-positive rate for %s", currency)
		}
		out[currency] = rate
	}

	return out, nil
}
