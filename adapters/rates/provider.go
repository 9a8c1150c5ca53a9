package rates

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"garment-cost/core/types"
	"garment-cost/internal/logging"
)

// DefaultSchedule refreshes the snapshot hourly
const DefaultSchedule = "@every 1h"

// Fallback returns the hard-coded rate table used before the first
// successful fetch
func Fallback() types.ExchangeRates {
	return types.ExchangeRates{
		types.CurrencyEUR: 36.80,
		types.CurrencyUSD: 34.10,
		types.CurrencyGBP: 43.25,
	}
}

// Provider holds the current rate snapshot and refreshes it in the
// background on a cron schedule. A failed refresh keeps the previous
// snapshot.
type Provider struct {
	client *Client
	cron   *cron.Cron

	mu        sync.RWMutex
	snapshot  types.ExchangeRates
	fetchedAt time.Time
}

// NewProvider creates a provider seeded with the fallback table
func NewProvider(client *Client) *Provider {
	return &Provider{
		client:   client,
		snapshot: Fallback(),
	}
}

// Snapshot returns the current rate table
func (p *Provider) Snapshot() types.ExchangeRates {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot.Clone()
}

// FetchedAt returns when the snapshot was last fetched; zero before the
// first successful fetch
func (p *Provider) FetchedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetchedAt
}

// Refresh fetches the rate table once and swaps the snapshot on success
func (p *Provider) Refresh(ctx context.Context) error {
	table, err := p.client.Fetch(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.snapshot = table
	p.fetchedAt = time.Now().UTC()
	p.mu.Unlock()

	logging.Info("exchange rate snapshot refreshed",
		zap.Float64("eur", table[types.CurrencyEUR]),
		zap.Float64("usd", table[types.CurrencyUSD]),
		zap.Float64("gbp", table[types.CurrencyGBP]))
	return nil
}

// Start schedules background refreshes. An empty schedule uses the default.
func (p *Provider) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := p.Refresh(ctx); err != nil {
			logging.Warn("scheduled rate refresh failed, keeping previous snapshot",
				zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	p.cron = c
	return nil
}

// Stop halts the background refresh schedule
func (p *Provider) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}
