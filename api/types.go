// Package api - Thin, deterministic API layer
// The API is only responsible for input ingestion, engine orchestration,
// and output serialization. It never performs cost logic.
package api

import (
	"context"
	"encoding/json"
	"time"

	"garment-cost/core/types"
	"garment-cost/internal/store"
)

// DefaultsSource serves the current costing-sheet defaults
type DefaultsSource interface {
	Defaults() (types.Defaults, error)
}

// RateSource serves the current exchange-rate snapshot
type RateSource interface {
	Snapshot() types.ExchangeRates
	FetchedAt() time.Time
}

// History persists and lists calculations
type History interface {
	Save(ctx context.Context, inputHash string, parameters, results json.RawMessage) (*store.Record, error)
	Recent(ctx context.Context, limit int) ([]store.Record, error)
}

// CalculateRequest is the body of POST /api/v1/calculate
type CalculateRequest struct {
	// Parameters is the caller-supplied override layer
	Parameters *types.Override `json:"parameters,omitempty"`

	// System is the operator-level override layer
	System *types.Override `json:"system,omitempty"`
}

// CalculateResponse is the success body of POST /api/v1/calculate
type CalculateResponse struct {
	RequestID  string                       `json:"request_id"`
	Parameters *types.CalculationParameters `json:"parameters"`
	Results    types.ResultSet              `json:"results"`
	Warnings   []string                     `json:"warnings,omitempty"`
	Metadata   *ResponseMetadata            `json:"metadata,omitempty"`
}

// ResponseMetadata describes how a response was produced
type ResponseMetadata struct {
	InputHash     string `json:"input_hash"`
	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// RatesResponse is the body of GET /api/v1/rates
type RatesResponse struct {
	Rates     types.ExchangeRates `json:"rates"`
	Local     types.Currency      `json:"local_currency"`
	Base      types.Currency      `json:"base_currency"`
	FetchedAt string              `json:"fetched_at,omitempty"`
}
