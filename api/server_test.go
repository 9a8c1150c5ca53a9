package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"garment-cost/core/types"
	"garment-cost/internal/errors"
	"garment-cost/internal/store"
)

func fptr(v float64) *float64 { return &v }

type stubDefaults struct {
	defaults types.Defaults
	err      error
}

func (s *stubDefaults) Defaults() (types.Defaults, error) {
	return s.defaults, s.err
}

type stubRates struct {
	snapshot types.ExchangeRates
}

func (s *stubRates) Snapshot() types.ExchangeRates { return s.snapshot }
func (s *stubRates) FetchedAt() time.Time          { return time.Time{} }

type memoryHistory struct {
	records []store.Record
}

func (m *memoryHistory) Save(_ context.Context, hash string, parameters, results json.RawMessage) (*store.Record, error) {
	record := store.Record{ID: hash, InputHash: hash, Parameters: parameters, Results: results}
	m.records = append(m.records, record)
	return &record, nil
}

func (m *memoryHistory) Recent(_ context.Context, limit int) ([]store.Record, error) {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

func testDefaults() types.Defaults {
	return types.Defaults{
		Rates: types.ExchangeRates{
			types.CurrencyEUR: 38.50,
			types.CurrencyUSD: 34.20,
			types.CurrencyGBP: 45.10,
		},
		Fabric:            types.FabricPricing{UnitPrice: fptr(5.00)},
		OverheadPercent:   types.RangeValues{},
		ProfitPercent:     types.RangeValues{},
		VATPercent:        18,
		CommissionPercent: 3,
		Operations:        types.OperationCosts{},
	}
}

func testServer(defaults *stubDefaults, history History) *Server {
	return NewServer(Options{Version: "test", Development: true},
		defaults,
		&stubRates{snapshot: types.ExchangeRates{types.CurrencyEUR: 38.50}},
		history)
}

func postCalculate(t *testing.T, server *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

// TestCalculateEndpoint proves a fabric-only request produces the expected
// totals for every configured range
func TestCalculateEndpoint(t *testing.T) {
	history := &memoryHistory{}
	server := testServer(&stubDefaults{defaults: testDefaults()}, history)

	recorder := postCalculate(t, server, `{"parameters": {"batch_sizes": {"0-50": 25}}}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response CalculateResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(response.Results) != len(types.RangeIDs()) {
		t.Fatalf("Expected %d range results, got %d", len(types.RangeIDs()), len(response.Results))
	}

	small := response.Results[types.RangeSmall]
	if small == nil {
		t.Fatal("missing result for range 0-50")
	}
	if small.Totals[types.CurrencyEUR] != 151.25 {
		t.Errorf("final EUR = %v, expected 151.25", small.Totals[types.CurrencyEUR])
	}
	if small.Totals[types.CurrencyTRY] != 5823.13 {
		t.Errorf("final TRY = %v, expected 5823.13", small.Totals[types.CurrencyTRY])
	}

	if response.RequestID == "" {
		t.Error("response missing request_id")
	}
	if response.Metadata == nil || response.Metadata.InputHash == "" {
		t.Error("response missing input hash metadata")
	}
	if len(history.records) != 1 {
		t.Errorf("Expected 1 persisted calculation, got %d", len(history.records))
	}
}

// TestCalculateValidationFailure proves a 400 response enumerates every
// violated field
func TestCalculateValidationFailure(t *testing.T) {
	server := testServer(&stubDefaults{defaults: testDefaults()}, nil)

	recorder := postCalculate(t, server,
		`{"parameters": {"rates": {"EUR": 0}, "vat_percent": 200}}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body struct {
		Error struct {
			Code       string                  `json:"code"`
			Violations []errors.FieldViolation `json:"violations"`
		} `json:"error"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}

	if body.Error.Code != string(errors.TypeValidation) {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", body.Error.Code)
	}

	fields := make(map[string]bool)
	for _, v := range body.Error.Violations {
		fields[v.Field] = true
	}
	if !fields["rates.EUR"] || !fields["vat_percent"] {
		t.Errorf("Expected violations for rates.EUR and vat_percent, got %v", fields)
	}
}

// TestCalculateSourceUnavailable proves a failed defaults source maps to 502
// and is never masked by substituted values
func TestCalculateSourceUnavailable(t *testing.T) {
	server := testServer(&stubDefaults{
		err: errors.SourceUnavailable("costing sheet unavailable", nil),
	}, nil)

	recorder := postCalculate(t, server, `{}`)
	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

// TestCalculateInvalidJSON proves malformed bodies map to 400
func TestCalculateInvalidJSON(t *testing.T) {
	server := testServer(&stubDefaults{defaults: testDefaults()}, nil)

	recorder := postCalculate(t, server, `{"parameters": `)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", recorder.Code)
	}
}

// TestDefaultsEndpoint proves the sheet defaults are exposed as-is
func TestDefaultsEndpoint(t *testing.T) {
	server := testServer(&stubDefaults{defaults: testDefaults()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/defaults", nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var defaults types.Defaults
	if err := json.Unmarshal(recorder.Body.Bytes(), &defaults); err != nil {
		t.Fatalf("decode defaults: %v", err)
	}
	if defaults.VATPercent != 18 {
		t.Errorf("vat_percent = %v, expected 18", defaults.VATPercent)
	}
}

// TestHistoryDisabled proves the history endpoint degrades cleanly when
// persistence is off
func TestHistoryDisabled(t *testing.T) {
	server := testServer(&stubDefaults{defaults: testDefaults()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", recorder.Code)
	}
}

// TestHealthEndpoint proves the liveness probe responds
func TestHealthEndpoint(t *testing.T) {
	server := testServer(&stubDefaults{defaults: testDefaults()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
}
