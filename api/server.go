package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"garment-cost/core/engine"
	"garment-cost/core/types"
	"garment-cost/internal/errors"
	"garment-cost/internal/logging"
)

// Options configures the API server
type Options struct {
	// Version is reported in responses and /version
	Version string

	// Development exposes full error detail in responses
	Development bool

	// AllowedOrigins lists CORS origins
	AllowedOrigins []string
}

// Server is the API server
type Server struct {
	opts     Options
	defaults DefaultsSource
	rates    RateSource
	history  History
	router   chi.Router
}

// NewServer creates the API server. history may be nil when persistence
// is disabled.
func NewServer(opts Options, defaults DefaultsSource, rates RateSource, history History) *Server {
	s := &Server{
		opts:     opts,
		defaults: defaults,
		rates:    rates,
		history:  history,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Get("/defaults", s.handleDefaults)
		r.Get("/rates", s.handleRates)
		r.Get("/history", s.handleHistory)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

// handleCalculate handles POST /api/v1/calculate
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		calculationsTotal.WithLabelValues("invalid_json").Inc()
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error(), nil)
		return
	}

	defaults, err := s.defaults.Defaults()
	if err != nil {
		calculationsTotal.WithLabelValues("source_error").Inc()
		s.writeDomainError(w, err)
		return
	}

	calculation, err := engine.Calculate(ctx, defaults, req.Parameters, req.System)
	if err != nil {
		if errors.IsType(err, errors.TypeValidation) {
			calculationsTotal.WithLabelValues("validation_error").Inc()
		} else {
			calculationsTotal.WithLabelValues("calculation_error").Inc()
		}
		s.writeDomainError(w, err)
		return
	}

	response := &CalculateResponse{
		RequestID:  requestIDFrom(ctx),
		Parameters: calculation.Parameters,
		Results:    calculation.Results,
		Warnings:   calculation.Warnings(),
		Metadata: &ResponseMetadata{
			InputHash:     computeInputHash(&req),
			EngineVersion: s.opts.Version,
			DurationMs:    time.Since(start).Milliseconds(),
		},
	}

	s.persist(r, response)

	calculationsTotal.WithLabelValues("ok").Inc()
	calculationDuration.Observe(time.Since(start).Seconds())
	s.writeJSON(w, response, http.StatusOK)
}

// persist saves a successful calculation; failures are logged, never
// surfaced to the caller
func (s *Server) persist(r *http.Request, response *CalculateResponse) {
	if s.history == nil {
		return
	}

	parameters, err := json.Marshal(response.Parameters)
	if err != nil {
		logging.Error("marshal parameters for history", zap.Error(err))
		return
	}
	results, err := json.Marshal(response.Results)
	if err != nil {
		logging.Error("marshal results for history", zap.Error(err))
		return
	}

	if _, err := s.history.Save(r.Context(), response.Metadata.InputHash, parameters, results); err != nil {
		logging.Error("persist calculation", zap.Error(err),
			zap.String("request_id", response.RequestID))
	}
}

// handleDefaults handles GET /api/v1/defaults
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := s.defaults.Defaults()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, defaults, http.StatusOK)
}

// handleRates handles GET /api/v1/rates
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	response := RatesResponse{
		Rates: s.rates.Snapshot(),
		Local: types.LocalCurrency,
		Base:  types.BaseCurrency,
	}
	if t := s.rates.FetchedAt(); !t.IsZero() {
		response.FetchedAt = t.Format(time.RFC3339)
	}
	s.writeJSON(w, response, http.StatusOK)
}

// handleHistory handles GET /api/v1/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "HISTORY_DISABLED",
			"calculation history is not enabled", nil)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "INVALID_LIMIT",
				"limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "HISTORY_ERROR",
			"failed to read calculation history", nil)
		logging.Error("read calculation history", zap.Error(err))
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"calculations": records,
		"count":        len(records),
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.opts.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.opts.Version,
		"engine":      "garment-cost",
		"api_version": "v1",
	}, http.StatusOK)
}

// writeDomainError maps domain error types onto HTTP responses.
// Validation failures enumerate every violated field; calculation failures
// carry minimal detail unless development mode is on.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	e, ok := errors.AsError(err)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			s.redact(err.Error(), "internal error"), nil)
		return
	}

	switch e.Type {
	case errors.TypeValidation:
		s.writeError(w, http.StatusBadRequest, string(e.Type), e.Message, e.Violations)
	case errors.TypeSource:
		s.writeError(w, http.StatusBadGateway, string(e.Type), e.Message, nil)
	case errors.TypeCalculation:
		s.writeError(w, http.StatusInternalServerError, string(e.Type),
			s.redact(e.Message, "calculation failed"), nil)
	default:
		s.writeError(w, http.StatusInternalServerError, string(e.Type),
			s.redact(e.Message, "internal error"), nil)
	}
}

// redact hides detail in production responses
func (s *Server) redact(detail, generic string) string {
	if s.opts.Development {
		return detail
	}
	return generic
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string, violations []errors.FieldViolation) {
	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}
	if len(violations) > 0 {
		body["error"].(map[string]interface{})["violations"] = violations
	}
	s.writeJSON(w, body, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func computeInputHash(req *CalculateRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
