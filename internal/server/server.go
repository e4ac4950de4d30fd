// Package server exposes the simulation engine as a JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/mortgage-simulator/internal/simulator"
	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	"github.com/iwvelando/mortgage-simulator/pkg/constants"
	"github.com/iwvelando/mortgage-simulator/pkg/financing"
	"github.com/iwvelando/mortgage-simulator/pkg/output"
	"go.uber.org/zap"
)

// Error codes returned in the "code" field so clients can tell a bad input
// from a table that is not available.
const (
	codeValidation     = "validation_failed"
	codeTableNotLoaded = "table_not_loaded"
	codeNoBracket      = "no_bracket_found"
	codeBadRequest     = "bad_request"
	codeTooLarge       = "body_too_large"
)

type handler struct {
	logger      *zap.Logger
	sim         *simulator.Simulator
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler serving the simulation API. A nil
// limiter disables rate limiting.
func NewHandler(logger *zap.Logger, sim *simulator.Simulator, maxBodySize int64, version string, limiter *RateLimiter) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sim == nil {
		sim = simulator.New(logger)
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, sim: sim, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Simulation endpoint
	mux.Handle("/api/simulate", rateLimitMiddleware(logger, limiter, http.HandlerFunc(h.handleSimulate)))

	// Loaded table, ordered by income ceiling
	mux.HandleFunc("/api/brackets", h.handleBrackets)

	// Table load state
	mux.HandleFunc("/api/status", h.handleStatus)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Readiness probe
	mux.HandleFunc("/healthz", h.handleHealth)

	return mux
}

type simulateResponse struct {
	ID        string           `json:"id"`
	Result    financing.Result `json:"result"`
	Formatted output.Formatted `json:"formatted"`
	Duration  string           `json:"duration"`
}

type errorResponse struct {
	Error  string                 `json:"error"`
	Code   string                 `json:"code"`
	Fields []financing.FieldError `json:"fields,omitempty"`
}

type bracketsResponse struct {
	Brackets []brackets.Bracket `json:"brackets"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulate"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	id := uuid.NewString()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var in financing.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, op, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize),
				Code:  codeTooLarge,
			})
			return
		}
		h.respondError(w, op, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to decode simulation input: %v", err),
			Code:  codeBadRequest,
		})
		return
	}

	result, err := h.sim.Simulate(in)
	if err != nil {
		status, body := classifyError(err)
		h.respondError(w, op, status, body)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("simulation computed",
		zap.String("op", op),
		zap.String("id", id),
		zap.Float64("financedAmount", result.FinancedAmount),
		zap.Float64("monthlyPayment", result.MonthlyPayment),
		zap.Bool("advisory", result.Advisory != nil),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, simulateResponse{
		ID:        id,
		Result:    result,
		Formatted: output.Format(result),
		Duration:  elapsed.String(),
	})
}

func classifyError(err error) (int, errorResponse) {
	var verr *financing.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Error: verr.Error(), Code: codeValidation, Fields: verr.Fields}
	case errors.Is(err, financing.ErrTableNotLoaded):
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: codeTableNotLoaded}
	case errors.Is(err, financing.ErrNoBracketFound):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: codeNoBracket}
	default:
		return http.StatusInternalServerError, errorResponse{Error: err.Error(), Code: "internal"}
	}
}

func (h *handler) handleBrackets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	table := h.sim.Table()
	if table == nil {
		h.respondError(w, "server.handleBrackets", http.StatusServiceUnavailable, errorResponse{
			Error: financing.ErrTableNotLoaded.Error(),
			Code:  codeTableNotLoaded,
		})
		return
	}

	rows := table.Rows()
	if rows == nil {
		rows = []brackets.Bracket{}
	}
	h.writeJSON(w, http.StatusOK, bracketsResponse{Brackets: rows})
}

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, h.sim.Status())
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.sim.Ready() {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) respondError(w http.ResponseWriter, op string, status int, body errorResponse) {
	h.logger.Error("simulation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("code", body.Code),
		zap.String("error", body.Error),
	)

	h.writeJSON(w, status, body)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
