package api

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/internal/monitoring"
	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// timeoutResponse carries the completed allocations of a timed-out sweep
type timeoutResponse struct {
	*orchestrator.SweepResponse
	Error    string `json:"error"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		wait := math.Ceil(s.limiter.RetryAfter().Seconds())
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Max(wait, 1))))
		monitoring.RecordError(string(simerrors.ErrorCategoryRateLimit))
		stats := s.limiter.GetStats()
		s.log.Warn("Rate limit %s exceeded (%d rejected, refill %.2f/s, burst %d)",
			stats.Name, stats.Rejected, stats.RefillRate, stats.Capacity)
		s.writeError(w, simerrors.NewSimError(simerrors.ErrorCategoryRateLimit, "api", "admit_request",
			"too many simulation requests, retry later"))
		return
	}

	var req orchestrator.Request
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, simerrors.NewValidationError("api", "decode_request", "request body is not valid JSON: "+err.Error()))
		return
	}

	out, err := s.orchestrator.Execute(r.Context(), req)
	if err == nil {
		s.health.RecordRun(time.Now())
		writeJSON(w, http.StatusOK, out)
		return
	}

	if partial, ok := out.(*orchestrator.SweepResponse); ok && simerrors.IsTimeout(err) {
		s.health.RecordRun(time.Now())
		writeJSON(w, http.StatusGatewayTimeout, timeoutResponse{
			SweepResponse: partial,
			Error:         err.Error(),
			Message:       "Monte Carlo simulation exceeded its time budget",
			Category:      string(simerrors.ErrorCategoryTimeout),
		})
		return
	}

	s.writeError(w, err)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	w.Header().Set("Access-Control-Max-Age", "600")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := simerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.LogError("Monte Carlo request failed", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:    err.Error(),
		Message:  "Monte Carlo simulation failed",
		Category: string(simerrors.CategoryOf(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
