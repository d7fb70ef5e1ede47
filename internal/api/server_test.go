package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/internal/logger"
	"github.com/Nadirh/retirement-planning/internal/monitoring"
	"github.com/Nadirh/retirement-planning/pkg/config"
	"github.com/Nadirh/retirement-planning/pkg/data"
	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

type stubOrchestrator struct {
	orchestrator.Orchestrator
	execute func(ctx context.Context, req orchestrator.Request) (interface{}, error)
}

func (s *stubOrchestrator) Execute(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	return s.execute(ctx, req)
}

func quietLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LogLevelError)
}

func newTestServer(o orchestrator.Orchestrator) *Server {
	return NewServer(o, monitoring.NewHealthChecker(), config.ServerConfig{CORSOrigin: "https://planner.example"}, quietLogger())
}

func constantSeries(t *testing.T) *data.Series {
	t.Helper()
	obs := make([]types.MonthlyObservation, 36)
	start := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range obs {
		obs[i] = types.MonthlyObservation{
			Date:             start.AddDate(0, i, 0),
			StockReturn:      0.01,
			BondReturn:       0.002,
			MonthlyInflation: 0.002,
			AnnualInflation:  0.024,
		}
	}
	series, err := data.NewSeries(obs, data.SeriesOptions{})
	require.NoError(t, err)
	return series
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/monte-carlo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestMonteCarlo_SweepEndToEnd(t *testing.T) {
	o := orchestrator.NewOrchestrator(orchestrator.NewStaticSeries(constantSeries(t)), orchestrator.Options{
		Iterations:    20,
		MaxIterations: 1000,
		Workers:       2,
		TimeBudget:    10 * time.Second,
		Logger:        quietLogger(),
	})
	s := newTestServer(o)

	rec := post(t, s, `{"years":10,"withdrawalRate":4,"allocationSweep":true,"gridStep":50,"seed":7}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp orchestrator.SweepResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.SweepStatusComplete, resp.Status)
	require.Len(t, resp.Allocations, 3)
	assert.Equal(t, 60, resp.TotalSimulations)
	assert.Equal(t, uint64(7), resp.Seed)
	require.NotNil(t, resp.BestAllocation)
	assert.Equal(t, 1.0, resp.BestAllocation.SuccessRate)
}

func TestMonteCarlo_ValidationError(t *testing.T) {
	called := false
	s := newTestServer(&stubOrchestrator{execute: func(ctx context.Context, req orchestrator.Request) (interface{}, error) {
		called = true
		return nil, simerrors.NewValidationError("request", "plan", "years must be between 1 and 60")
	}})

	rec := post(t, s, `{"years":0}`)
	assert.True(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION", body.Category)
	assert.Contains(t, body.Error, "years must be between 1 and 60")
	assert.NotEmpty(t, body.Message)
}

func TestMonteCarlo_MalformedJSON(t *testing.T) {
	s := newTestServer(&stubOrchestrator{execute: func(ctx context.Context, req orchestrator.Request) (interface{}, error) {
		t.Fatal("orchestrator must not run for a malformed body")
		return nil, nil
	}})

	rec := post(t, s, `{"years":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"VALIDATION"`)
}

func TestMonteCarlo_DataErrorIsInternal(t *testing.T) {
	s := newTestServer(&stubOrchestrator{execute: func(ctx context.Context, req orchestrator.Request) (interface{}, error) {
		return nil, simerrors.NewDataError("dataset", "load", "no dataset file configured or found")
	}})

	rec := post(t, s, `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"DATA"`)
}

func TestMonteCarlo_TimeoutCarriesPartialResult(t *testing.T) {
	partial := &orchestrator.SweepResponse{
		Type:   "allocationSweep",
		Status: types.SweepStatusTimeout,
		Allocations: []orchestrator.AllocationView{
			{StockPercent: 0, BondPercent: 100, SuccessRate: 0.5, SuccessRatePercent: 50},
		},
		TotalCombinations: 11,
	}
	s := newTestServer(&stubOrchestrator{execute: func(ctx context.Context, req orchestrator.Request) (interface{}, error) {
		return partial, simerrors.NewTimeoutError("sweep", "run", context.DeadlineExceeded)
	}})

	rec := post(t, s, `{"allocationSweep":true}`)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "timeout", body["status"])
	assert.Equal(t, "TIMEOUT", body["category"])
	assert.Len(t, body["allocations"], 1)
	assert.Nil(t, body["bestAllocation"])
}

func TestMonteCarlo_TimeoutWithoutPartial(t *testing.T) {
	s := newTestServer(&stubOrchestrator{execute: func(ctx context.Context, req orchestrator.Request) (interface{}, error) {
		return nil, simerrors.NewTimeoutError("single", "run", context.DeadlineExceeded)
	}})

	rec := post(t, s, `{}`)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"TIMEOUT"`)
}

func TestMonteCarlo_UncategorisedError(t *testing.T) {
	s := newTestServer(&stubOrchestrator{execute: func(ctx context.Context, req orchestrator.Request) (interface{}, error) {
		return nil, errors.New("boom")
	}})

	rec := post(t, s, `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"INTERNAL"`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(&stubOrchestrator{execute: func(ctx context.Context, req orchestrator.Request) (interface{}, error) {
		return map[string]string{"ok": "yes"}, nil
	}})

	t.Run("generated", func(t *testing.T) {
		rec := post(t, s, `{}`)
		_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("echoed", func(t *testing.T) {
		incoming := uuid.New().String()
		req := httptest.NewRequest(http.MethodPost, "/api/monte-carlo", strings.NewReader(`{}`))
		req.Header.Set(RequestIDHeader, incoming)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))
	})

	t.Run("invalid replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/monte-carlo", strings.NewReader(`{}`))
		req.Header.Set(RequestIDHeader, "not-a-uuid")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
	})
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&stubOrchestrator{})

	req := httptest.NewRequest(http.MethodOptions, "/api/monte-carlo", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://planner.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&stubOrchestrator{})

	req := httptest.NewRequest(http.MethodGet, "/api/monte-carlo", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	health := monitoring.NewHealthChecker()
	s := NewServer(&stubOrchestrator{}, health, config.ServerConfig{}, quietLogger())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	health.SetDataset("test.csv", types.SeriesSummary{Months: 36})
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "retire_sim_")
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	s := NewServer(&stubOrchestrator{}, nil, config.ServerConfig{Addr: "127.0.0.1:0"}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestMonteCarlo_RateLimited(t *testing.T) {
	calls := 0
	var logs bytes.Buffer
	s := NewServer(&stubOrchestrator{execute: func(ctx context.Context, req orchestrator.Request) (interface{}, error) {
		calls++
		return map[string]string{"ok": "yes"}, nil
	}}, nil, config.ServerConfig{RateLimit: 0.01, RateBurst: 1}, logger.New(&logs, logger.LogLevelWarning))

	rec := post(t, s, `{}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(t, s, `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"category":"RATE_LIMIT"`)
	assert.Equal(t, 1, calls)
	assert.Contains(t, logs.String(), "Rate limit monte-carlo exceeded (1 rejected, refill 0.01/s, burst 1)")
}
