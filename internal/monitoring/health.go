package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// HealthChecker reports whether a usable dataset is loaded
type HealthChecker struct {
	mu        sync.RWMutex
	startTime time.Time
	source    string
	dataset   *types.SeriesSummary
	lastRun   time.Time
	errors    []string
}

// HealthStatus is the /healthz body
type HealthStatus struct {
	Status    string               `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
	Dataset   *types.SeriesSummary `json:"dataset,omitempty"`
	Source    string               `json:"source,omitempty"`
	LastRun   *time.Time           `json:"last_run,omitempty"`
	Uptime    string               `json:"uptime"`
	Errors    []string             `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		errors:    make([]string, 0),
	}
}

// SetDataset records a successfully loaded dataset and clears earlier
// dataset errors
func (h *HealthChecker) SetDataset(source string, summary types.SeriesSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = source
	h.dataset = &summary
	h.errors = h.errors[:0]
	UpdateDatasetMonths(summary.Months)
}

// RecordDatasetError marks the service unhealthy
func (h *HealthChecker) RecordDatasetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err.Error())
}

// RecordRun notes the time of the last finished run
func (h *HealthChecker) RecordRun(at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = at
}

// Status builds the current health status and its HTTP code
func (h *HealthChecker) Status() (HealthStatus, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status, code := "healthy", http.StatusOK
	if h.dataset == nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	if len(h.errors) > 0 {
		status, code = "unhealthy", http.StatusInternalServerError
	}

	health := HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Dataset:   h.dataset,
		Source:    h.source,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if !h.lastRun.IsZero() {
		last := h.lastRun
		health.LastRun = &last
	}
	if len(h.errors) > 0 {
		health.Errors = append([]string(nil), h.errors...)
	}
	return health, code
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health, code := h.Status()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(health)
}
