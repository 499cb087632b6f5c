package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Check probes one dependency and reports an error when it is unhealthy.
type Check func(ctx context.Context) error

// Status of a component or the service overall.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Report is the JSON body of the health endpoints.
type Report struct {
	Status    Status            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]Result `json:"checks,omitempty"`
}

// Result is the outcome of a single check.
type Result struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Handler serves liveness and readiness endpoints over registered checks.
type Handler struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewHandler creates an empty health handler.
func NewHandler() *Handler {
	return &Handler{checks: make(map[string]Check)}
}

// Register adds a named dependency check.
func (h *Handler) Register(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Live always reports up while the process runs.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeReport(w, http.StatusOK, Report{Status: StatusUp, Timestamp: time.Now().UTC()})
}

// Ready runs every registered check and reports 503 when any fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.mu.RLock()
	checks := make(map[string]Check, len(h.checks))
	for name, c := range h.checks {
		checks[name] = c
	}
	h.mu.RUnlock()

	results := make(map[string]Result, len(checks))
	overall := StatusUp
	for name, check := range checks {
		if err := check(ctx); err != nil {
			results[name] = Result{Status: StatusDown, Error: err.Error()}
			overall = StatusDown
		} else {
			results[name] = Result{Status: StatusUp}
		}
	}

	status := http.StatusOK
	if overall == StatusDown {
		status = http.StatusServiceUnavailable
	}
	writeReport(w, status, Report{Status: overall, Timestamp: time.Now().UTC(), Checks: results})
}

func writeReport(w http.ResponseWriter, status int, report Report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(report)
}
