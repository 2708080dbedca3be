package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// readinessTimeout bounds the combined dependency probes.
const readinessTimeout = 5 * time.Second

// Checker probes one dependency.
type Checker func(ctx context.Context) error

// Status is the reported health of a component or of the service overall.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Response is the body of the health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of a single probe.
type CheckResult struct {
	Status   Status `json:"status"`
	Optional bool   `json:"optional,omitempty"`
	Error    string `json:"error,omitempty"`
}

type check struct {
	probe    Checker
	optional bool
}

// Handler serves the liveness and readiness endpoints. Required checks gate
// readiness; optional ones (the catalog cache) only degrade the reported
// status, since the API keeps serving without them.
type Handler struct {
	mu     sync.RWMutex
	checks map[string]check
}

// NewHandler creates an empty health handler.
func NewHandler() *Handler {
	return &Handler{checks: make(map[string]check)}
}

// Register adds a dependency that must be reachable for the service to be
// ready.
func (h *Handler) Register(name string, probe Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{probe: probe}
}

// RegisterOptional adds a dependency the service can run without. Its
// failure is reported but does not fail readiness.
func (h *Handler) RegisterOptional(name string, probe Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{probe: probe, optional: true}
}

// LivenessHandler reports that the process is running.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler probes every registered dependency. A failed required
// check yields 503; a failed optional check yields 200 with status degraded.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		h.mu.RLock()
		checks := make(map[string]check, len(h.checks))
		for name, c := range h.checks {
			checks[name] = c
		}
		h.mu.RUnlock()

		results := make(map[string]CheckResult, len(checks))
		overall := StatusUp

		for name, c := range checks {
			result := CheckResult{Status: StatusUp, Optional: c.optional}
			if err := c.probe(ctx); err != nil {
				result.Status = StatusDown
				result.Error = err.Error()
				if c.optional {
					if overall == StatusUp {
						overall = StatusDegraded
					}
				} else {
					overall = StatusDown
				}
			}
			results[name] = result
		}

		code := http.StatusOK
		if overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		writeResponse(w, code, Response{
			Status:    overall,
			Timestamp: time.Now().UTC(),
			Checks:    results,
		})
	}
}

func writeResponse(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
