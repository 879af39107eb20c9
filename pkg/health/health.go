// Package health serves liveness and readiness probes.
//
// Readiness runs named checks in parallel under a shared timeout and answers
// 503 when any of them fails. Both handlers answer plain text unless the
// client asks for JSON with an Accept header or ?format=json.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports a dependency's readiness.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to checks.
type Checks map[string]CheckFunc

// Report is the JSON body of a probe response.
type Report struct {
	Checks map[string]Result `json:"checks,omitempty"`
	Status string            `json:"status"`
}

// Result is the outcome of one check.
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Option configures the readiness handler.
type Option func(*probe)

type probe struct {
	logger  *slog.Logger
	timeout time.Duration
}

// WithTimeout bounds the whole readiness run. Default 5s.
func WithTimeout(d time.Duration) Option {
	return func(p *probe) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger logs failing checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(p *probe) {
		p.logger = l
	}
}

// LivenessHandler always answers 200.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, &Report{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks on every request.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	p := &probe{timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(p)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		report := Run(r.Context(), checks, p.timeout)
		status := http.StatusOK
		if report.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
			if p.logger != nil {
				for name, res := range report.Checks {
					if res.Status != StatusHealthy {
						p.logger.WarnContext(r.Context(), "health check failed",
							slog.String("check", name),
							slog.String("error", res.Error))
					}
				}
			}
		}
		respond(w, r, status, report)
	}
}

// Run executes checks in parallel and aggregates their results.
func Run(ctx context.Context, checks Checks, timeout time.Duration) *Report {
	report := &Report{Status: StatusHealthy}
	if len(checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	report.Checks = make(map[string]Result, len(checks))
	for name, check := range checks {
		g.Go(func() error {
			res := Result{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				res = Result{Status: StatusUnhealthy, Error: err.Error()}
			}
			mu.Lock()
			report.Checks[name] = res
			if res.Status != StatusHealthy {
				report.Status = StatusUnhealthy
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return report
}

func respond(w http.ResponseWriter, r *http.Request, status int, report *Report) {
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte("OK"))
		return
	}
	_, _ = w.Write([]byte("Service Unavailable"))
}
