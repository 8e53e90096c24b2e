package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores serve-mode counters
type Metrics struct {
	RequestsTotal   uint64
	RequestsFailed  uint64
	RunsTotal       uint64
	RunsInProgress  uint64
	ToolsFailed     uint64
	ReportFallbacks uint64
	StartTime       time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

func (m *Metrics) RunStarted() {
	atomic.AddUint64(&m.RunsTotal, 1)
	atomic.AddUint64(&m.RunsInProgress, 1)
}

func (m *Metrics) RunFinished(toolsFailed int, fallback bool) {
	atomic.AddUint64(&m.RunsInProgress, ^uint64(0))
	atomic.AddUint64(&m.ToolsFailed, uint64(toolsFailed))
	if fallback {
		atomic.AddUint64(&m.ReportFallbacks, 1)
	}
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]interface{}{
		"requests_total":   atomic.LoadUint64(&m.RequestsTotal),
		"requests_failed":  atomic.LoadUint64(&m.RequestsFailed),
		"runs_total":       atomic.LoadUint64(&m.RunsTotal),
		"runs_in_progress": atomic.LoadUint64(&m.RunsInProgress),
		"tools_failed":     atomic.LoadUint64(&m.ToolsFailed),
		"report_fallbacks": atomic.LoadUint64(&m.ReportFallbacks),
		"uptime_seconds":   time.Since(m.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes": mem.Alloc,
			"sys_bytes":   mem.Sys,
			"num_gc":      mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware counts requests and 4xx/5xx responses
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&m.RequestsTotal, 1)
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 400 {
			atomic.AddUint64(&m.RequestsFailed, 1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.Snapshot())
}
