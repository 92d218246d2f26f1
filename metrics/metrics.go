// Package metrics provides a minimal instrumentation interface with a no-op
// default and an optional Prometheus-backed implementation enabled via env.
package metrics

import (
	"os"
	"sync"
	"time"
)

// Recorder defines the metrics surface used across the codebase.
type Recorder interface {
	IncChatTotal(source string, success bool)
	ObserveChatSeconds(source string, success bool, seconds float64)
	IncDBOpTotal(op string, success bool)
	ObserveDBOpSeconds(op string, success bool, seconds float64)
	IncTranslationAttempt(success bool)
	IncIntentShortCircuit(intent string)
}

// noopRecorder implements Recorder with no-ops.
type noopRecorder struct{}

func (n *noopRecorder) IncChatTotal(string, bool)                  {}
func (n *noopRecorder) ObserveChatSeconds(string, bool, float64)   {}
func (n *noopRecorder) IncDBOpTotal(string, bool)                  {}
func (n *noopRecorder) ObserveDBOpSeconds(string, bool, float64)   {}
func (n *noopRecorder) IncTranslationAttempt(bool)                 {}
func (n *noopRecorder) IncIntentShortCircuit(string)               {}

var (
	recMu    sync.RWMutex
	recorder Recorder = &noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	recorder = r
}

// TimeChat is a helper to time the chat pipeline.
func TimeChat() func(source string, success bool) {
	start := time.Now()
	return func(source string, success bool) {
		dur := time.Since(start).Seconds()
		Default().IncChatTotal(source, success)
		Default().ObserveChatSeconds(source, success, dur)
	}
}

// TimeOp is a helper to time DB operations.
func TimeOp(op string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncDBOpTotal(op, success)
		Default().ObserveDBOpSeconds(op, success, dur)
	}
}

// InitFromEnv enables the Prometheus exporter if METRICS_PROMETHEUS is set.
// It also starts a small HTTP server on METRICS_ADDR (default :9090)
// with endpoints: /metrics (prom) and /healthz (200 ok).
func InitFromEnv() {
	if os.Getenv("METRICS_PROMETHEUS") == "" {
		return
	}
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	// Try to install prometheus recorder; if it fails, keep noop.
	_ = enablePrometheus(addr)
}
