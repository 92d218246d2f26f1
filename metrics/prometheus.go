//go:build !noprom

package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	chatTotal         *prom.CounterVec
	chatSeconds       *prom.HistogramVec
	dbTotal           *prom.CounterVec
	dbSeconds         *prom.HistogramVec
	translationTotal  *prom.CounterVec
	intentShortTotals *prom.CounterVec
}

func (p *promRecorder) IncChatTotal(source string, success bool) {
	p.chatTotal.WithLabelValues(source, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveChatSeconds(source string, success bool, seconds float64) {
	p.chatSeconds.WithLabelValues(source, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncDBOpTotal(op string, success bool) {
	p.dbTotal.WithLabelValues(op, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveDBOpSeconds(op string, success bool, seconds float64) {
	p.dbSeconds.WithLabelValues(op, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncTranslationAttempt(success bool) {
	p.translationTotal.WithLabelValues(fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) IncIntentShortCircuit(intent string) {
	p.intentShortTotals.WithLabelValues(intent).Inc()
}

func enablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	p := &promRecorder{
		chatTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of handled chat requests",
		}, []string{"source", "success"}),
		chatSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "chat_request_seconds",
			Help:    "Chat pipeline duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"source", "success"}),
		dbTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "db_ops_total",
			Help: "Total number of DB operations",
		}, []string{"op", "success"}),
		dbSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "db_op_seconds",
			Help:    "DB operation duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"op", "success"}),
		translationTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "translation_attempts_total",
			Help: "Total number of translation attempts",
		}, []string{"success"}),
		intentShortTotals: prom.NewCounterVec(prom.CounterOpts{
			Name: "intent_short_circuits_total",
			Help: "Total number of chat messages answered by intent patterns",
		}, []string{"intent"}),
	}

	registry.MustRegister(
		p.chatTotal,
		p.chatSeconds,
		p.dbTotal,
		p.dbSeconds,
		p.translationTotal,
		p.intentShortTotals,
	)
	SetRecorder(p)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
