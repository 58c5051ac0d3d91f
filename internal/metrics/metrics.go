// Package metrics registers the bot's Prometheus instruments. Counters and
// the handler latency histogram are safe for concurrent webhook delivery.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Requests counts inbound HTTP hits per endpoint (webhook mode).
	Requests *prometheus.CounterVec
	// Errors counts classified failures per type (provider name, send, ingest).
	Errors *prometheus.CounterVec
	// Commands counts dispatched commands per name.
	Commands *prometheus.CounterVec
	// MessagesSent counts successful reply posts.
	MessagesSent prometheus.Counter
	// HandlerLatency spans one inbound-event handling, dedup to send.
	HandlerLatency prometheus.Histogram
)

// Init registers the instruments (idempotent).
func Init() {
	once.Do(func() {
		Requests = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "webexbot_requests_total",
			Help: "HTTP requests received",
		}, []string{"endpoint"})
		Errors = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "webexbot_errors_total",
			Help: "Errors by type",
		}, []string{"type"})
		Commands = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "webexbot_command_used_total",
			Help: "Commands dispatched",
		}, []string{"cmd"})
		MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
			Name: "webexbot_messages_sent_total",
			Help: "Messages posted to the room",
		})
		HandlerLatency = promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "webexbot_handler_latency_seconds",
			Help:    "Inbound event handling latency in seconds",
			Buckets: prometheus.DefBuckets,
		})
	})
}
