// Package monitoring exposes Prometheus metrics for conversations,
// tool execution, peer calls, and the HTTP surface.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the node.
type Metrics struct {
	// Conversation metrics
	ConversationsTotal   *prometheus.CounterVec
	ConversationDuration prometheus.Histogram

	// Tool metrics
	ToolExecutions *prometheus.CounterVec
	ToolDuration   *prometheus.HistogramVec

	// Peer (command center) metrics
	PeerCalls        *prometheus.CounterVec
	PeerCallDuration *prometheus.HistogramVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// WebSocket / timer gauges
	WSConnections prometheus.Gauge
	TimersActive  prometheus.Gauge
}

// NewMetrics creates a collector registered on the given registerer.
// Pass prometheus.DefaultRegisterer in production; tests use a fresh
// registry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ConversationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicenode_conversations_total",
			Help: "Processed voice commands by outcome",
		}, []string{"outcome"}),
		ConversationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicenode_conversation_duration_seconds",
			Help:    "End-to-end conversation duration",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ToolExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicenode_tool_executions_total",
			Help: "Local tool executions by tool and status",
		}, []string{"tool", "status"}),
		ToolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicenode_tool_duration_seconds",
			Help:    "Tool execution duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		PeerCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicenode_peer_calls_total",
			Help: "Command center calls by endpoint and status",
		}, []string{"endpoint", "status"}),
		PeerCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicenode_peer_call_duration_seconds",
			Help:    "Command center round-trip duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicenode_http_requests_total",
			Help: "HTTP requests by method, path, and status",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicenode_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voicenode_ws_connections",
			Help: "Active websocket connections",
		}),
		TimersActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voicenode_timers_active",
			Help: "Active background timers",
		}),
	}
}

// RecordConversation records one completed conversation.
func (m *Metrics) RecordConversation(outcome string, duration time.Duration) {
	m.ConversationsTotal.WithLabelValues(outcome).Inc()
	m.ConversationDuration.Observe(duration.Seconds())
}

// RecordToolExecution records one tool execution.
func (m *Metrics) RecordToolExecution(tool, status string, duration time.Duration) {
	m.ToolExecutions.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordPeerCall records one command center round-trip.
func (m *Metrics) RecordPeerCall(endpoint, status string, duration time.Duration) {
	m.PeerCalls.WithLabelValues(endpoint, status).Inc()
	m.PeerCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordHTTPRequest records one HTTP request against the node API.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
