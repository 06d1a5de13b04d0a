package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docchat_chat_requests_total",
		Help: "Total chat requests by mode (stream/simple) and status",
	}, []string{"mode", "status"})

	chatDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docchat_chat_duration_seconds",
		Help:    "End-to-end chat request duration in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"mode"})

	activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "docchat_active_streams",
		Help: "Number of chat streams currently open",
	})

	retrievalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docchat_retrieval_requests_total",
		Help: "Total document search requests by status",
	}, []string{"status"})

	providerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docchat_provider_calls_total",
		Help: "Total LLM provider calls by provider and status",
	}, []string{"provider", "status"})

	toolExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docchat_tool_executions_total",
		Help: "Total tool executions by tool name and status",
	}, []string{"tool", "status"})
)

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// RecordChatRequest counts one finished chat request.
func RecordChatRequest(mode string, ok bool) {
	chatRequests.WithLabelValues(mode, statusLabel(ok)).Inc()
}

// ObserveChatDuration records how long a chat request took.
func ObserveChatDuration(mode string, d time.Duration) {
	chatDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// StreamOpened marks a chat stream as active.
func StreamOpened() { activeStreams.Inc() }

// StreamClosed marks a chat stream as finished.
func StreamClosed() { activeStreams.Dec() }

// RecordRetrieval counts one document search call.
func RecordRetrieval(ok bool) {
	retrievalRequests.WithLabelValues(statusLabel(ok)).Inc()
}

// RecordProviderCall counts one LLM provider call.
func RecordProviderCall(provider string, ok bool) {
	providerCalls.WithLabelValues(provider, statusLabel(ok)).Inc()
}

// RecordToolExecution counts one tool execution.
func RecordToolExecution(tool string, ok bool) {
	toolExecutions.WithLabelValues(tool, statusLabel(ok)).Inc()
}
