package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/auekha/al/internal/logging"
)

const namespace = "al"

var (
	messagesObserved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_observed_total",
		Help:      "Incoming messages seen in active channels",
	})

	repliesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replies_sent_total",
		Help:      "Replies successfully sent",
	})

	fireFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fire_failures_total",
		Help:      "Reply cycles that failed at fetch, completion, or send",
	})

	channelDeaths = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "channel_deaths_total",
		Help:      "Channels deactivated by lifespan exhaustion",
	})

	activeChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_channels",
		Help:      "Channels the bot is currently alive in",
	})

	llmRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "llm",
		Name:      "request_duration_seconds",
		Help:      "Duration of completion requests in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"status"})
)

// MessageObserved counts one qualifying incoming message.
func MessageObserved() { messagesObserved.Inc() }

// ReplySent counts one successfully sent reply.
func ReplySent() { repliesSent.Inc() }

// FireFailed counts one failed reply cycle.
func FireFailed() { fireFailures.Inc() }

// ChannelDied counts one lifespan exhaustion.
func ChannelDied() { channelDeaths.Inc() }

// SetActiveChannels updates the active channel gauge.
func SetActiveChannels(n int) { activeChannels.Set(float64(n)) }

// LLMRequest records one completion request.
func LLMRequest(d time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	llmRequestDuration.WithLabelValues(status).Observe(d.Seconds())
}

// Serve exposes /metrics on addr. Blocks; run it in a goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Warn("metrics", "server stopped: %v", err)
	}
}
