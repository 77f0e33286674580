package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus collectors for sync activity and the HTTP surface.
// It satisfies engine.Recorder.
type Metrics struct {
	registry       *prometheus.Registry
	requestsTotal  prometheus.Counter
	errorsTotal    prometheus.Counter
	syncSessions   prometheus.Counter
	syncFinished   *prometheus.CounterVec
	syncTicks      prometheus.Histogram
	seeksTotal     *prometheus.CounterVec
	anomalousPlays *prometheus.CounterVec
	readyStreams   prometheus.Gauge
	currentTime    prometheus.Gauge
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "multisync_requests_total",
			Help: "Total number of HTTP requests received",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "multisync_errors_total",
			Help: "Total number of HTTP responses with error status (4xx or 5xx)",
		}),
		syncSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "multisync_sync_sessions_total",
			Help: "Total number of sync sessions started",
		}),
		syncFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multisync_sync_sessions_finished_total",
			Help: "Sync sessions that ended, by result",
		}, []string{"result"}),
		syncTicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "multisync_sync_ticks",
			Help:    "Correcting ticks a sync session needed",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		seeksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multisync_seeks_total",
			Help: "Corrective seeks issued, by stream",
		}, []string{"stream"}),
		anomalousPlays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multisync_anomalous_plays_total",
			Help: "Streams that started playing without a play command, by stream",
		}, []string{"stream"}),
		readyStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multisync_ready_streams",
			Help: "Streams that reached their first pause in the current cue cycle",
		}),
		currentTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multisync_current_time_seconds",
			Help: "Last published playback time of the slowest stream",
		}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.syncSessions,
		m.syncFinished,
		m.syncTicks,
		m.seeksTotal,
		m.anomalousPlays,
		m.readyStreams,
		m.currentTime,
	)

	return m
}

func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

func (m *Metrics) SyncStarted() {
	m.syncSessions.Inc()
}

func (m *Metrics) SyncFinished(converged bool, ticks int) {
	result := "aborted"
	if converged {
		result = "converged"
	}

	m.syncFinished.WithLabelValues(result).Inc()
	m.syncTicks.Observe(float64(ticks))
}

func (m *Metrics) SeekIssued(streamID int) {
	m.seeksTotal.WithLabelValues(strconv.Itoa(streamID)).Inc()
}

func (m *Metrics) AnomalousPlay(streamID int) {
	m.anomalousPlays.WithLabelValues(strconv.Itoa(streamID)).Inc()
}

func (m *Metrics) ReadyStreams(n int) {
	m.readyStreams.Set(float64(n))
}

func (m *Metrics) CurrentTime(seconds float64) {
	m.currentTime.Set(seconds)
}

// Handler returns an http.Handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
