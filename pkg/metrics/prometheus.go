// Package metrics provides Prometheus metrics for the charge gauge daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

var defaultTickBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000} //nolint:gochecknoglobals // read-only default

// Manager manages all Prometheus metrics for the gauge daemon.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	tickBuckets      []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Frame intake
	framesReceived  prometheus.Counter
	framesDuplicate prometheus.Counter
	framesDropped   *prometheus.CounterVec

	// Tick loop
	ticks       prometheus.Counter
	tickLatency prometheus.Histogram

	// Gauges
	gaugeFull         *prometheus.CounterVec
	gaugeConfigErrors *prometheus.CounterVec
	optionEdits       *prometheus.CounterVec
	activeGauges      prometheus.Gauge

	// Queue
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge

	// Preference store
	prefsLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "chargegauge",
		subsystem:        "daemon",
		histogramBuckets: prometheus.DefBuckets,
		tickBuckets:      defaultTickBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.framesReceived = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("frames_received_total"),
		Help:        "Total number of telemetry frames accepted into the queue",
		ConstLabels: constLabels,
	})

	m.framesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("frames_duplicate_total"),
		Help:        "Total number of frames rejected because their id was already seen",
		ConstLabels: constLabels,
	})

	m.framesDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("frames_dropped_total"),
			Help:        "Total number of frames the queue refused, by reason",
			ConstLabels: constLabels,
		},
		[]string{"reason"},
	)

	m.ticks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("ticks_total"),
		Help:        "Total number of frames applied to the active gauges",
		ConstLabels: constLabels,
	})

	m.tickLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("tick_latency_microseconds"),
		Help:        "Time spent applying one frame to every active gauge",
		Buckets:     m.tickBuckets,
		ConstLabels: constLabels,
	})

	m.gaugeFull = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("gauge_full_total"),
			Help:        "Total number of full notifications fired, by gauge",
			ConstLabels: constLabels,
		},
		[]string{"gauge"},
	)

	m.gaugeConfigErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("gauge_config_errors_total"),
			Help:        "Total number of gauge definitions rejected at setup, by gauge",
			ConstLabels: constLabels,
		},
		[]string{"gauge"},
	)

	m.optionEdits = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("option_edits_total"),
			Help:        "Total number of applied gauge option edits, by option",
			ConstLabels: constLabels,
		},
		[]string{"option"},
	)

	m.activeGauges = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("active_gauges"),
		Help:        "Number of gauges built for the current job",
		ConstLabels: constLabels,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("queue_size"),
		Help:        "Current number of frames waiting for the tick loop",
		ConstLabels: constLabels,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("queue_capacity"),
		Help:        "Maximum number of frames the queue holds",
		ConstLabels: constLabels,
	})

	m.prefsLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("prefs_latency_milliseconds"),
			Help:        "Preference store operation latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"op"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_component_total"),
			Help:        "Total number of errors by component and error type",
			ConstLabels: constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "Heap memory in use in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})
}

// Enabled reports whether the package-level helpers record anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordFrameReceived increments the accepted frames counter.
func RecordFrameReceived() {
	if !globalManager.enabled {
		return
	}
	globalManager.framesReceived.Inc()
}

// RecordFrameDuplicate increments the duplicate frames counter.
func RecordFrameDuplicate() {
	if !globalManager.enabled {
		return
	}
	globalManager.framesDuplicate.Inc()
}

// RecordFrameDropped increments the dropped frames counter for reason.
func RecordFrameDropped(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.framesDropped.WithLabelValues(reason).Inc()
}

// RecordTick counts one applied frame and observes how long it took.
func RecordTick(took time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.ticks.Inc()
	globalManager.tickLatency.Observe(float64(took.Microseconds()))
}

// RecordGaugeFull increments the full notification counter for gauge.
func RecordGaugeFull(gauge string) {
	if !globalManager.enabled {
		return
	}
	globalManager.gaugeFull.WithLabelValues(gauge).Inc()
}

// RecordGaugeConfigError increments the rejected definition counter for gauge.
func RecordGaugeConfigError(gauge string) {
	if !globalManager.enabled {
		return
	}
	globalManager.gaugeConfigErrors.WithLabelValues(gauge).Inc()
}

// RecordOptionEdit increments the option edit counter for option.
func RecordOptionEdit(option string) {
	if !globalManager.enabled {
		return
	}
	globalManager.optionEdits.WithLabelValues(option).Inc()
}

// UpdateActiveGauges sets the number of gauges built for the current job.
func UpdateActiveGauges(count int) {
	globalManager.activeGauges.Set(float64(count))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordPrefsLatency records the latency of a preference store operation.
func RecordPrefsLatency(op string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.prefsLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RefreshInterval is how often callers should refresh the system gauges.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
