package api

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"carnorm/internal/version"
)

// MetricsCollector collects and exposes Prometheus metrics
type MetricsCollector struct {
	requestsTotal     *Counter
	recordsTotal      *Counter
	failuresTotal     *Counter
	normalizeDuration *Histogram

	startTime time.Time
}

// Counter is a monotonically increasing counter
type Counter struct {
	name   string
	help   string
	labels []string
	values sync.Map // map[string]*uint64
}

// Histogram tracks distributions of values
type Histogram struct {
	name    string
	help    string
	labels  []string
	buckets []float64
	values  sync.Map // map[string]*histogramValue
}

type histogramValue struct {
	mu      sync.Mutex
	sum     float64
	count   uint64
	buckets []uint64
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startTime: time.Now(),
		requestsTotal: &Counter{
			name:   "carnorm_http_requests_total",
			help:   "Total number of HTTP requests",
			labels: []string{"method", "status"},
		},
		recordsTotal: &Counter{
			name: "carnorm_records_normalized_total",
			help: "Total number of records normalized",
		},
		failuresTotal: &Counter{
			name:   "carnorm_normalize_failures_total",
			help:   "Total number of rejected batches",
			labels: []string{"code"},
		},
		normalizeDuration: &Histogram{
			name:    "carnorm_normalize_duration_seconds",
			help:    "Duration of normalize requests in seconds",
			buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	}
}

// Uptime returns the time since the collector was created.
func (m *MetricsCollector) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// RecordRequest counts a completed HTTP request
func (m *MetricsCollector) RecordRequest(method, status string) {
	m.requestsTotal.Inc(method, status)
}

// RecordNormalize records a successful batch
func (m *MetricsCollector) RecordNormalize(records int, duration time.Duration) {
	m.recordsTotal.Add(uint64(records))
	m.normalizeDuration.Observe(duration.Seconds())
}

// RecordFailure records a rejected batch by error code
func (m *MetricsCollector) RecordFailure(code string) {
	m.failuresTotal.Inc(code)
}

// WritePrometheus writes metrics in Prometheus text format
func (m *MetricsCollector) WritePrometheus(w io.Writer) {
	fmt.Fprintf(w, "# HELP carnorm_info carnorm build information\n")
	fmt.Fprintf(w, "# TYPE carnorm_info gauge\n")
	fmt.Fprintf(w, "carnorm_info{version=%q} 1\n\n", version.Version)

	fmt.Fprintf(w, "# HELP carnorm_uptime_seconds Time since the server started\n")
	fmt.Fprintf(w, "# TYPE carnorm_uptime_seconds counter\n")
	fmt.Fprintf(w, "carnorm_uptime_seconds %.3f\n\n", m.Uptime().Seconds())

	m.requestsTotal.write(w)
	m.recordsTotal.write(w)
	m.failuresTotal.write(w)
	m.normalizeDuration.write(w)
}

func (c *Counter) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help)
	fmt.Fprintf(w, "# TYPE %s counter\n", c.name)

	for _, key := range sortedKeys(&c.values) {
		val, _ := c.values.Load(key)
		fmt.Fprintf(w, "%s%s %d\n", c.name, key, atomic.LoadUint64(val.(*uint64)))
	}
	fmt.Fprintln(w)
}

func (h *Histogram) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", h.name, h.help)
	fmt.Fprintf(w, "# TYPE %s histogram\n", h.name)

	for _, key := range sortedKeys(&h.values) {
		val, _ := h.values.Load(key)
		hv := val.(*histogramValue)
		hv.mu.Lock()
		cumulative := uint64(0)
		for i, bound := range h.buckets {
			cumulative += hv.buckets[i]
			fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLabel(key, "le", fmt.Sprintf("%g", bound)), cumulative)
		}
		cumulative += hv.buckets[len(h.buckets)]
		fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLabel(key, "le", "+Inf"), cumulative)
		fmt.Fprintf(w, "%s_sum%s %.6f\n", h.name, key, hv.sum)
		fmt.Fprintf(w, "%s_count%s %d\n", h.name, key, hv.count)
		hv.mu.Unlock()
	}
	fmt.Fprintln(w)
}

// Inc adds one to the series for labelValues
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add adds delta to the series for labelValues
func (c *Counter) Add(delta uint64, labelValues ...string) {
	key := labelsToKey(c.labels, labelValues)
	val, _ := c.values.LoadOrStore(key, new(uint64))
	atomic.AddUint64(val.(*uint64), delta)
}

// Observe records value in the series for labelValues
func (h *Histogram) Observe(value float64, labelValues ...string) {
	key := labelsToKey(h.labels, labelValues)
	val, _ := h.values.LoadOrStore(key, &histogramValue{
		buckets: make([]uint64, len(h.buckets)+1), // +1 for +Inf
	})

	hv := val.(*histogramValue)
	hv.mu.Lock()
	defer hv.mu.Unlock()

	hv.sum += value
	hv.count++

	bucketIdx := len(h.buckets)
	for i, bound := range h.buckets {
		if value <= bound {
			bucketIdx = i
			break
		}
	}
	hv.buckets[bucketIdx]++
}

func labelsToKey(labels, values []string) string {
	if len(labels) == 0 || len(values) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(labels))
	for i, label := range labels {
		if i < len(values) {
			pairs = append(pairs, fmt.Sprintf("%s=%q", label, values[i]))
		}
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func withLabel(key, name, value string) string {
	pair := fmt.Sprintf("%s=%q", name, value)
	if key == "" {
		return "{" + pair + "}"
	}
	return key[:len(key)-1] + "," + pair + "}"
}

func sortedKeys(m *sync.Map) []string {
	var keys []string
	m.Range(func(key, _ interface{}) bool {
		keys = append(keys, key.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowed(w, http.MethodGet)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	s.metrics.WritePrometheus(w)
}
