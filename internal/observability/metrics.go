package observability

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics is a small Prometheus text-format registry for the API process.
type Metrics struct {
	apiRequests    *counterVec
	apiLatency     *histogramVec
	apiInflight    *gauge
	backendCalls   *counterVec
	backendLatency *histogramVec
	aiGenerations  *counterVec
	storeActions   *counterVec
	realtimeEvents *counterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process registry, or nil before Init. All Metrics
// methods accept a nil receiver.
func Current() *Metrics {
	return instance
}

func Init() *Metrics {
	initOnce.Do(func() { instance = NewMetrics() })
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests:    newCounterVec("mentoro_api_requests_total", "HTTP requests served", "method", "route", "status"),
		apiLatency:     newHistogramVec("mentoro_api_request_seconds", "HTTP request latency", latencyBuckets, "method", "route"),
		apiInflight:    newGauge("mentoro_api_inflight_requests", "HTTP requests in flight"),
		backendCalls:   newCounterVec("mentoro_backend_calls_total", "Backend facade calls by outcome", "endpoint", "outcome"),
		backendLatency: newHistogramVec("mentoro_backend_call_seconds", "Backend facade call latency", latencyBuckets, "endpoint"),
		aiGenerations:  newCounterVec("mentoro_ai_generations_total", "AI generations by outcome", "prompt", "outcome"),
		storeActions:   newCounterVec("mentoro_store_actions_total", "Committed store actions", "action"),
		realtimeEvents: newCounterVec("mentoro_realtime_events_total", "Inbound realtime events", "type"),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.backendCalls, m.backendLatency,
		m.aiGenerations, m.storeActions, m.realtimeEvents,
	} {
		if err := c.collect(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.inc(method, route, status)
	m.apiLatency.observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.add(-1)
}

// ObserveBackend records one façade call; outcome is ok, fallback or expired.
func (m *Metrics) ObserveBackend(endpoint, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.backendCalls.inc(endpoint, outcome)
	m.backendLatency.observe(dur.Seconds(), endpoint)
}

// IncAIGeneration counts generations; outcome is ok, cached or fallback.
func (m *Metrics) IncAIGeneration(prompt, outcome string) {
	if m == nil {
		return
	}
	m.aiGenerations.inc(prompt, outcome)
}

func (m *Metrics) IncStoreAction(action string) {
	if m == nil {
		return
	}
	m.storeActions.inc(action)
}

func (m *Metrics) IncRealtimeEvent(eventType string) {
	if m == nil {
		return
	}
	m.realtimeEvents.inc(eventType)
}

// Seconds; request and backend latencies share one layout.
var latencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

type collector interface {
	collect(w io.Writer) error
}

// family is the name, help and label set shared by every series of one metric.
type family struct {
	name   string
	help   string
	kind   string
	labels []string
	mu     sync.Mutex
}

func (f *family) header(w io.Writer) error {
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", f.name, f.help, f.name, f.kind)
	return err
}

type counterVec struct {
	family
	series map[string]float64
}

func newCounterVec(name, help string, labels ...string) *counterVec {
	return &counterVec{
		family: family{name: name, help: help, kind: "counter", labels: labels},
		series: map[string]float64{},
	}
}

func (c *counterVec) inc(values ...string) {
	key := labelString(c.labels, values)
	c.mu.Lock()
	c.series[key]++
	c.mu.Unlock()
}

func (c *counterVec) collect(w io.Writer) error {
	if err := c.header(w); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range sortedKeys(c.series) {
		if _, err := fmt.Fprintf(w, "%s%s %f\n", c.name, key, c.series[key]); err != nil {
			return err
		}
	}
	return nil
}

type gauge struct {
	family
	val float64
}

func newGauge(name, help string) *gauge {
	return &gauge{family: family{name: name, help: help, kind: "gauge"}}
}

func (g *gauge) add(delta float64) {
	g.mu.Lock()
	g.val += delta
	g.mu.Unlock()
}

func (g *gauge) collect(w io.Writer) error {
	if err := g.header(w); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := fmt.Fprintf(w, "%s %f\n", g.name, g.val)
	return err
}

// histogramVec keeps cumulative bucket counts; the last slot is +Inf.
type histogramVec struct {
	family
	bounds []float64
	series map[string]*histogramSeries
}

type histogramSeries struct {
	cumulative []uint64
	sum        float64
	count      uint64
}

func newHistogramVec(name, help string, bounds []float64, labels ...string) *histogramVec {
	return &histogramVec{
		family: family{name: name, help: help, kind: "histogram", labels: labels},
		bounds: bounds,
		series: map[string]*histogramSeries{},
	}
}

func (h *histogramVec) observe(v float64, values ...string) {
	key := labelString(h.labels, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.series[key]
	if s == nil {
		s = &histogramSeries{cumulative: make([]uint64, len(h.bounds)+1)}
		h.series[key] = s
	}
	s.sum += v
	s.count++
	for i, b := range h.bounds {
		if v <= b {
			s.cumulative[i]++
		}
	}
	s.cumulative[len(h.bounds)]++
}

func (h *histogramVec) collect(w io.Writer) error {
	if err := h.header(w); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range sortedKeys(h.series) {
		s := h.series[key]
		for i, n := range s.cumulative {
			le := "+Inf"
			if i < len(h.bounds) {
				le = strconv.FormatFloat(h.bounds[i], 'g', -1, 64)
			}
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(key, le), n); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_sum%s %f\n%s_count%s %d\n", h.name, key, s.sum, h.name, key, s.count); err != nil {
			return err
		}
	}
	return nil
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// labelString renders {name="value",...}; missing values read "unknown".
func labelString(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	pairs := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		pairs[i] = name + `="` + labelEscaper.Replace(val) + `"`
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func withLe(labels, le string) string {
	if labels == "" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(labels, "}") + `,le="` + le + `"}`
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
