package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/state", "200", 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/state", "200", 2*time.Second)
	m.ObserveBackend("profile.get", "fallback", time.Millisecond)
	m.IncAIGeneration("flashcards", "fallback")
	m.IncStoreAction("grant_xp")
	m.IncStoreAction("grant_xp")
	m.IncRealtimeEvent("match_started")
	m.ApiInflightInc()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`mentoro_api_requests_total{method="GET",route="/api/state",status="200"} 2.000000`,
		`mentoro_api_request_seconds_bucket{method="GET",route="/api/state",le="0.05"} 1`,
		`mentoro_api_request_seconds_bucket{method="GET",route="/api/state",le="+Inf"} 2`,
		`mentoro_api_inflight_requests 1.000000`,
		`mentoro_backend_calls_total{endpoint="profile.get",outcome="fallback"} 1.000000`,
		`mentoro_ai_generations_total{prompt="flashcards",outcome="fallback"} 1.000000`,
		`mentoro_store_actions_total{action="grant_xp"} 2.000000`,
		`mentoro_realtime_events_total{type="match_started"} 1.000000`,
		"# TYPE mentoro_api_request_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Second)
	m.ObserveBackend("x", "ok", time.Second)
	m.IncAIGeneration("x", "ok")
	m.IncStoreAction("x")
	m.IncRealtimeEvent("x")
	m.ApiInflightInc()
	m.ApiInflightDec()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y\z`})
	if got != `{a="x\"y\\z",b="unknown"}` {
		t.Fatalf("labels: %s", got)
	}
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc , bad, =x, y= ,tenant=t1")
	if len(got) != 2 || got["api-key"] != "abc" || got["tenant"] != "t1" {
		t.Fatalf("headers: %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}
