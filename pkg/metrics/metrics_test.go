package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func readCounter(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func readGauge(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.GraphNodes == nil {
		t.Error("GraphNodes not initialized")
	}
	if r.ComputationsTotal == nil {
		t.Error("ComputationsTotal not initialized")
	}
	if r.SinkRowsTotal == nil {
		t.Error("SinkRowsTotal not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordLoad(t *testing.T) {
	r := NewRegistry()

	r.RecordLoad(4039, 88234, 3, 200*time.Millisecond, nil)

	if got := readGauge(t, r.GraphNodes); got != 4039 {
		t.Errorf("GraphNodes = %v, want 4039", got)
	}
	if got := readGauge(t, r.GraphEdges); got != 88234 {
		t.Errorf("GraphEdges = %v, want 88234", got)
	}
	if got := readCounter(t, r.LoadSkippedLines); got != 3 {
		t.Errorf("LoadSkippedLines = %v, want 3", got)
	}

	r.RecordLoad(0, 0, 0, time.Millisecond, errors.New("no such file"))

	failed, err := r.LoadsTotal.GetMetricWithLabelValues(StatusError)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := readCounter(t, failed); got != 1 {
		t.Errorf("failed loads = %v, want 1", got)
	}
	if got := readGauge(t, r.GraphNodes); got != 4039 {
		t.Errorf("failed load should not reset GraphNodes, got %v", got)
	}
}

func TestStartComputation(t *testing.T) {
	r := NewRegistry()

	done := r.StartComputation("betweenness")
	if got := readGauge(t, r.ComputationsRunning); got != 1 {
		t.Errorf("ComputationsRunning = %v, want 1", got)
	}
	done(nil)

	failed := r.StartComputation("closeness")
	failed(errors.New("deadline exceeded"))

	if got := readGauge(t, r.ComputationsRunning); got != 0 {
		t.Errorf("ComputationsRunning = %v, want 0", got)
	}

	ok, err := r.ComputationsTotal.GetMetricWithLabelValues("betweenness", StatusSuccess)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := readCounter(t, ok); got != 1 {
		t.Errorf("betweenness successes = %v, want 1", got)
	}

	bad, err := r.ComputationsTotal.GetMetricWithLabelValues("closeness", StatusError)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := readCounter(t, bad); got != 1 {
		t.Errorf("closeness failures = %v, want 1", got)
	}

	hist, err := r.ComputationDuration.GetMetricWithLabelValues("betweenness")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := hist.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 1 {
		t.Errorf("duration samples = %v, want 1", metric.Histogram.GetSampleCount())
	}
}

func TestRecordSinkWrite(t *testing.T) {
	r := NewRegistry()

	r.RecordSinkWrite(map[string]int{"degree": 10, "closeness": 10}, 50*time.Millisecond)
	r.RecordSinkWrite(map[string]int{"degree": 5}, 10*time.Millisecond)

	degree, err := r.SinkRowsTotal.GetMetricWithLabelValues("degree")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := readCounter(t, degree); got != 15 {
		t.Errorf("degree rows = %v, want 15", got)
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics()

	if got := readGauge(t, r.GoRoutines); got < 1 {
		t.Errorf("GoRoutines = %v, want >= 1", got)
	}
	if got := readGauge(t, r.MemorySysBytes); got <= 0 {
		t.Errorf("MemorySysBytes = %v, want > 0", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordRepair(2)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "centrality_symmetry_repairs_total 2") {
		t.Errorf("exposition missing repair counter:\n%s", body)
	}
}
