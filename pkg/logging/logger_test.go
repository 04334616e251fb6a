package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		ok       bool
	}{
		{"DEBUG", DebugLevel, true},
		{"debug", DebugLevel, true},
		{"Info", InfoLevel, true},
		{"", InfoLevel, true},
		{"warning", WarnLevel, true},
		{" WARN ", WarnLevel, true},
		{"error", ErrorLevel, true},
		{"verbose", InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"Metric", Metric("betweenness"), "metric", "betweenness"},
		{"Nodes", Nodes(4039), "nodes", 4039},
		{"Edges", Edges(88234), "edges", 88234},
		{"Source", Source("s3://graphs/fb.txt"), "source", "s3://graphs/fb.txt"},
		{"NodeID", NodeID(107), "node_id", uint64(107)},
		{"Latency", Latency(1500 * time.Millisecond), "latency", "1.5s"},
		{"Count", Count(3), "count", 3},
		{"Component", Component("postgres_sink"), "component", "postgres_sink"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"Error_nil", Error(nil), "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s() = %+v, want {Key:%s Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("graph loaded", Nodes(3), Source("edges.txt"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "graph loaded" {
		t.Errorf("Message = %v, want 'graph loaded'", entry.Message)
	}
	if entry.Fields["nodes"] != float64(3) { // JSON unmarshals numbers as float64
		t.Errorf("Fields[nodes] = %v, want 3", entry.Fields["nodes"])
	}
	if entry.Fields["source"] != "edges.txt" {
		t.Errorf("Fields[source] = %v, want edges.txt", entry.Fields["source"])
	}
	if _, err := time.Parse(time.RFC3339Nano, entry.Time); err != nil {
		t.Errorf("Time %q is not RFC3339: %v", entry.Time, err)
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("Levels = %s, %s; want WARN, ERROR", entries[0].Level, entries[1].Level)
	}

	if logger.Enabled(InfoLevel) {
		t.Error("Enabled(InfoLevel) = true at WarnLevel")
	}
	if !logger.Enabled(ErrorLevel) {
		t.Error("Enabled(ErrorLevel) = false at WarnLevel")
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("bare")

	if strings.Contains(buf.String(), "fields") {
		t.Errorf("Expected no fields key, got %s", buf.String())
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("engine"), RunID("run-1"))
	child.Info("computed", Metric("degree"))
	logger.Info("parent")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].Fields["component"] != "engine" || entries[0].Fields["run_id"] != "run-1" {
		t.Errorf("child preset fields missing: %v", entries[0].Fields)
	}
	if entries[0].Fields["metric"] != "degree" {
		t.Errorf("metric field = %v, want degree", entries[0].Fields["metric"])
	}
	if len(entries[1].Fields) != 0 {
		t.Errorf("parent should not inherit child fields, got %v", entries[1].Fields)
	}
}

func TestJSONLogger_ConcurrentChildren(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child := logger.With(Int("worker", i))
			for j := 0; j < 50; j++ {
				child.Info("tick")
			}
		}(i)
	}
	wg.Wait()

	if entries := decodeEntries(t, &buf); len(entries) != 400 {
		t.Errorf("Expected 400 intact entries, got %d", len(entries))
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	timer := StartTimer(logger, "closeness computed", Metric("closeness"))
	elapsed := timer.End(Nodes(10))
	if elapsed < 0 {
		t.Errorf("End() returned negative duration %v", elapsed)
	}

	timer = StartTimer(logger, "betweenness computed", Metric("betweenness"))
	timer.EndError(errors.New("deadline exceeded"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Fields["latency"] == nil || entries[0].Fields["nodes"] != float64(10) {
		t.Errorf("End() fields = %v", entries[0].Fields)
	}
	if entries[1].Level != "ERROR" || entries[1].Fields["error"] != "deadline exceeded" {
		t.Errorf("EndError() entry = %+v", entries[1])
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	t.Cleanup(func() { SetDefaultLogger(NewNopLogger()) })

	DefaultLogger().Debug("via default")

	if entries := decodeEntries(t, &buf); len(entries) != 1 || entries[0].Level != "DEBUG" {
		t.Errorf("Expected one DEBUG entry, got %+v", entries)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored")
	if logger.With(Count(1)) == nil {
		t.Error("NopLogger.With() returned nil")
	}
	if logger.Enabled(ErrorLevel) {
		t.Error("NopLogger should report every level disabled")
	}
}
