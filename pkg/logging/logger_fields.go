package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain fields

func Component(name string) Field {
	return String("component", name)
}

func Metric(name string) Field {
	return String("metric", name)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Edges(n int) Field {
	return Int("edges", n)
}

func Source(location string) Field {
	return String("source", location)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func NodeID(id uint64) Field {
	return Field{Key: "node_id", Value: id}
}

// Latency renders d in time.Duration's string form, e.g. "1.5s".
func Latency(d time.Duration) Field {
	return Field{Key: "latency", Value: d.String()}
}

func Count(n int) Field {
	return Int("count", n)
}
