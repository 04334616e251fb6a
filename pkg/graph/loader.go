package graph

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// cancelCheckInterval is how many lines are read between context checks.
const cancelCheckInterval = 4096

// maxLineLength bounds a single edge-list line.
const maxLineLength = 1 << 20

// LoadOptions controls edge-list parsing.
type LoadOptions struct {
	// Strict rejects the first malformed line instead of skipping it.
	Strict bool
}

// LoadStats summarizes a load.
type LoadStats struct {
	Lines        int
	Edges        int
	SkippedLines int
	// FirstSkipped is the line number of the first skipped line, 0 if none.
	FirstSkipped int
}

// ParseError describes a malformed edge-list line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load builds a graph from a line-oriented edge list. Each line holds two
// whitespace-separated non-negative integers naming one undirected edge.
// Blank lines and lines starting with '#' or '%' are ignored.
func Load(ctx context.Context, r io.Reader, opts LoadOptions) (Graph, *LoadStats, error) {
	g := New()
	stats := &LoadStats{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for scanner.Scan() {
		stats.Lines++
		if stats.Lines%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}

		u, v, err := parseEdge(line)
		if err != nil {
			if opts.Strict {
				return nil, stats, &ParseError{Line: stats.Lines, Text: line, Err: err}
			}
			stats.SkippedLines++
			if stats.FirstSkipped == 0 {
				stats.FirstSkipped = stats.Lines
			}
			continue
		}

		g.AddEdge(u, v)
		stats.Edges++
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read edge list: %w", err)
	}

	return g, stats, nil
}

func parseEdge(line string) (uint64, uint64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}

	u, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return u, v, nil
}
