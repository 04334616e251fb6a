package sink

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-centrality/pkg/engine"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/metrics"
)

// TableName is the table scores are written to.
const TableName = "centrality_scores"

var scoreColumns = []string{"run_id", "metric", "node_id", "score"}

// ErrNodeIDOutOfRange is returned for a node ID that does not fit the BIGINT
// node_id column.
var ErrNodeIDOutOfRange = errors.New("node ID exceeds BIGINT range")

// NodeIDRangeError names the first node ID that could not be stored.
type NodeIDRangeError struct {
	Metric engine.Metric
	NodeID uint64
}

func (e *NodeIDRangeError) Error() string {
	return fmt.Sprintf("%s score for node %d: %v", e.Metric, e.NodeID, ErrNodeIDOutOfRange)
}

func (e *NodeIDRangeError) Unwrap() error {
	return ErrNodeIDOutOfRange
}

// db is the subset of *pgxpool.Pool the sink uses.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresSink persists centrality scores to PostgreSQL.
type PostgresSink struct {
	db      db
	close   func()
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewPostgresSink connects to databaseURL, verifies the connection and
// creates the scores table if needed.
func NewPostgresSink(ctx context.Context, databaseURL string, logger logging.Logger, reg *metrics.Registry) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// A run writes once, so a small pool is enough.
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := newPostgresSink(pool, pool.Close, logger, reg)
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func newPostgresSink(conn db, closeFn func(), logger logging.Logger, reg *metrics.Registry) *PostgresSink {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	if closeFn == nil {
		closeFn = func() {}
	}
	return &PostgresSink{
		db:      conn,
		close:   closeFn,
		logger:  logger.With(logging.Component("postgres_sink")),
		metrics: reg,
	}
}

// Write bulk-loads every score in res under runID. It returns the number of
// rows copied. Nothing is written if any node ID exceeds math.MaxInt64.
func (s *PostgresSink) Write(ctx context.Context, runID uuid.UUID, res *engine.Result) (int64, error) {
	rows, perMetric, err := scoreRows(runID, res)
	if err != nil {
		var rangeErr *NodeIDRangeError
		if errors.As(err, &rangeErr) {
			s.logger.Error("node ID does not fit node_id column",
				logging.RunID(runID.String()),
				logging.Metric(string(rangeErr.Metric)),
				logging.NodeID(rangeErr.NodeID),
			)
		}
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	start := time.Now()
	n, err := s.db.CopyFrom(ctx, pgx.Identifier{TableName}, scoreColumns, pgx.CopyFromRows(rows))
	if err != nil {
		s.logger.Error("failed to copy scores", logging.RunID(runID.String()), logging.Error(err))
		return n, fmt.Errorf("failed to copy scores: %w", err)
	}
	elapsed := time.Since(start)

	s.metrics.RecordSinkWrite(perMetric, elapsed)
	s.logger.Info("scores written",
		logging.RunID(runID.String()),
		logging.Count(int(n)),
		logging.Latency(elapsed),
	)
	return n, nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() error {
	s.close()
	return nil
}

// scoreRows flattens res into COPY rows ordered by metric and node ID.
func scoreRows(runID uuid.UUID, res *engine.Result) ([][]any, map[string]int, error) {
	var rows [][]any
	perMetric := make(map[string]int)

	add := func(m engine.Metric, id uint64, score float64) error {
		if id > math.MaxInt64 {
			return &NodeIDRangeError{Metric: m, NodeID: id}
		}
		rows = append(rows, []any{runID, string(m), int64(id), score})
		perMetric[string(m)]++
		return nil
	}

	for _, id := range sortedKeys(res.Degree) {
		if err := add(engine.Degree, id, float64(res.Degree[id])); err != nil {
			return nil, nil, err
		}
	}
	for _, id := range sortedKeys(res.Closeness) {
		if err := add(engine.Closeness, id, res.Closeness[id]); err != nil {
			return nil, nil, err
		}
	}
	for _, id := range sortedKeys(res.Betweenness) {
		if err := add(engine.Betweenness, id, res.Betweenness[id]); err != nil {
			return nil, nil, err
		}
	}
	return rows, perMetric, nil
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
