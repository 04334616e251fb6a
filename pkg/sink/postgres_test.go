package sink

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-centrality/pkg/engine"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/metrics"
)

type fakeDB struct {
	execs   []string
	table   pgx.Identifier
	columns []string
	rows    [][]any
	copyErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeDB) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	f.table = table
	f.columns = columns
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.rows = append(f.rows, values)
	}
	return int64(len(f.rows)), src.Err()
}

func testResult() *engine.Result {
	return &engine.Result{
		RunID:       uuid.New(),
		Degree:      map[uint64]int{2: 2, 1: 1, 3: 1},
		Betweenness: map[uint64]float64{1: 0, 2: 1, 3: 0},
		Durations:   map[engine.Metric]time.Duration{},
	}
}

func TestWrite(t *testing.T) {
	fake := &fakeDB{}
	reg := metrics.NewRegistry()
	s := newPostgresSink(fake, nil, nil, reg)

	res := testResult()
	n, err := s.Write(context.Background(), res.RunID, res)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	assert.Equal(t, pgx.Identifier{TableName}, fake.table)
	assert.Equal(t, []string{"run_id", "metric", "node_id", "score"}, fake.columns)
	require.Len(t, fake.rows, 6)
	assert.Equal(t, []any{res.RunID, "degree", int64(1), 1.0}, fake.rows[0])
	assert.Equal(t, []any{res.RunID, "degree", int64(2), 2.0}, fake.rows[1])
	assert.Equal(t, []any{res.RunID, "betweenness", int64(2), 1.0}, fake.rows[4])
}

func TestWriteEmpty(t *testing.T) {
	fake := &fakeDB{}
	s := newPostgresSink(fake, nil, nil, nil)

	n, err := s.Write(context.Background(), uuid.New(), &engine.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, fake.rows)
}

func TestWriteCopyError(t *testing.T) {
	fake := &fakeDB{copyErr: errors.New("relation does not exist")}
	s := newPostgresSink(fake, nil, nil, nil)

	res := testResult()
	_, err := s.Write(context.Background(), res.RunID, res)
	assert.ErrorIs(t, err, fake.copyErr)
}

func TestMigrate(t *testing.T) {
	fake := &fakeDB{}
	s := newPostgresSink(fake, nil, nil, nil)

	require.NoError(t, s.migrate(context.Background()))
	require.Len(t, fake.execs, 1)
	assert.True(t, strings.Contains(fake.execs[0], "CREATE TABLE IF NOT EXISTS centrality_scores"))
}

func TestClose(t *testing.T) {
	closed := false
	s := newPostgresSink(&fakeDB{}, func() { closed = true }, nil, nil)

	require.NoError(t, s.Close())
	assert.True(t, closed)
}

func TestNewPostgresSinkBadURL(t *testing.T) {
	_, err := NewPostgresSink(context.Background(), "postgres://%zz", nil, nil)
	assert.Error(t, err)
}

func TestWriteRejectsNodeIDBeyondBigint(t *testing.T) {
	tests := []struct {
		name string
		id   uint64
	}{
		{"just past max int64", math.MaxInt64 + 1},
		{"max uint64", math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDB{}
			s := newPostgresSink(fake, nil, nil, nil)

			res := &engine.Result{
				RunID:     uuid.New(),
				Degree:    map[uint64]int{1: 1, tt.id: 1},
				Closeness: map[uint64]float64{1: 1, tt.id: 1},
			}
			n, err := s.Write(context.Background(), res.RunID, res)

			require.ErrorIs(t, err, ErrNodeIDOutOfRange)
			var rangeErr *NodeIDRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.id, rangeErr.NodeID)
			assert.Equal(t, engine.Degree, rangeErr.Metric)
			assert.Zero(t, n)
			assert.Nil(t, fake.rows, "no rows may be copied when any ID is out of range")
		})
	}
}

func TestWriteAcceptsMaxBigint(t *testing.T) {
	fake := &fakeDB{}
	s := newPostgresSink(fake, nil, nil, nil)

	res := &engine.Result{RunID: uuid.New(), Degree: map[uint64]int{math.MaxInt64: 2}}
	n, err := s.Write(context.Background(), res.RunID, res)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(math.MaxInt64), fake.rows[0][2])
}

func TestWriteLogsRejectedNodeID(t *testing.T) {
	var buf bytes.Buffer
	s := newPostgresSink(&fakeDB{}, nil, logging.NewJSONLogger(&buf, logging.InfoLevel), nil)

	res := &engine.Result{RunID: uuid.New(), Betweenness: map[uint64]float64{math.MaxUint64: 0}}
	_, err := s.Write(context.Background(), res.RunID, res)
	require.Error(t, err)

	assert.Contains(t, buf.String(), `"node_id":18446744073709551615`)
	assert.Contains(t, buf.String(), `"metric":"betweenness"`)
}
