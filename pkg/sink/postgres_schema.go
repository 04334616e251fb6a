package sink

import "context"

// migrate creates the scores table and its lookup index
func (s *PostgresSink) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS centrality_scores (
		run_id UUID NOT NULL,
		metric TEXT NOT NULL,
		node_id BIGINT NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (run_id, metric, node_id)
	);

	CREATE INDEX IF NOT EXISTS idx_centrality_scores_metric_score ON centrality_scores(run_id, metric, score DESC);
	`

	_, err := s.db.Exec(ctx, schema)
	return err
}
