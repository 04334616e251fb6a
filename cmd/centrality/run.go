package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/config"
	"github.com/dd0wney/cluso-centrality/pkg/engine"
	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/health"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/metrics"
	"github.com/dd0wney/cluso-centrality/pkg/report"
	"github.com/dd0wney/cluso-centrality/pkg/sink"
)

func run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewJSONLogger(stderr, level)
	logging.SetDefaultLogger(logger)

	reg := metrics.NewRegistry()
	state := health.NewRunState()
	if cfg.MetricsAddr != "" {
		checker := health.NewChecker()
		checker.Add(health.Live, "run", state.Progress())
		checker.Add(health.Ready, "graph", state.GraphLoaded())

		stopServer := serveMetrics(cfg.MetricsAddr, reg, checker, logger)
		defer stopServer()
	}

	if err := execute(ctx, cfg, reg, state, logger, stdout); err != nil {
		state.Fail(err)
		return err
	}
	state.Set(health.PhaseDone)
	return nil
}

func execute(ctx context.Context, cfg *config.Config, reg *metrics.Registry, state *health.RunState, logger logging.Logger, stdout io.Writer) error {
	runner := engine.NewRunner(
		engine.WithLogger(logger),
		engine.WithMetrics(reg),
		engine.WithWorkers(cfg.Workers),
	)

	srcOpts := graph.SourceOptions{
		S3: graph.S3Options{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		},
	}
	state.Set(health.PhaseLoading)
	g, err := runner.Load(ctx, cfg.Input, srcOpts, graph.LoadOptions{Strict: cfg.Strict})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.Input, err)
	}

	g, err = runner.ApplySymmetryPolicy(g, cfg.Symmetry)
	if err != nil {
		return err
	}

	selected, err := engine.ParseMetrics(cfg.Metrics)
	if err != nil {
		return err
	}

	runCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	state.Set(health.PhaseComputing)
	res, err := runner.Run(runCtx, g, selected)
	if err != nil {
		return err
	}

	state.Set(health.PhaseReporting)
	if err := writeReport(cfg, report.Build(res, cfg.TopK), stdout); err != nil {
		return err
	}

	if cfg.Sink.PostgresURL != "" {
		s, err := sink.NewPostgresSink(ctx, cfg.Sink.PostgresURL, logger, reg)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.Write(ctx, res.RunID, res); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(cfg *config.Config, rep *report.Report, stdout io.Writer) error {
	if cfg.Output == "" {
		return report.Render(stdout, rep, cfg.Format)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := report.Render(f, rep, cfg.Format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// serveMetrics exposes reg and the health endpoints on addr until the
// returned stop function is called.
func serveMetrics(addr string, reg *metrics.Registry, checker *health.Checker, logger logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	mux.Handle("/healthz", checker.Handler(health.Live))
	mux.Handle("/readyz", checker.Handler(health.Ready))

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", logging.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("metrics server forced to shutdown", logging.Error(err))
		}
	}
}
