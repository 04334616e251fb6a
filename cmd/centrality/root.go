package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-centrality/pkg/config"
)

type options struct {
	configFile  string
	input       string
	strict      bool
	symmetry    string
	metrics     []string
	topK        int
	format      string
	output      string
	logLevel    string
	metricsAddr string
	workers     int
	timeout     time.Duration
	postgresURL string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "centrality [edge-list]",
		Short: "Degree, closeness and betweenness centrality for undirected graphs",
		Long: "centrality loads an undirected edge list from a file or S3 and reports the\n" +
			"most central nodes by degree, closeness and betweenness (Brandes).",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	f.StringVarP(&opts.input, "input", "i", "", "edge list path, file:// or s3:// URL (or set "+config.EnvInput+")")
	f.BoolVar(&opts.strict, "strict", false, "fail on the first malformed line instead of skipping it")
	f.StringVar(&opts.symmetry, "symmetry", config.SymmetryIgnore, "asymmetric input policy: ignore, repair or reject")
	f.StringSliceVarP(&opts.metrics, "metrics", "m", nil, "metrics to compute (default degree,closeness,betweenness)")
	f.IntVarP(&opts.topK, "top", "k", 5, "nodes to report per metric, 0 for all")
	f.StringVarP(&opts.format, "format", "f", "text", "report format: text, json or yaml")
	f.StringVarP(&opts.output, "output", "o", "", "report file (default stdout)")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (or set "+config.EnvLogLevel+")")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this host:port")
	f.IntVar(&opts.workers, "workers", 0, "metrics computed concurrently, 0 for one per metric")
	f.DurationVar(&opts.timeout, "timeout", 0, "abort the computation after this long, 0 for no limit")
	f.StringVar(&opts.postgresURL, "postgres-url", "", "store scores in PostgreSQL (or set "+config.EnvPostgres+")")

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and then
// explicitly set flags, and validates the result.
func resolveConfig(cmd *cobra.Command, opts *options, args []string) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	f := cmd.Flags()
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if f.Changed("input") {
		cfg.Input = opts.input
	}
	if f.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if f.Changed("symmetry") {
		cfg.Symmetry = opts.symmetry
	}
	if f.Changed("metrics") {
		cfg.Metrics = opts.metrics
	}
	if f.Changed("top") {
		cfg.TopK = opts.topK
	}
	if f.Changed("format") {
		cfg.Format = opts.format
	}
	if f.Changed("output") {
		cfg.Output = opts.output
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if f.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if f.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if f.Changed("postgres-url") {
		cfg.Sink.PostgresURL = opts.postgresURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
