package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	xgxtrace "github.com/xgx-io/xgx-trace"
	"github.com/xgx-io/xgx-trace/config"
	"github.com/xgx-io/xgx-trace/experimental/stats"
)

type options struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "xgxstats",
		Short:         "Histograms of the equations in traced programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "boundary settings (YAML)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		histogramCmd(opts, "primitives", "Count equations by primitive",
			func(p stats.Program, _ xgxtrace.PathSet) stats.Histogram { return stats.Primitives(p) }),
		histogramCmd(opts, "by-source", "Count equations by primitive and user source line",
			stats.PrimitivesBySource),
		histogramCmd(opts, "by-shape", "Count equations by primitive and output shapes",
			func(p stats.Program, _ xgxtrace.PathSet) stats.Histogram { return stats.PrimitivesByShape(p) }),
	)
	return root
}

type histogramFunc func(stats.Program, xgxtrace.PathSet) stats.Histogram

func histogramCmd(opts *options, use, short string, hist histogramFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistogram(cmd, opts, args, hist)
		},
	}
}

func runHistogram(cmd *cobra.Command, opts *options, paths []string, hist histogramFunc) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	// Metrics stay off: a one-shot command has nobody to scrape them.
	cfg.Metrics.Enabled = false
	b, err := cfg.Boundary(nil, logger)
	if err != nil {
		return err
	}

	var merged stats.Histogram
	err = b.Call(func() error {
		programs, err := stats.LoadAll(cmd.Context(), paths...)
		if err != nil {
			return err
		}
		hs := make([]stats.Histogram, len(programs))
		for i, p := range programs {
			hs[i] = hist(p, b.Paths())
		}
		merged = stats.Merge(hs...)
		return nil
	})
	if err != nil {
		logger.Error("xgxstats: failed", zap.String("command", cmd.Name()), zap.Error(err))
		return err
	}
	logger.Debug("xgxstats: done",
		zap.String("command", cmd.Name()),
		zap.Int("files", len(paths)),
		zap.Int("keys", len(merged)))
	return stats.Fprint(cmd.OutOrStdout(), merged)
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	return cfg, nil
}
