// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/dataset"
	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/logging"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("cinematch failed")
		os.Exit(1)
	}
}

// app carries state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cinematch",
		Short:         "Content-based movie recommendation and evaluation",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (overrides CONFIG_PATH)")

	root.AddCommand(newEvaluateCmd(a))
	root.AddCommand(newPersonalisedCmd(a))
	root.AddCommand(newHistogramCmd(a))
	root.AddCommand(newCorrelationsCmd(a))
	root.AddCommand(newSimilarCmd(a))
	root.AddCommand(newRecommendCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// loadConfig loads the layered configuration and initializes logging on the
// command's error stream.
func (a *app) loadConfig(cmd *cobra.Command) error {
	if a.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, a.configPath); err != nil {
			return fmt.Errorf("set %s: %w", config.ConfigPathEnvVar, err)
		}
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Command:   cmd.Name(),
		Output:    cmd.ErrOrStderr(),
	})
	return nil
}

// applyOverrides re-validates the configuration after command flags were
// copied into it.
func (a *app) applyOverrides(apply func(cfg *config.Config)) error {
	apply(a.cfg)
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// loadEngine reads the configured dataset and wraps it in an engine.
func (a *app) loadEngine(ctx context.Context) (*dataset.Dataset, *engine.Engine, error) {
	d := a.cfg.Dataset
	ds, err := dataset.Load(ctx, dataset.Paths{
		Movies:  d.MoviesFile,
		Genome:  d.GenomeFile,
		Ratings: d.RatingsFile,
		Train:   d.TrainFile,
		Test:    d.TestFile,
	}, dataset.Options{
		ExcludedGenre: d.ExcludedGenre,
		Logger:        logging.WithComponent("dataset"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	eng, err := engine.NewEngine(ds.Catalog, a.cfg.RecommendEngineConfig(), logging.WithComponent("engine"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return ds, eng, nil
}
