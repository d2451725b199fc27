package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"taskbundle/internal/codec"
	"taskbundle/internal/config"
	"taskbundle/internal/loader"
	"taskbundle/internal/model"
)

// app is the state shared by all commands, set up before any of them runs.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	config *config.Config
	logger *slog.Logger
	loader *loader.Loader
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "taskbundle",
		Short:         "Validate, repair and merge task/board bundles",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(reconcileCmd(a))
	root.AddCommand(validateCmd(a))
	root.AddCommand(exportCmd(a))

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg := config.Default()

	if a.configPath != "" {
		loaded, err := config.LoadFile(a.configPath)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}

	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}

	logger, err := cfg.Logging.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.config = cfg
	a.logger = logger
	a.loader = loader.New(nil, cfg.Loader)

	return nil
}

// loadInputs reads the incoming document and the existing dataset
// concurrently. An empty existingURL means an empty dataset.
func (a *app) loadInputs(ctx context.Context, incomingURL, existingURL string) (*loader.File, model.Dataset, error) {
	var (
		incoming *loader.File
		existing model.Dataset
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f, err := a.loader.Load(gctx, incomingURL)
		if err != nil {
			return fmt.Errorf("failed to load incoming bundle: %w", err)
		}

		incoming = f

		return nil
	})

	if existingURL != "" {
		g.Go(func() error {
			d, err := a.loadDataset(gctx, existingURL)
			if err != nil {
				return err
			}

			existing = d

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, model.Dataset{}, err
	}

	a.logger.Debug("inputs loaded",
		slog.String("incoming", incoming.URL),
		slog.Int64("size", incoming.Size),
		slog.Int("existingTasks", len(existing.Tasks)),
		slog.Int("existingBoards", len(existing.Boards)))

	return incoming, existing, nil
}

// loadDataset reads a stored bundle and returns its records as a dataset.
// Stored data must already be valid.
func (a *app) loadDataset(ctx context.Context, URL string) (model.Dataset, error) {
	f, err := a.loader.Load(ctx, URL)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	b, err := codec.DecodeBundle(f.Data)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("dataset %s: %w", URL, err)
	}

	return model.Dataset{Tasks: b.Tasks, Boards: b.Boards, Settings: b.Settings}, nil
}
