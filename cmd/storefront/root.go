package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nycolasmancini/pmcell-storefront/internal/app"
	"github.com/nycolasmancini/pmcell-storefront/internal/config"
)

var (
	configPath string
	backendURL string
	statePath  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "PMCELL catalog storefront client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config")
	root.PersistentFlags().StringVar(&backendURL, "backend", "", "catalog backend base URL")
	root.PersistentFlags().StringVar(&statePath, "state", "", "path to persisted state file")

	root.AddCommand(
		newSessionCmd(),
		newCartCmd(),
		newUnlockCmd(),
		newProductsCmd(),
		newCheckoutCmd(),
		newStubCmd(),
	)
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	return cfg, nil
}

// withApp runs fn inside a wired session context, closing it afterwards so
// pending deliveries flush.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	a.Start()
	defer func() { _ = a.Close() }()

	return fn(a)
}
