// Command jobmatchctl runs catalogue maintenance against the configured store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yoockh/jobmatch/config"
	"github.com/yoockh/jobmatch/internal/bootstrap"
	"github.com/yoockh/jobmatch/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "jobmatchctl",
		Short:        "Maintenance commands for the job matching service",
		SilenceUsage: true,
	}
	root.AddCommand(newSeedCmd(), newAnalyzeCmd())
	return root
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert template jobs that are not in the catalogue yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), file, func(ctx context.Context, app *bootstrap.App) error {
				n, err := app.Jobs.Seed(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d jobs\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level jobs list (default: built-in templates)")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Extract skills for every job that has none",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), "", func(ctx context.Context, app *bootstrap.App) error {
				n, err := app.Jobs.AnalyzePending(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "analyzed %d jobs\n", n)
				return nil
			})
		},
	}
}

func withApp(parent context.Context, seedFile string, fn func(context.Context, *bootstrap.App) error) error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// seeding is explicit here
	cfg.SeedOnEmpty = false
	if seedFile != "" {
		cfg.SeedFile = seedFile
	}

	app, err := bootstrap.New(ctx, cfg, logger.New(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer app.Close(context.Background())
	return fn(ctx, app)
}
