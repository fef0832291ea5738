// Package main provides the donorhub binary: the HTTP API plus migrate and seed maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"donorhub/config"
	_ "donorhub/docs"
	"donorhub/internal/app"

	"github.com/spf13/cobra"
)

// @title DonorHub API
// @version 1.0
// @description Event planning for donor fundraising: events, invitations, donors and task checklists.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	load := func() (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		return cfg, nil
	}

	cmd := &cobra.Command{
		Use:          "donorhub",
		Short:        "Donor event planning API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(load)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(load)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return app.MigrateOnly(cfg, config.NewLogger(cfg))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Import fundraisers and donors from the external donor feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			res, err := app.Seed(ctx, cfg, config.NewLogger(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fundraisers created: %d, donors created: %d, donors skipped: %d\n",
				res.FundraisersCreated, res.DonorsCreated, res.DonorsSkipped)
			return nil
		},
	})

	return cmd
}

func serve(load func() (*config.Config, error)) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	a, err := app.New(cfg, config.NewLogger(cfg))
	if err != nil {
		return err
	}
	return a.Run()
}
