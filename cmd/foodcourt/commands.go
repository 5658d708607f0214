package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/di"
	"github.com/polkiloo/foodcourt/internal/usecase"
)

// Flags are parsed by the config package, so cobra hands them through untouched.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:                "foodcourt",
		Short:              "Food court ordering service",
		SilenceUsage:       true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), args)
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:                "serve",
			Short:              "Run the HTTP API and the order event relay",
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), args)
			},
		},
		&cobra.Command{
			Use:                "seed",
			Short:              "Install stalls, menus and the admin account",
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return seed(cmd.Context(), args, cmd.OutOrStdout())
			},
		},
	)
	return root
}

func serve(ctx context.Context, args []string) error {
	cfg, err := config.LoadArgs(args)
	if err != nil {
		return err
	}

	var options []fx.Option
	// nothing survives a restart in memory, so the catalogue is installed on every start
	if cfg.DatabaseURI == "" {
		options = append(options, fx.Invoke(seedOnStart))
	}
	options = append(options,
		fx.Provide(func() context.Context { return ctx }),
		di.Module(fx.Replace(cfg)),
	)
	return run(ctx, fx.New(options...))
}

func seedOnStart(lc fx.Lifecycle, seeder *usecase.SeedUseCase, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lines, err := seeder.Seed(ctx, usecase.DefaultStalls())
			if err != nil {
				return fmt.Errorf("seed in-memory store: %w", err)
			}
			logger.Info("in-memory store seeded", slog.Int("records", len(lines)))
			return nil
		},
	})
}

func seed(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.LoadArgs(args)
	if err != nil {
		return err
	}

	var seeder *usecase.SeedUseCase
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return ctx }),
		di.StorageModule(fx.Replace(cfg)),
		fx.Populate(&seeder),
	)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start seeder: %w", err)
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	lines, err := seeder.Seed(ctx, usecase.DefaultStalls())
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
