package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/diskichat-admin/internal/app"
	"github.com/riskibarqy/diskichat-admin/internal/config"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

const cliTrigger = "cli"

var errProviderDisabled = errors.New("api-football is not configured (set APIFOOTBALL_ENABLED and APIFOOTBALL_KEY)")

type configLoader func() (config.Config, error)

type rootOptions struct {
	logLevel string
	load     configLoader
	out      io.Writer
}

func newRootCmd(load configLoader, out io.Writer) *cobra.Command {
	opts := &rootOptions{load: load, out: out}

	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Operator tasks for the diskichat admin store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "debug|info|warn|error")

	root.AddCommand(
		newSeedTeamsCmd(opts),
		newSyncCompetitionsCmd(opts),
		newImportFixtureCmd(opts),
		newSeedLiveCmd(opts),
		newReconcileLiveCmd(opts),
	)
	return root
}

func newSeedTeamsCmd(opts *rootOptions) *cobra.Command {
	var competitionID int64
	var season int

	cmd := &cobra.Command{
		Use:   "seed-teams",
		Short: "Copy a competition's teams for a season into the teams collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				if a.Services.Teams == nil {
					return nil, errProviderDisabled
				}
				return a.Services.Teams.Sync(ctx, competitionID, season)
			})
		},
	}
	cmd.Flags().Int64Var(&competitionID, "competition", 0, "provider competition id")
	cmd.Flags().IntVar(&season, "season", 0, "season year, defaults to DEFAULT_SEASON or the current season")
	_ = cmd.MarkFlagRequired("competition")
	return cmd
}

func newSyncCompetitionsCmd(opts *rootOptions) *cobra.Command {
	var ids []int64

	cmd := &cobra.Command{
		Use:   "sync-competitions",
		Short: "Refresh competitions from the provider, DEFAULT_COMPETITION_IDS when --ids is omitted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				if a.Services.Competitions == nil {
					return nil, errProviderDisabled
				}
				return a.Services.Competitions.Sync(ctx, ids)
			})
		},
	}
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "comma separated competition ids")
	return cmd
}

func newImportFixtureCmd(opts *rootOptions) *cobra.Command {
	var ids []int64

	cmd := &cobra.Command{
		Use:   "import-fixture",
		Short: "Import provider fixtures into matches and fan out live ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				if a.Services.Importer == nil {
					return nil, errProviderDisabled
				}
				if len(ids) == 1 {
					return a.Services.Importer.ImportFixture(ctx, ids[0], nil)
				}
				return a.Services.Importer.ImportBatch(ctx, usecase.ImportBatchInput{
					FixtureIDs: ids,
					Trigger:    cliTrigger,
				})
			})
		},
	}
	cmd.Flags().Int64SliceVar(&ids, "id", nil, "fixture id, repeatable")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newSeedLiveCmd(opts *rootOptions) *cobra.Command {
	var competitionID int64
	var forceLive bool

	cmd := &cobra.Command{
		Use:   "seed-live",
		Short: "Import the next fixture of a competition, optionally stored as live",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				if a.Services.Importer == nil {
					return nil, errProviderDisabled
				}
				return a.Services.Importer.SeedLive(ctx, competitionID, forceLive)
			})
		},
	}
	cmd.Flags().Int64Var(&competitionID, "competition", 0, "provider competition id")
	cmd.Flags().BoolVar(&forceLive, "force-live", false, "store the fixture as live whatever its provider status")
	_ = cmd.MarkFlagRequired("competition")
	return cmd
}

func newReconcileLiveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-live",
		Short: "Rebuild live_matches from matches and create missing banter rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				return a.Services.LiveMatches.Reconcile(ctx)
			})
		},
	}
}

// withApp wires the application for one command, prints its result as JSON
// and releases every client before returning.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(context.Context, *app.App) (any, error)) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := o.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewConsole(logging.ParseLevel(o.logLevel)).Named(cmd.Name())
	defer func() {
		if err != nil {
			logger.Error("command failed", "error", err)
		}
		_ = logger.Sync()
	}()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(context.WithoutCancel(ctx)); closeErr != nil {
			logger.Warn("close app", "error", closeErr)
		}
	}()

	result, err := fn(ctx, a)
	if err != nil {
		return err
	}

	body, err := sonic.ConfigDefault.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(o.out, string(body))
	return err
}
