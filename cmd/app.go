package cmd

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/clock"
	"github.com/example/wordcoach/internal/config"
	"github.com/example/wordcoach/internal/database"
	"github.com/example/wordcoach/internal/drill"
	"github.com/example/wordcoach/internal/logger"
	"github.com/example/wordcoach/internal/rollover"
	"github.com/example/wordcoach/internal/scoring"
)

// app bundles what every command needs
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  clock.Clock
	coach  *drill.Service
	closer io.Closer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if d, _ := cmd.Flags().GetString("driver"); d != "" {
		cfg.Database.Driver = d
	}
	if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}

	var clk clock.Clock = clock.System{}
	if cfg.Clock.TimeURL != "" {
		clk = clock.NewRemote(cfg.Clock.TimeURL, cfg.Clock.Timeout, log)
	}

	repo, closer, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}

	scoringRules := scoring.DefaultRules()
	scoringRules.DailyAnswerTarget = cfg.Rules.DailyAnswerTarget
	rolloverRules := rollover.DefaultRules()
	rolloverRules.DailyWordTarget = cfg.Rules.DailyWordTarget

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	coach, err := drill.Open(ctx, repo, clk,
		drill.WithLogger(log),
		drill.WithScoringRules(scoringRules),
		drill.WithRolloverRules(rolloverRules))
	if err != nil {
		closer.Close()
		return nil, err
	}

	return &app{cfg: cfg, logger: log, clock: clk, coach: coach, closer: closer}, nil
}

func (a *app) Close() {
	if err := a.closer.Close(); err != nil {
		a.logger.Warn("failed to close storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// withApp opens the app, reconciles the day and runs fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := a.coach.ReconcileDay(ctx)
	if err != nil {
		return err
	}
	printPenalties(cmd.OutOrStdout(), report)
	return fn(ctx, a)
}
