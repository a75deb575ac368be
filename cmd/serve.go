package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/wordcoach/internal/bot"
	"github.com/example/wordcoach/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot with the daily scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.cfg.RequireToken(); err != nil {
				return err
			}

			botCfg := bot.DefaultConfig()
			botCfg.AllowedUserIDs = a.cfg.AllowedUserIDs
			b, err := bot.New(a.cfg.TelegramToken, a.coach, botCfg, a.logger)
			if err != nil {
				return err
			}

			loc, err := a.cfg.Scheduler.Location()
			if err != nil {
				return err
			}
			sched := scheduler.New(a.coach, b, a.clock, scheduler.Config{
				ReminderStartHour: a.cfg.Scheduler.ReminderStartHour,
				ReminderEndHour:   a.cfg.Scheduler.ReminderEndHour,
				Location:          loc,
			}, a.logger)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return b.Run(ctx)
			})
			g.Go(func() error {
				if err := sched.Start(ctx); err != nil {
					return err
				}
				<-ctx.Done()
				sched.Stop()
				return nil
			})

			a.logger.Info("bot started, press Ctrl+C to stop")
			err = g.Wait()
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			a.logger.Info("bot stopped", zap.Error(err))
			return err
		})
	},
}
