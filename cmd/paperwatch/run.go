// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwatch/internal/schedule"
	"github.com/pdiddy/paperwatch/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot: poll every minute and export weekly",
	Long: `Run performs one poll cycle immediately, then polls every minute and sends
the CSV export every Saturday at 14:38 local time. It runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newServices(cfg, logger)
		if err != nil {
			logger.Error().Err(err).Msg("cannot open store")
			return err
		}
		defer svc.Close()

		sched := schedule.New(types.SchedulerTick, logger)
		sched.Add("poll", schedule.Interval{D: types.PollInterval}, func(ctx context.Context) error {
			_, err := svc.cycle.Run(ctx)
			return err
		})
		sched.Add("export", schedule.Weekly{
			Day:      types.ExportWeekday,
			Hour:     types.ExportHour,
			Minute:   types.ExportMinute,
			Location: time.Local,
		}, svc.exporter.Run)

		count, err := svc.store.Count(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("cannot read store")
			return err
		}
		logger.Info().Int("articles", count).Msg("bot started")
		if _, err := svc.cycle.Run(ctx); err != nil {
			logger.Warn().Err(err).Msg("startup poll failed")
		}
		if next, ok := sched.NextRun("export"); ok {
			logger.Info().Time("next_export", next).Msg("scheduler running")
		}

		err = sched.Run(ctx)
		logger.Info().Msg("bot stopped")
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
