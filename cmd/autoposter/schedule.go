package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/internal/pipeline"
	"github.com/jasmeetsingh/autoposter/internal/telemetry"
)

func scheduleCMD() *cobra.Command {
	var cronSpec string
	var dryRun bool
	var cfgPath string

	var schedule = &cobra.Command{
		Use:   "schedule",
		Short: "Run the poster on a recurring schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger := log.New(os.Stderr, "[SCHED] ", log.LstdFlags)
			metrics := telemetry.NewMetrics()
			if cfg.Telemetry.Enabled {
				server := metrics.Serve(cfg.Telemetry.MetricsPort, logger)
				defer func() {
					shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
					defer stop()
					_ = server.Shutdown(shutdownCtx)
				}()
				logger.Printf("metrics listening on :%d", cfg.Telemetry.MetricsPort)
			}

			runner := newRunner(cfg, logger, metrics, cmd.OutOrStdout())
			err = pipeline.Schedule(ctx, runner, cronSpec, dryRun, logger)
			if errors.Is(err, context.Canceled) {
				logger.Printf("shutting down")
				return nil
			}
			return err
		},
	}
	schedule.Flags().StringVar(&cronSpec, "cron", "@daily", "schedule spec (@daily, @hourly or 5-field cron)")
	schedule.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "generate posts without publishing them")
	schedule.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return schedule
}
