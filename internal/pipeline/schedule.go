package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
)

// Schedule runs the pipeline on a recurring schedule until the context is
// cancelled. Runs are strictly serial; the first one fires immediately and
// a long run pushes the next firing time out rather than overlapping it.
func Schedule(ctx context.Context, runner *Runner, spec string, dryRun bool, logger *log.Logger) error {
	// Reject a bad spec at startup rather than after the first run.
	if _, err := nextFire(spec, time.Now()); err != nil {
		return err
	}

	for {
		if err := runner.Run(ctx, dryRun); err != nil {
			logger.Printf("warn: scheduled run failed: %v", err)
		}

		next, err := nextFire(spec, time.Now())
		if err != nil {
			return err
		}
		logger.Printf("next run at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// nextFire computes the next firing time strictly after t. Supports
// "@daily", "@hourly", and standard 5-field cron expressions.
func nextFire(spec string, t time.Time) (time.Time, error) {
	switch spec {
	case "@daily":
		return t.Add(24 * time.Hour), nil
	case "@hourly":
		return t.Add(time.Hour), nil
	default:
		expr, err := cronexpr.Parse(spec)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid cron spec %q: %w", spec, err)
		}
		next := expr.Next(t)
		if next.IsZero() {
			return time.Time{}, fmt.Errorf("cron spec %q never fires", spec)
		}
		return next, nil
	}
}
