// Package worker runs the collector repeatedly on a fixed interval.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const logFieldWorker = "worker"

// Config configures a repeating loop.
type Config struct {
	// Name identifies the loop in logs.
	Name string

	// Interval is the pause between the end of one run and the start of the next.
	Interval time.Duration

	// Run does one unit of work. Errors are logged and the loop continues.
	Run func(ctx context.Context) error

	Logger *zerolog.Logger
}

// Loop calls cfg.Run immediately and then after every Interval until ctx is
// canceled. Runs never overlap: a slow run delays the next one.
func Loop(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	logger.Info().Str(logFieldWorker, cfg.Name).Dur("interval", cfg.Interval).Msg("starting worker loop")
	defer logger.Info().Str(logFieldWorker, cfg.Name).Msg("worker loop stopped")

	for {
		if err := cfg.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("worker loop %s: %w", cfg.Name, ctx.Err())
			}

			logger.Error().Err(err).Str(logFieldWorker, cfg.Name).Msg("run failed")
		}

		if err := Wait(ctx, cfg.Interval); err != nil {
			return fmt.Errorf("worker loop %s: %w", cfg.Name, err)
		}
	}
}

// Wait blocks for d or until ctx is canceled.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
