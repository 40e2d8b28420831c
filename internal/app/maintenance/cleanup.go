package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/uiforge/uiforge/internal/services"
	"github.com/uiforge/uiforge/pkg/logger"
)

const defaultSweepSpec = "@hourly"

// Cleaner periodically removes expired login codes so the table stays small even
// when addresses request codes and never verify them.
type Cleaner struct {
	otp  *services.OTPService
	cron *cron.Cron
	log  *zap.Logger

	sweepSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithSweepSchedule overrides the cron specification for the code sweep.
func WithSweepSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.sweepSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. A nil passcode service
// results in the sweep job being skipped.
func NewCleaner(otp *services.OTPService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		otp:           otp,
		sweepSchedule: defaultSweepSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the sweep job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.otp == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.sweepSchedule, func() {
		ctx := context.Background()
		removed, err := c.otp.SweepExpired(ctx)
		if err != nil {
			c.log.Warn("login code sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			c.log.Info("swept expired login codes", zap.Int64("removed", removed))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially. Primarily used in
// tests and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.otp != nil {
		if _, err := c.otp.SweepExpired(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
