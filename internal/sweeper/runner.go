package sweeper

import (
	"context"
	"time"

	"filegate/internal/common/logger"
	"filegate/internal/models"
)

// Runner invokes the sweeper on a fixed interval until the context is
// cancelled. Scheduling lives here so the sweeper itself stays a pure function
// of now and store state.
type Runner struct {
	sweeper  *Sweeper
	interval time.Duration
	clock    models.Clock
	logger   logger.Logger
}

func NewRunner(sw *Sweeper, interval time.Duration, clock models.Clock, log logger.Logger) *Runner {
	return &Runner{
		sweeper:  sw,
		interval: interval,
		clock:    clock,
		logger:   log.WithFields(map[string]interface{}{"component": "sweep-runner"}),
	}
}

func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("sweep runner started", map[string]interface{}{
		"interval": r.interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("sweep runner stopped", nil)
			return
		case <-ticker.C:
			count, err := r.sweeper.Sweep(ctx, r.clock.Now())
			if err != nil {
				r.logger.WithError(err).Error("sweep failed", nil)
				continue
			}
			r.logger.Debug("sweep completed", map[string]interface{}{
				"reclaimed": count,
			})
		}
	}
}
