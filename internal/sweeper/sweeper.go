// Package sweeper reclaims leases whose renewal grace window has passed.
package sweeper

import (
	"context"
	"errors"
	"time"

	"filegate/internal/common/logger"
	"filegate/internal/common/metrics"
	"filegate/internal/models"
	"filegate/internal/store"
	"filegate/internal/transport"

	"github.com/prometheus/client_golang/prometheus"
)

// ArchiveReleaser removes the archived copy of a reclaimed lease, best effort.
type ArchiveReleaser interface {
	DeleteMessage(ctx context.Context, chatID int64, messageRef string) error
}

// Sweeper tombstones leases past expiry plus grace. It holds no timer state;
// Sweep is a function of now and the store contents, invoked by the Runner or
// directly in tests.
type Sweeper struct {
	leases           *store.LeaseStore
	releaser         ArchiveReleaser
	archiveChannelID int64
	grace            time.Duration
	logger           logger.Logger
}

func New(leases *store.LeaseStore, releaser ArchiveReleaser, archiveChannelID int64, grace time.Duration, log logger.Logger) *Sweeper {
	return &Sweeper{
		leases:           leases,
		releaser:         releaser,
		archiveChannelID: archiveChannelID,
		grace:            grace,
		logger:           log.WithFields(map[string]interface{}{"component": "sweeper"}),
	}
}

// Sweep reclaims every lease with a non-cleared file reference whose expiry
// plus grace is behind now, and returns the number reclaimed. Rows are
// tombstoned, never deleted. The expiry predicate is re-checked inside the
// conditional update, so a lease renewed between scan and write is left alone.
// Per-lease failures are logged and skipped; they never abort the batch.
// Running Sweep twice on the same state reclaims nothing the second time.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	timer := prometheus.NewTimer(metrics.SweepDuration)
	defer timer.ObserveDuration()

	links, err := s.leases.ExpiringBefore(ctx, now.Add(-s.grace))
	if err != nil {
		return 0, err
	}

	count := 0
	for _, link := range links {
		l, err := s.leases.Get(ctx, link)
		if err != nil {
			s.logger.WithError(err).Warn("failed to load lease candidate", map[string]interface{}{
				"shareLink": link,
			})
			continue
		}
		if !l.Sweepable(now, s.grace) {
			continue
		}

		// Best effort: a failed release still tombstones the lease, otherwise
		// a dead archive message would pin the lease forever.
		if l.OriginRef != "" {
			err := s.releaser.DeleteMessage(ctx, s.archiveChannelID, l.OriginRef)
			if err != nil && !errors.Is(err, transport.ErrNotFound) {
				s.logger.WithError(err).Warn("failed to release archived copy", map[string]interface{}{
					"shareLink": link,
					"originRef": l.OriginRef,
				})
			}
		}

		_, err = s.leases.UpdateIf(ctx, link,
			func(cur *models.FileLease) bool { return cur.Sweepable(now, s.grace) },
			func(cur *models.FileLease) { cur.FileRef = "" })
		if errors.Is(err, store.ErrPredicateFailed) || errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			// Renewed or already reclaimed while we were working.
			continue
		}
		if err != nil {
			s.logger.WithError(err).Error("failed to tombstone lease", map[string]interface{}{
				"shareLink": link,
			})
			continue
		}

		count++
		metrics.LeasesReclaimed.Inc()
	}

	if count > 0 {
		s.logger.Info("sweep finished", map[string]interface{}{
			"reclaimed":  count,
			"candidates": len(links),
		})
	}
	return count, nil
}
