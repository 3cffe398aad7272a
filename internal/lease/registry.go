// Package lease implements the file lease registry: creating leases for
// archived files, resolving share links, and renewing expiry on access.
package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"filegate/internal/common/logger"
	"filegate/internal/common/metrics"
	"filegate/internal/models"
	"filegate/internal/store"
	"filegate/internal/transport"
)

var (
	// ErrLeaseNotFound reports that no servable lease exists for a share link,
	// including tombstoned rows kept for audit.
	ErrLeaseNotFound = errors.New("lease: not found")

	// ErrOriginGone reports that the archived origin no longer resolves; the
	// lease is tombstoned in response.
	ErrOriginGone = errors.New("lease: origin gone")

	// ErrOriginUnavailable reports a transient re-archive failure. The lease
	// state is left untouched so the caller can retry.
	ErrOriginUnavailable = errors.New("lease: origin unavailable")
)

// Origin refreshes the archived copy backing a lapsed lease and returns the
// new origin reference. Implementations return ErrOriginGone when the file
// reference no longer resolves upstream.
type Origin interface {
	Refresh(ctx context.Context, l *models.FileLease) (string, error)
}

// Registry owns lease lifecycle. Authorization is the caller's responsibility;
// by the time a request reaches here it has already passed the gate.
type Registry struct {
	leases   *store.LeaseStore
	origin   Origin
	duration time.Duration
	clock    models.Clock
	ids      models.IDGenerator
	logger   logger.Logger
}

func NewRegistry(leases *store.LeaseStore, origin Origin, duration time.Duration, clock models.Clock, ids models.IDGenerator, log logger.Logger) *Registry {
	return &Registry{
		leases:   leases,
		origin:   origin,
		duration: duration,
		clock:    clock,
		ids:      ids,
		logger:   log.WithFields(map[string]interface{}{"component": "lease-registry"}),
	}
}

// Store creates a lease for a freshly archived file and returns its share
// link. expiresAt is always in the future on return.
func (r *Registry) Store(ctx context.Context, ownerID int64, fileRef, originRef string) (string, error) {
	now := r.clock.Now()
	l := &models.FileLease{
		ShareLink: r.ids.New(),
		OwnerID:   ownerID,
		FileRef:   fileRef,
		OriginRef: originRef,
		CreatedAt: now,
		ExpiresAt: now.Add(r.duration),
	}

	if err := r.leases.Put(ctx, l); err != nil {
		return "", fmt.Errorf("store lease: %w", err)
	}

	metrics.LeasesStored.Inc()
	r.logger.Info("lease stored", map[string]interface{}{
		"shareLink": l.ShareLink,
		"ownerId":   ownerID,
		"expiresAt": l.ExpiresAt,
	})
	return l.ShareLink, nil
}

// Resolve is a pure lookup. Tombstoned rows resolve as not found even though
// they still exist in the store.
func (r *Registry) Resolve(ctx context.Context, shareLink string) (*models.FileLease, error) {
	l, err := r.leases.Get(ctx, shareLink)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrLeaseNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.Tombstoned() {
		return nil, ErrLeaseNotFound
	}
	return l, nil
}

// Touch is called on a successful serve. A live lease passes through
// unchanged; a lapsed one is refreshed from the archive and renewed for a full
// lease duration from now. When the origin no longer resolves the lease is
// tombstoned instead and subsequent resolves return not found.
func (r *Registry) Touch(ctx context.Context, shareLink string) (*models.FileLease, error) {
	l, err := r.Resolve(ctx, shareLink)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	if !l.Lapsed(now) {
		return l, nil
	}

	originRef, err := r.origin.Refresh(ctx, l)
	if errors.Is(err, ErrOriginGone) {
		r.logger.Info("origin gone, tombstoning lease", map[string]interface{}{
			"shareLink": shareLink,
		})
		r.tombstone(ctx, shareLink)
		return nil, ErrLeaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOriginUnavailable, err)
	}

	renewed, err := r.leases.UpdateIf(ctx, shareLink,
		func(cur *models.FileLease) bool { return !cur.Tombstoned() },
		func(cur *models.FileLease) {
			cur.OriginRef = originRef
			cur.ExpiresAt = now.Add(r.duration)
		})
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrPredicateFailed) {
		// Swept out from under us between resolve and renew.
		return nil, ErrLeaseNotFound
	}
	if err != nil {
		return nil, err
	}

	metrics.LeasesRenewed.Inc()
	r.logger.Info("lease renewed", map[string]interface{}{
		"shareLink": shareLink,
		"expiresAt": renewed.ExpiresAt,
	})
	return renewed, nil
}

func (r *Registry) tombstone(ctx context.Context, shareLink string) {
	_, err := r.leases.UpdateIf(ctx, shareLink,
		func(cur *models.FileLease) bool { return !cur.Tombstoned() },
		func(cur *models.FileLease) { cur.FileRef = "" })
	if err != nil && !errors.Is(err, store.ErrPredicateFailed) && !errors.Is(err, store.ErrNotFound) {
		r.logger.WithError(err).Error("failed to tombstone lease", map[string]interface{}{
			"shareLink": shareLink,
		})
	}
}

// ArchiveOrigin refreshes leases by re-sending the file to the archive
// channel, yielding a new origin message.
type ArchiveOrigin struct {
	sender    FileSender
	channelID int64
}

// FileSender is the slice of the transport the origin needs.
type FileSender interface {
	SendFile(ctx context.Context, chatID int64, fileRef string) (string, error)
}

func NewArchiveOrigin(sender FileSender, channelID int64) *ArchiveOrigin {
	return &ArchiveOrigin{sender: sender, channelID: channelID}
}

func (a *ArchiveOrigin) Refresh(ctx context.Context, l *models.FileLease) (string, error) {
	ref, err := a.sender.SendFile(ctx, a.channelID, l.FileRef)
	if errors.Is(err, transport.ErrNotFound) {
		return "", ErrOriginGone
	}
	if err != nil {
		return "", err
	}
	return ref, nil
}
