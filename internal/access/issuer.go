// Package access implements the token gate: issuing time-bounded grants and
// deciding, once per inbound action, whether a user may pass.
package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"filegate/internal/common/logger"
	"filegate/internal/common/metrics"
	"filegate/internal/models"
	"filegate/internal/store"
)

// ErrInvalidToken reports that no active grant exists for a (userId, token)
// pair, whether because it never existed or because it expired.
var ErrInvalidToken = errors.New("access: invalid or expired token")

// Issuer creates and checks access grants. Expired grants are deleted eagerly
// on validation; the sweeper never needs to scan them.
type Issuer struct {
	grants *store.GrantStore
	clock  models.Clock
	ids    models.IDGenerator
	logger logger.Logger
}

func NewIssuer(grants *store.GrantStore, clock models.Clock, ids models.IDGenerator, log logger.Logger) *Issuer {
	return &Issuer{
		grants: grants,
		clock:  clock,
		ids:    ids,
		logger: log.WithFields(map[string]interface{}{"component": "issuer"}),
	}
}

// Issue creates a grant expiring ttl from now and returns its token. The TTL
// is policy passed by the caller, not baked in here.
func (i *Issuer) Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	now := i.clock.Now()
	grant := &models.AccessGrant{
		UserID:    userID,
		Token:     i.ids.New(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := i.grants.Put(ctx, grant, ttl); err != nil {
		return "", fmt.Errorf("issue grant: %w", err)
	}

	metrics.TokensIssued.Inc()
	i.logger.Info("token issued", map[string]interface{}{
		"userId":    userID,
		"expiresAt": grant.ExpiresAt,
	})
	return grant.Token, nil
}

// Validate reports whether the (userId, token) pair holds an active grant.
// An expired grant is deleted on sight so it can never resurrect. Store
// failures propagate; the caller decides how to surface them.
func (i *Issuer) Validate(ctx context.Context, userID int64, token string) (bool, error) {
	_, err := i.ActiveGrant(ctx, userID, token)
	if errors.Is(err, ErrInvalidToken) {
		metrics.TokenValidations.WithLabelValues("rejected").Inc()
		return false, nil
	}
	if err != nil {
		metrics.TokenValidations.WithLabelValues("error").Inc()
		return false, err
	}
	metrics.TokenValidations.WithLabelValues("accepted").Inc()
	return true, nil
}

// ActiveGrant returns the active grant for a (userId, token) pair, or
// ErrInvalidToken when none exists.
func (i *Issuer) ActiveGrant(ctx context.Context, userID int64, token string) (*models.AccessGrant, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	grant, err := i.grants.Get(ctx, userID, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("look up grant: %w", err)
	}

	if !grant.Active(i.clock.Now()) {
		// Eager cleanup; the answer does not depend on the delete succeeding.
		if err := i.grants.Delete(ctx, userID, token); err != nil {
			i.logger.WithError(err).Warn("failed to delete expired grant", map[string]interface{}{
				"userId": userID,
			})
		}
		return nil, ErrInvalidToken
	}

	return grant, nil
}
