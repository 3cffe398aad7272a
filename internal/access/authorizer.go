package access

import (
	"context"
	"errors"

	"filegate/internal/common/logger"
	"filegate/internal/models"
)

// ExemptionOracle answers whether a user may skip the token gate entirely.
type ExemptionOracle interface {
	IsExempt(ctx context.Context, userID int64) bool
}

// GrantSource resolves active grants for the token path.
type GrantSource interface {
	ActiveGrant(ctx context.Context, userID int64, token string) (*models.AccessGrant, error)
}

// Authorizer computes a single AuthorizationDecision per inbound action:
// owner or subscriber -> exempt, active grant -> token granted, else denied.
// Handlers thread the decision through instead of re-checking state.
type Authorizer struct {
	oracle  ExemptionOracle
	grants  GrantSource
	isOwner func(userID int64) bool
	logger  logger.Logger
}

func NewAuthorizer(oracle ExemptionOracle, grants GrantSource, isOwner func(int64) bool, log logger.Logger) *Authorizer {
	return &Authorizer{
		oracle:  oracle,
		grants:  grants,
		isOwner: isOwner,
		logger:  log.WithFields(map[string]interface{}{"component": "authorizer"}),
	}
}

// Authorize decides whether userID may perform a gated action. token may be
// empty when the user never redeemed one. Only store failures surface as
// errors; a failed oracle or an invalid token both fold into the decision.
func (a *Authorizer) Authorize(ctx context.Context, userID int64, token string) (models.AuthorizationDecision, error) {
	if a.isOwner != nil && a.isOwner(userID) {
		return models.Exempt(), nil
	}

	if a.oracle.IsExempt(ctx, userID) {
		return models.Exempt(), nil
	}

	grant, err := a.grants.ActiveGrant(ctx, userID, token)
	if errors.Is(err, ErrInvalidToken) {
		return models.Denied(), nil
	}
	if err != nil {
		return models.Denied(), err
	}

	return models.TokenGranted(grant.ExpiresAt), nil
}
