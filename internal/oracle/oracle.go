// Package oracle answers the single question "may this user skip the token
// gate" by consulting the external membership service.
package oracle

import (
	"context"

	"filegate/internal/common/logger"
	"filegate/internal/common/metrics"
	"filegate/internal/models"
)

// MemberChecker is the slice of the transport the oracle needs.
type MemberChecker interface {
	GetChatMemberStatus(ctx context.Context, channelRef string, userID int64) (models.SubscriptionStatus, error)
}

// Oracle checks channel membership for the configured force-sub channel.
// It fails closed: every transport error degrades to "not exempt", never to an
// error reaching the caller. One attempt per invocation; callers re-invoke on
// the next user action.
type Oracle struct {
	checker MemberChecker
	channel string
	logger  logger.Logger
}

func New(checker MemberChecker, channel string, log logger.Logger) *Oracle {
	return &Oracle{
		checker: checker,
		channel: channel,
		logger:  log.WithFields(map[string]interface{}{"component": "oracle"}),
	}
}

// IsExempt reports whether the user's membership status bypasses the token
// gate.
func (o *Oracle) IsExempt(ctx context.Context, userID int64) bool {
	status, err := o.checker.GetChatMemberStatus(ctx, o.channel, userID)
	if err != nil {
		metrics.OracleFailures.Inc()
		o.logger.WithError(err).Warn("membership check failed, treating as not exempt", map[string]interface{}{
			"userId":  userID,
			"channel": o.channel,
		})
		return false
	}
	return status.Exempts()
}
