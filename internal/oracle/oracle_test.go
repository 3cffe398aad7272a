package oracle

import (
	"context"
	"errors"
	"testing"

	"filegate/internal/common/logger"
	"filegate/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	status models.SubscriptionStatus
	err    error
}

func (c *fakeChecker) GetChatMemberStatus(_ context.Context, _ string, _ int64) (models.SubscriptionStatus, error) {
	return c.status, c.err
}

func TestOracle_IsExempt(t *testing.T) {
	tests := []struct {
		name    string
		checker *fakeChecker
		exempt  bool
	}{
		{name: "member", checker: &fakeChecker{status: models.StatusMember}, exempt: true},
		{name: "administrator", checker: &fakeChecker{status: models.StatusAdmin}, exempt: true},
		{name: "creator", checker: &fakeChecker{status: models.StatusOwner}, exempt: true},
		{name: "non-member", checker: &fakeChecker{status: models.StatusNone}, exempt: false},
		{name: "unknown status", checker: &fakeChecker{status: models.StatusUnknown}, exempt: false},
		{
			name:    "transport error fails closed",
			checker: &fakeChecker{status: models.StatusUnknown, err: errors.New("rate limited")},
			exempt:  false,
		},
		{
			name:    "error with member status still fails closed",
			checker: &fakeChecker{status: models.StatusMember, err: errors.New("timeout")},
			exempt:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(tt.checker, "@channel", logger.NewTestLogger(t))
			// Never panics, never returns an error: the bool is the whole contract.
			assert.Equal(t, tt.exempt, o.IsExempt(context.Background(), 42))
		})
	}
}
