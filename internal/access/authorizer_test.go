package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"filegate/internal/common/logger"
	"filegate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	exempt bool
}

func (o *fakeOracle) IsExempt(_ context.Context, _ int64) bool { return o.exempt }

type fakeGrants struct {
	grant *models.AccessGrant
	err   error
}

func (g *fakeGrants) ActiveGrant(_ context.Context, _ int64, _ string) (*models.AccessGrant, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.grant, nil
}

func TestAuthorizer_Decisions(t *testing.T) {
	expiresAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owners := func(id int64) bool { return id == 1 }

	tests := []struct {
		name     string
		userID   int64
		oracle   *fakeOracle
		grants   *fakeGrants
		expected models.DecisionKind
	}{
		{
			name:     "owner is exempt without any lookups",
			userID:   1,
			oracle:   &fakeOracle{exempt: false},
			grants:   &fakeGrants{err: ErrInvalidToken},
			expected: models.DecisionExempt,
		},
		{
			name:     "subscriber is exempt",
			userID:   42,
			oracle:   &fakeOracle{exempt: true},
			grants:   &fakeGrants{err: ErrInvalidToken},
			expected: models.DecisionExempt,
		},
		{
			name:   "active grant passes the token gate",
			userID: 42,
			oracle: &fakeOracle{exempt: false},
			grants: &fakeGrants{grant: &models.AccessGrant{
				UserID:    42,
				Token:     "tok-1",
				ExpiresAt: expiresAt,
			}},
			expected: models.DecisionTokenGranted,
		},
		{
			name:     "no subscription and no grant is denied",
			userID:   42,
			oracle:   &fakeOracle{exempt: false},
			grants:   &fakeGrants{err: ErrInvalidToken},
			expected: models.DecisionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthorizer(tt.oracle, tt.grants, owners, logger.NewTestLogger(t))

			decision, err := a.Authorize(context.Background(), tt.userID, "tok-1")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, decision.Kind)

			if tt.expected == models.DecisionTokenGranted {
				assert.True(t, decision.ExpiresAt.Equal(expiresAt))
				assert.True(t, decision.Allowed())
			}
			if tt.expected == models.DecisionDenied {
				assert.False(t, decision.Allowed())
			}
		})
	}
}

func TestAuthorizer_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	a := NewAuthorizer(&fakeOracle{}, &fakeGrants{err: storeErr}, nil, logger.NewTestLogger(t))

	decision, err := a.Authorize(context.Background(), 42, "tok-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, models.DecisionDenied, decision.Kind)
}
