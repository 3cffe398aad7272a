package access

import (
	"context"
	"fmt"
	"testing"
	"time"

	"filegate/internal/common/logger"
	"filegate/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type seqIDs struct {
	n int
}

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func newTestIssuer(t *testing.T, clock *fakeClock) (*Issuer, *store.GrantStore) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	grants := store.NewGrantStore(rdb)
	return NewIssuer(grants, clock, &seqIDs{}, logger.NewTestLogger(t)), grants
}

func TestIssuer_IssueThenValidate(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: t0}
	issuer, _ := newTestIssuer(t, clock)
	ctx := context.Background()

	token, err := issuer.Issue(ctx, 42, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Issue followed immediately by validate is always true.
	ok, err := issuer.Validate(ctx, 42, token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIssuer_ValidateLifecycle(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: t0}
	issuer, grants := newTestIssuer(t, clock)
	ctx := context.Background()

	token, err := issuer.Issue(ctx, 42, 24*time.Hour)
	require.NoError(t, err)

	// Valid one hour in.
	clock.now = t0.Add(time.Hour)
	ok, err := issuer.Validate(ctx, 42, token)
	require.NoError(t, err)
	assert.True(t, ok)

	// Expired at t0+25h: rejected and eagerly deleted.
	clock.now = t0.Add(25 * time.Hour)
	ok, err = issuer.Validate(ctx, 42, token)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = grants.Get(ctx, 42, token)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// No resurrection, even if the clock ran backwards.
	clock.now = t0.Add(time.Hour)
	ok, err = issuer.Validate(ctx, 42, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIssuer_ValidateRejections(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: t0}
	issuer, _ := newTestIssuer(t, clock)
	ctx := context.Background()

	token, err := issuer.Issue(ctx, 42, 24*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID int64
		token  string
	}{
		{name: "unknown token", userID: 42, token: "forged"},
		{name: "wrong user", userID: 99, token: token},
		{name: "empty token", userID: 42, token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := issuer.Validate(ctx, tt.userID, tt.token)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestIssuer_ActiveGrantCarriesExpiry(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: t0}
	issuer, _ := newTestIssuer(t, clock)
	ctx := context.Background()

	token, err := issuer.Issue(ctx, 42, 24*time.Hour)
	require.NoError(t, err)

	grant, err := issuer.ActiveGrant(ctx, 42, token)
	require.NoError(t, err)
	assert.True(t, grant.ExpiresAt.Equal(t0.Add(24*time.Hour)))

	_, err = issuer.ActiveGrant(ctx, 42, "forged")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_TokensAreUniquePerIssue(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: t0}
	issuer, _ := newTestIssuer(t, clock)
	ctx := context.Background()

	t1, err := issuer.Issue(ctx, 42, 24*time.Hour)
	require.NoError(t, err)
	t2, err := issuer.Issue(ctx, 42, 24*time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	// Both grants are active; each validates independently.
	ok, err := issuer.Validate(ctx, 42, t1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = issuer.Validate(ctx, 42, t2)
	require.NoError(t, err)
	assert.True(t, ok)
}
