package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"filegate/internal/models"

	"github.com/redis/go-redis/v9"
)

// GrantStore persists access grants keyed by (userId, token). Expired grants
// are removed eagerly by the validator; a native Redis TTL set to twice the
// grant lifetime backstops anything the validator never sees again.
type GrantStore struct {
	rdb *redis.Client
}

func NewGrantStore(rdb *redis.Client) *GrantStore {
	return &GrantStore{rdb: rdb}
}

func grantKey(userID int64, token string) string {
	return fmt.Sprintf("%s%d:%s", grantKeyPrefix, userID, token)
}

// Put writes a grant. ttl is the grant lifetime; the key backstop expiry is 2x.
func (s *GrantStore) Put(ctx context.Context, grant *models.AccessGrant, ttl time.Duration) error {
	data, err := json.Marshal(grant)
	if err != nil {
		return fmt.Errorf("marshal grant: %w", err)
	}
	if err := s.rdb.Set(ctx, grantKey(grant.UserID, grant.Token), data, 2*ttl).Err(); err != nil {
		return fmt.Errorf("write grant: %w", err)
	}
	return nil
}

// Get looks up the grant for a (userId, token) pair.
func (s *GrantStore) Get(ctx context.Context, userID int64, token string) (*models.AccessGrant, error) {
	raw, err := s.rdb.Get(ctx, grantKey(userID, token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read grant: %w", err)
	}

	var grant models.AccessGrant
	if err := json.Unmarshal([]byte(raw), &grant); err != nil {
		return nil, fmt.Errorf("decode grant: %w", err)
	}
	return &grant, nil
}

// Delete removes the grant for a (userId, token) pair. Deleting an absent
// grant is not an error.
func (s *GrantStore) Delete(ctx context.Context, userID int64, token string) error {
	if err := s.rdb.Del(ctx, grantKey(userID, token)).Err(); err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	return nil
}

func currentKey(userID int64) string {
	return fmt.Sprintf("%scurrent:%d", grantKeyPrefix, userID)
}

// SetCurrent remembers the token a user last redeemed, so gated actions can be
// checked without the user resending it. The pointer carries the same backstop
// expiry as the grant itself.
func (s *GrantStore) SetCurrent(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, currentKey(userID), token, 2*ttl).Err(); err != nil {
		return fmt.Errorf("write current token: %w", err)
	}
	return nil
}

// CurrentToken returns the user's last redeemed token, or "" when none is
// remembered.
func (s *GrantStore) CurrentToken(ctx context.Context, userID int64) (string, error) {
	token, err := s.rdb.Get(ctx, currentKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read current token: %w", err)
	}
	return token, nil
}
