package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"filegate/internal/models"

	"github.com/redis/go-redis/v9"
)

const maxTxRetries = 3

// LeaseStore persists file leases keyed by share link. Leases that still hold
// a file reference are additionally indexed in a sorted set scored by expiry so
// the sweeper can range-scan them. Rows are never deleted; reclaiming clears
// the file reference and drops the index entry.
type LeaseStore struct {
	rdb *redis.Client
}

func NewLeaseStore(rdb *redis.Client) *LeaseStore {
	return &LeaseStore{rdb: rdb}
}

func leaseKey(shareLink string) string {
	return leaseKeyPrefix + shareLink
}

// Put writes a new lease and its expiry index entry atomically.
func (s *LeaseStore) Put(ctx context.Context, lease *models.FileLease) error {
	data, err := json.Marshal(lease)
	if err != nil {
		return fmt.Errorf("marshal lease: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, leaseKey(lease.ShareLink), data, 0)
		pipe.ZAdd(ctx, leaseExpiryIndex, redis.Z{
			Score:  float64(lease.ExpiresAt.Unix()),
			Member: lease.ShareLink,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("write lease: %w", err)
	}
	return nil
}

// Get looks up a lease by share link. Tombstoned rows are returned as-is;
// interpreting them is the registry's concern.
func (s *LeaseStore) Get(ctx context.Context, shareLink string) (*models.FileLease, error) {
	raw, err := s.rdb.Get(ctx, leaseKey(shareLink)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read lease: %w", err)
	}

	var lease models.FileLease
	if err := json.Unmarshal([]byte(raw), &lease); err != nil {
		return nil, fmt.Errorf("decode lease: %w", err)
	}
	return &lease, nil
}

// UpdateIf applies mutate to the lease under an optimistic WATCH transaction,
// but only while check still holds at write time. This is what keeps a
// concurrent touch and sweep from clobbering each other: both re-read and
// re-check before writing, and the loser of the race retries or backs off.
// The index entry follows the mutation: tombstoned leases are dropped from the
// expiry index, renewed ones are re-scored.
func (s *LeaseStore) UpdateIf(ctx context.Context, shareLink string, check func(*models.FileLease) bool, mutate func(*models.FileLease)) (*models.FileLease, error) {
	key := leaseKey(shareLink)
	var updated *models.FileLease

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read lease: %w", err)
		}

		var lease models.FileLease
		if err := json.Unmarshal([]byte(raw), &lease); err != nil {
			return fmt.Errorf("decode lease: %w", err)
		}

		if !check(&lease) {
			return ErrPredicateFailed
		}
		mutate(&lease)

		data, err := json.Marshal(&lease)
		if err != nil {
			return fmt.Errorf("marshal lease: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if lease.Tombstoned() {
				pipe.ZRem(ctx, leaseExpiryIndex, lease.ShareLink)
			} else {
				pipe.ZAdd(ctx, leaseExpiryIndex, redis.Z{
					Score:  float64(lease.ExpiresAt.Unix()),
					Member: lease.ShareLink,
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
		updated = &lease
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

// ExpiringBefore returns share links of indexed leases whose expiry is at or
// before the cutoff. The result is a candidate set: scores are truncated to
// seconds, so callers must re-check the expiry predicate on the document
// itself before acting.
func (s *LeaseStore) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	links, err := s.rdb.ZRangeByScore(ctx, leaseExpiryIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("scan lease index: %w", err)
	}
	return links, nil
}
