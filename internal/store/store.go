// Package store persists access grants and file leases in Redis. It is the
// only layer that talks to the document store; all mutations racing with the
// sweeper go through conditional find-and-update transactions.
package store

import "errors"

const (
	grantKeyPrefix   = "grant:"
	leaseKeyPrefix   = "lease:"
	leaseExpiryIndex = "leases:by-expiry"
)

var (
	// ErrNotFound is returned when no document exists under the requested key.
	ErrNotFound = errors.New("store: not found")

	// ErrPredicateFailed is returned by conditional updates when the stored
	// document no longer satisfies the caller's predicate.
	ErrPredicateFailed = errors.New("store: predicate no longer holds")

	// ErrConflict is returned when an optimistic transaction kept losing to
	// concurrent writers.
	ErrConflict = errors.New("store: concurrent modification")
)
