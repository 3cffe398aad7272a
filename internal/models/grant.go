package models

import "time"

// AccessGrant is a time-bounded entitlement letting a user bypass the
// subscription requirement. At most one active grant exists per
// (userId, token) pair; a grant is active iff now < ExpiresAt.
type AccessGrant struct {
	UserID    int64     `json:"userId"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Active reports whether the grant is still usable at the given instant.
func (g *AccessGrant) Active(now time.Time) bool {
	return now.Before(g.ExpiresAt)
}
