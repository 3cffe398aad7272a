package models

// SubscriptionStatus is the ephemeral result of querying the external
// membership oracle. It is never persisted.
type SubscriptionStatus string

const (
	StatusMember  SubscriptionStatus = "member"
	StatusAdmin   SubscriptionStatus = "administrator"
	StatusOwner   SubscriptionStatus = "creator"
	StatusNone    SubscriptionStatus = "none"
	StatusUnknown SubscriptionStatus = "unknown"
)

// Exempts reports whether the status bypasses the token gate. Unknown is
// treated as none (fail closed).
func (s SubscriptionStatus) Exempts() bool {
	switch s {
	case StatusMember, StatusAdmin, StatusOwner:
		return true
	}
	return false
}
