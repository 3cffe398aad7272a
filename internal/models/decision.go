package models

import "time"

// DecisionKind enumerates the outcomes of an authorization check.
type DecisionKind string

const (
	DecisionExempt       DecisionKind = "exempt"
	DecisionTokenGranted DecisionKind = "token_granted"
	DecisionDenied       DecisionKind = "denied"
)

// AuthorizationDecision is computed once per inbound action and threaded
// through subsequent checks, replacing redundant per-handler gate checks.
type AuthorizationDecision struct {
	Kind      DecisionKind `json:"kind"`
	ExpiresAt time.Time    `json:"expiresAt,omitempty"` // set for token_granted
}

// Allowed reports whether the gated action may proceed.
func (d AuthorizationDecision) Allowed() bool {
	return d.Kind == DecisionExempt || d.Kind == DecisionTokenGranted
}

// Exempt is the decision for subscribed or owner users.
func Exempt() AuthorizationDecision {
	return AuthorizationDecision{Kind: DecisionExempt}
}

// TokenGranted is the decision for users holding an active access grant.
func TokenGranted(expiresAt time.Time) AuthorizationDecision {
	return AuthorizationDecision{Kind: DecisionTokenGranted, ExpiresAt: expiresAt}
}

// Denied is the decision for users passing neither gate.
func Denied() AuthorizationDecision {
	return AuthorizationDecision{Kind: DecisionDenied}
}
