package models

import "time"

type ReactionDirection string

const (
	ReactionDirectionAdd    ReactionDirection = "ADD"
	ReactionDirectionRemove ReactionDirection = "REMOVE"
)

// ReactionEvent is a reaction add/remove delivered by the gateway.
// It is consumed once by the reconciler and never persisted.
type ReactionEvent struct {
	ScopeID   string
	ChannelID string
	MessageID string
	// EmojiName is the unicode string for standard emoji or the name of a custom emoji
	EmojiName string
	// EmojiID is only set for custom emoji
	EmojiID   string
	ActorID   string
	IsBot     bool
	Direction ReactionDirection
}

// ReconcileOutcome describes what the reconciler did with a reaction event.
type ReconcileOutcome string

const (
	OutcomeIgnoredBot  ReconcileOutcome = "ignored_bot"
	OutcomeNoScope     ReconcileOutcome = "no_scope"
	OutcomeUnbound     ReconcileOutcome = "unbound"
	OutcomeBlocked     ReconcileOutcome = "blocked"
	OutcomeActorAbsent ReconcileOutcome = "actor_absent"
	OutcomeGranted     ReconcileOutcome = "granted"
	OutcomeRevoked     ReconcileOutcome = "revoked"
	OutcomeFailed      ReconcileOutcome = "failed"
)

// AuditRecord is a human-readable trail entry for a grant or revoke.
type AuditRecord struct {
	ID        string
	ScopeID   string
	ChannelID string
	MessageID string
	ActorID   string
	RoleID    string
	EmojiKey  string
	Direction ReactionDirection
	Timestamp time.Time
}
