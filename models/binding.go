package models

import "time"

// Binding maps a reaction (scope, message, emoji) to the role it grants.
type Binding struct {
	ID        string    `json:"id"         db:"id"`
	ScopeID   string    `json:"scope_id"   db:"scope_id"`
	ChannelID string    `json:"channel_id" db:"channel_id"`
	MessageID string    `json:"message_id" db:"message_id"`
	EmojiKey  string    `json:"emoji_key"  db:"emoji_key"`
	RoleID    string    `json:"role_id"    db:"role_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AuditDestination is the channel that receives audit records for a scope.
type AuditDestination struct {
	ScopeID   string    `json:"scope_id"   db:"scope_id"`
	ChannelID string    `json:"channel_id" db:"channel_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StoreHealth is the result of a datastore liveness probe.
type StoreHealth struct {
	DatabaseTime time.Time
	Latency      time.Duration
}
