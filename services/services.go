package services

import (
	"context"

	"github.com/samber/mo"

	"github.com/Curva95/discord-bot/models"
)

// BindingsService is the binding registry: reaction bindings and audit destinations per scope
type BindingsService interface {
	UpsertBinding(
		ctx context.Context,
		scopeID, channelID, messageID, emojiKey, roleID string,
	) (*models.Binding, error)
	DeleteBinding(ctx context.Context, scopeID, messageID string) (int64, error)
	LookupBinding(ctx context.Context, scopeID, messageID, emojiKey string) (mo.Option[string], error)
	ListBindings(ctx context.Context, scopeID string) ([]*models.Binding, error)
	SetAuditDestination(ctx context.Context, scopeID, channelID string) error
	GetAuditDestination(ctx context.Context, scopeID string) (mo.Option[string], error)
	CheckHealth(ctx context.Context) (*models.StoreHealth, error)
}

// SettingsService defines the interface for versioned per-scope settings
type SettingsService interface {
	UpsertBooleanSetting(ctx context.Context, scopeID, key string, value bool) error
	GetBooleanSetting(ctx context.Context, scopeID, key string) (mo.Option[bool], error)
	GetStringArraySetting(ctx context.Context, scopeID, key string) ([]string, error)
	AddToStringArraySetting(ctx context.Context, scopeID, key, value string) (bool, error)
	RemoveFromStringArraySetting(ctx context.Context, scopeID, key, value string) (bool, error)
}

// AuditSink accepts audit records without blocking the caller
type AuditSink interface {
	Publish(record models.AuditRecord)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
