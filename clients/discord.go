package clients

import (
	"context"

	"github.com/Curva95/discord-bot/models"
)

// DiscordClient defines the interface for Discord API operations the bot performs
type DiscordClient interface {
	// Lookups. Unknown entities return an error wrapping core.ErrNotFound.
	FetchMessage(ctx context.Context, channelID, messageID string) (*models.DiscordMessage, error)
	GetRole(ctx context.Context, guildID, roleID string) (*models.DiscordRole, error)
	GetChannel(ctx context.Context, channelID string) (*models.DiscordChannel, error)
	GetMember(ctx context.Context, guildID, userID string) (*models.DiscordMember, error)

	// Role operations
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	RevokeRole(ctx context.Context, guildID, userID, roleID string) error

	// Message operations
	AddReaction(ctx context.Context, channelID, messageID, emojiKey string) error
	SendAuditRecord(ctx context.Context, channelID string, record models.AuditRecord) error
}
