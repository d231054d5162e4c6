package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Curva95/discord-bot/clients"
	"github.com/Curva95/discord-bot/core"
	"github.com/Curva95/discord-bot/models"
)

const (
	auditColorGranted = 0x2ecc71
	auditColorRevoked = 0xe74c3c
)

// notFoundCodes are the Discord JSON error codes for entities that do not exist
var notFoundCodes = map[int]bool{
	discordgo.ErrCodeUnknownChannel: true,
	discordgo.ErrCodeUnknownGuild:   true,
	discordgo.ErrCodeUnknownMember:  true,
	discordgo.ErrCodeUnknownMessage: true,
	discordgo.ErrCodeUnknownRole:    true,
	discordgo.ErrCodeUnknownUser:    true,
	discordgo.ErrCodeUnknownEmoji:   true,
}

// absentActorCodes are the error codes a role mutation returns when the user left the guild.
// Anything else, including an unknown role, is a failed action.
var absentActorCodes = map[int]bool{
	discordgo.ErrCodeUnknownMember: true,
	discordgo.ErrCodeUnknownUser:   true,
}

// DiscordClient implements the clients.DiscordClient interface on top of a discordgo session
type DiscordClient struct {
	session *discordgo.Session
}

// NewDiscordClient creates a new Discord client backed by the given session
func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

func (c *DiscordClient) FetchMessage(ctx context.Context, channelID, messageID string) (*models.DiscordMessage, error) {
	message, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError("failed to fetch message", err)
	}

	guildID := message.GuildID
	if guildID == "" {
		// REST message payloads omit guild_id; resolve it through the channel
		channel, err := c.GetChannel(ctx, channelID)
		if err != nil {
			return nil, err
		}
		guildID = channel.GuildID
	}

	return &models.DiscordMessage{
		ID:        message.ID,
		ChannelID: message.ChannelID,
		GuildID:   guildID,
	}, nil
}

func (c *DiscordClient) GetRole(ctx context.Context, guildID, roleID string) (*models.DiscordRole, error) {
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError("failed to list guild roles", err)
	}

	for _, role := range roles {
		if role.ID == roleID {
			return &models.DiscordRole{
				ID:      role.ID,
				Name:    role.Name,
				Managed: role.Managed,
			}, nil
		}
	}

	return nil, core.NotFoundf("role %s does not exist in guild %s", roleID, guildID)
}

func (c *DiscordClient) GetChannel(ctx context.Context, channelID string) (*models.DiscordChannel, error) {
	channel, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError("failed to fetch channel", err)
	}

	return &models.DiscordChannel{
		ID:      channel.ID,
		Name:    channel.Name,
		GuildID: channel.GuildID,
		IsText:  isTextChannel(channel),
	}, nil
}

func (c *DiscordClient) GetMember(ctx context.Context, guildID, userID string) (*models.DiscordMember, error) {
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError("failed to fetch guild member", err)
	}

	result := &models.DiscordMember{UserID: userID}
	if member.User != nil {
		result.Bot = member.User.Bot
	}
	return result, nil
}

func (c *DiscordClient) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return mapMutationError("failed to grant role", err)
	}
	return nil
}

func (c *DiscordClient) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return mapMutationError("failed to revoke role", err)
	}
	return nil
}

// AddReaction reacts to a message. emojiKey is the normalized key ("name:id" or unicode),
// which is also the form the reactions endpoint expects.
func (c *DiscordClient) AddReaction(ctx context.Context, channelID, messageID, emojiKey string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emojiKey, discordgo.WithContext(ctx)); err != nil {
		return mapError("failed to add reaction", err)
	}
	return nil
}

func (c *DiscordClient) SendAuditRecord(ctx context.Context, channelID string, record models.AuditRecord) error {
	embed := buildAuditEmbed(record)
	if _, err := c.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: %w", core.ErrAuditDelivery, mapError("failed to send audit embed", err))
	}
	return nil
}

func buildAuditEmbed(record models.AuditRecord) *discordgo.MessageEmbed {
	title := "Role granted"
	color := auditColorGranted
	if record.Direction == models.ReactionDirectionRemove {
		title = "Role removed"
		color = auditColorRevoked
	}

	timestamp := record.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", record.ActorID), Inline: true},
			{Name: "Role", Value: fmt.Sprintf("<@&%s>", record.RoleID), Inline: true},
			{Name: "Emoji", Value: core.EmojiFromKey(record.EmojiKey).Display(), Inline: true},
			{Name: "Message", Value: messageLink(record.ScopeID, record.ChannelID, record.MessageID)},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: record.ID},
		Timestamp: timestamp.UTC().Format(time.RFC3339),
	}
}

func messageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

func isTextChannel(channel *discordgo.Channel) bool {
	switch channel.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return true
	}
	return channel.IsThread()
}

// mapError converts "unknown entity" responses into core.ErrNotFound and everything else into
// core.ErrPlatformAction
func mapError(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil && notFoundCodes[restErr.Message.Code] {
			return fmt.Errorf("%s: %w: %s", op, core.ErrNotFound, restErr.Message.Message)
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", op, core.ErrNotFound)
		}
	}
	return core.PlatformAction(op, err)
}

// mapMutationError converts a role mutation failure into core.ErrActorAbsent when the user is gone
// and core.ErrPlatformAction otherwise
func mapMutationError(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && absentActorCodes[restErr.Message.Code] {
		return core.ActorAbsent(op, err)
	}
	return core.PlatformAction(op, err)
}
