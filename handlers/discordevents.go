package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"

	"github.com/Curva95/discord-bot/middleware"
	"github.com/Curva95/discord-bot/models"
	"github.com/Curva95/discord-bot/usecases"
	"github.com/Curva95/discord-bot/utils"
)

const commandTimeout = 30 * time.Second

type DiscordEventsConfig struct {
	ApplicationID string
	// GuildID registers slash commands for one guild only; empty registers them globally
	GuildID          string
	CommandPrefix    string
	RegisterCommands bool
}

type DiscordEventsHandler struct {
	session          *discordgo.Session
	reactionsUseCase usecases.ReactionsUseCaseInterface
	adminUseCase     usecases.AdminUseCaseInterface
	alertMiddleware  *middleware.ErrorAlertMiddleware
	pool             *workerpool.WorkerPool
	config           DiscordEventsConfig

	mu        sync.RWMutex
	botUserID string
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	reactionsUseCase usecases.ReactionsUseCaseInterface,
	adminUseCase usecases.AdminUseCaseInterface,
	alertMiddleware *middleware.ErrorAlertMiddleware,
	pool *workerpool.WorkerPool,
	config DiscordEventsConfig,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		session:          session,
		reactionsUseCase: reactionsUseCase,
		adminUseCase:     adminUseCase,
		alertMiddleware:  alertMiddleware,
		pool:             pool,
		config:           config,
	}

	session.AddHandler(handler.handleReadyEvent)
	session.AddHandler(handler.handleReactionAddedEvent)
	session.AddHandler(handler.handleReactionRemovedEvent)
	session.AddHandler(handler.handleMessageCreatedEvent)
	session.AddHandler(handler.handleMessageDeletedEvent)
	session.AddHandler(handler.handleInteractionCreatedEvent)

	// Message content is needed for prefixed text commands
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot closes the gateway connection and waits for in-flight events to finish
func (h *DiscordEventsHandler) StopBot() {
	if err := h.session.Close(); err != nil {
		log.Printf("⚠️ Failed to close Discord session cleanly: %v", err)
	}
	h.pool.StopWait()
	log.Printf("🤖 Discord bot stopped")
}

func (h *DiscordEventsHandler) BotUserID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.botUserID
}

func (h *DiscordEventsHandler) setBotUserID(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.botUserID = id
}

func (h *DiscordEventsHandler) handleReadyEvent(s *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		h.setBotUserID(r.User.ID)
		log.Printf("🤖 Logged in as %s (%s) in %d guilds", r.User.Username, r.User.ID, len(r.Guilds))
	}

	if !h.config.RegisterCommands {
		log.Printf("⚠️ Slash command registration disabled")
		return
	}

	commands := SlashCommands()
	if _, err := s.ApplicationCommandBulkOverwrite(h.config.ApplicationID, h.config.GuildID, commands); err != nil {
		log.Printf("❌ Failed to register slash commands: %v", err)
		return
	}

	if h.config.GuildID != "" {
		log.Printf("✅ Registered %d slash commands for guild %s", len(commands), h.config.GuildID)
	} else {
		log.Printf("✅ Registered %d global slash commands", len(commands))
	}
}

func (h *DiscordEventsHandler) handleReactionAddedEvent(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil {
		return
	}
	event := mapReactionAdd(r, h.BotUserID())
	h.submitReactionEvent(event)
}

func (h *DiscordEventsHandler) handleReactionRemovedEvent(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.MessageReaction == nil {
		return
	}
	event := mapReactionRemove(r, h.BotUserID())
	if !event.IsBot {
		event.IsBot = isCachedBot(s, r.GuildID, r.UserID)
	}
	h.submitReactionEvent(event)
}

func (h *DiscordEventsHandler) submitReactionEvent(event models.ReactionEvent) {
	h.pool.Submit(h.alertMiddleware.WrapEventTask("reaction "+string(event.Direction), func() error {
		// Bot and guildless events are settled by the reconciler without any platform calls
		outcome, err := h.reactionsUseCase.HandleReactionEvent(context.Background(), event)
		if err != nil {
			return fmt.Errorf("reaction %s by %s on message %s ended as %s: %w",
				event.Direction, event.ActorID, event.MessageID, outcome, err)
		}
		return nil
	}))
}

func (h *DiscordEventsHandler) handleMessageDeletedEvent(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.Message == nil || m.GuildID == "" {
		return
	}

	scopeID, messageID := m.GuildID, m.ID
	h.pool.Submit(h.alertMiddleware.WrapEventTask("message deleted", func() error {
		return h.reactionsUseCase.HandleMessageDeleted(context.Background(), scopeID, messageID)
	}))
}

func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}

	detection := utils.DetectCommand(m.Content, h.config.CommandPrefix, h.BotUserID())
	if !detection.IsCommand {
		return
	}

	log.Printf("📨 Text command from %s in guild %s, channel %s", m.Author.ID, m.GuildID, m.ChannelID)

	req := models.CommandRequest{
		ScopeID:   m.GuildID,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		IsAdmin:   isChannelAdministrator(s, m.GuildID, m.Author.ID, m.ChannelID),
	}

	cmd, err := utils.ParseCommand(detection.CommandText)
	if err != nil {
		if req.IsAdmin {
			h.replyToMessage(s, m.Message, "❌ "+err.Error())
			return
		}
		// Non-administrators get the rejection, never usage hints
		cmd = models.Command{Name: models.CommandName(strings.ToLower(strings.Fields(detection.CommandText)[0]))}
	}

	message := m.Message
	h.pool.Submit(h.alertMiddleware.WrapEventTask("text command "+string(cmd.Name), func() error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		result := h.adminUseCase.ExecuteCommand(ctx, req, cmd)
		h.replyToMessage(s, message, result.Message)
		return nil
	}))
}

func (h *DiscordEventsHandler) handleInteractionCreatedEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	req := interactionRequest(i.Interaction)
	log.Printf("📨 Slash command /%s from %s in guild %s", data.Name, req.UserID, req.ScopeID)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Printf("❌ Failed to acknowledge slash command /%s: %v", data.Name, err)
		return
	}

	interaction := i.Interaction
	h.pool.Submit(h.alertMiddleware.WrapEventTask("slash command "+data.Name, func() error {
		var result models.CommandResult
		cmd, err := commandFromInteraction(data)
		if err != nil {
			result = models.CommandResult{Success: false, Message: "❌ " + err.Error()}
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()
			result = h.adminUseCase.ExecuteCommand(ctx, req, cmd)
		}

		content := result.Message
		if _, err := s.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
			return fmt.Errorf("failed to send response for /%s: %w", data.Name, err)
		}
		return nil
	}))
}

func (h *DiscordEventsHandler) replyToMessage(s *discordgo.Session, m *discordgo.Message, content string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		log.Printf("❌ Failed to reply in channel %s: %v", m.ChannelID, err)
	}
}

func mapReactionAdd(r *discordgo.MessageReactionAdd, botUserID string) models.ReactionEvent {
	event := mapReaction(r.MessageReaction, models.ReactionDirectionAdd, botUserID)
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		event.IsBot = true
	}
	return event
}

func mapReactionRemove(r *discordgo.MessageReactionRemove, botUserID string) models.ReactionEvent {
	return mapReaction(r.MessageReaction, models.ReactionDirectionRemove, botUserID)
}

func mapReaction(
	r *discordgo.MessageReaction,
	direction models.ReactionDirection,
	botUserID string,
) models.ReactionEvent {
	return models.ReactionEvent{
		ScopeID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		EmojiName: r.Emoji.Name,
		EmojiID:   r.Emoji.ID,
		ActorID:   r.UserID,
		IsBot:     botUserID != "" && r.UserID == botUserID,
		Direction: direction,
	}
}

// isCachedBot consults the state cache since remove events carry no member
func isCachedBot(s *discordgo.Session, guildID, userID string) bool {
	if s == nil || s.State == nil || guildID == "" {
		return false
	}
	member, err := s.State.Member(guildID, userID)
	if err != nil || member.User == nil {
		return false
	}
	return member.User.Bot
}

func isChannelAdministrator(s *discordgo.Session, guildID, userID, channelID string) bool {
	if guildID == "" {
		return false
	}
	permissions, err := s.UserChannelPermissions(userID, channelID)
	if err != nil {
		log.Printf("⚠️ Failed to resolve permissions for user %s in channel %s: %v", userID, channelID, err)
		return false
	}
	return hasAdministrator(permissions)
}

func interactionRequest(i *discordgo.Interaction) models.CommandRequest {
	req := models.CommandRequest{
		ScopeID:   i.GuildID,
		ChannelID: i.ChannelID,
	}
	if i.Member != nil {
		req.IsAdmin = i.GuildID != "" && hasAdministrator(i.Member.Permissions)
		if i.Member.User != nil {
			req.UserID = i.Member.User.ID
		}
	} else if i.User != nil {
		req.UserID = i.User.ID
	}
	return req
}
