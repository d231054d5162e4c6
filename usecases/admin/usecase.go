package admin

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/Curva95/discord-bot/clients"
	"github.com/Curva95/discord-bot/core"
	"github.com/Curva95/discord-bot/models"
	"github.com/Curva95/discord-bot/services"
	"github.com/Curva95/discord-bot/utils"
)

// maxReplyLength keeps replies under Discord's 2000 character message limit
const maxReplyLength = 1900

// AdminUseCase implements the operator commands that manage bindings and scope settings
type AdminUseCase struct {
	discordClient   clients.DiscordClient
	bindingsService services.BindingsService
	settingsService services.SettingsService
}

// NewAdminUseCase creates a new instance of AdminUseCase
func NewAdminUseCase(
	discordClient clients.DiscordClient,
	bindingsService services.BindingsService,
	settingsService services.SettingsService,
) *AdminUseCase {
	return &AdminUseCase{
		discordClient:   discordClient,
		bindingsService: bindingsService,
		settingsService: settingsService,
	}
}

// ExecuteCommand dispatches a parsed command. Non-administrators are always rejected with a reply.
func (u *AdminUseCase) ExecuteCommand(
	ctx context.Context,
	req models.CommandRequest,
	cmd models.Command,
) models.CommandResult {
	log.Printf("📋 Starting to execute command %s from user %s in scope %s", cmd.Name, req.UserID, req.ScopeID)

	if !req.IsAdmin {
		log.Printf("⚠️ User %s is not an administrator - rejecting command %s", req.UserID, cmd.Name)
		return failure("Only administrators can use this command!")
	}
	if req.ScopeID == "" {
		return failure("This command can only be used inside a server.")
	}

	arg := func(i int) string {
		if i < len(cmd.Args) {
			return cmd.Args[i]
		}
		return ""
	}

	var result models.CommandResult
	switch cmd.Name {
	case models.CommandBind:
		result = u.CreateOrReplaceBinding(ctx, req, arg(0), arg(1), arg(2))
	case models.CommandUnbind:
		result = u.RemoveBinding(ctx, req, arg(0))
	case models.CommandListBindings:
		result = u.ListBindings(ctx, req)
	case models.CommandSetLogChannel:
		result = u.SetLogChannel(ctx, req, arg(0))
	case models.CommandDBStatus:
		result = u.ReportStoreHealth(ctx, req)
	case models.CommandBlockUser:
		result = u.BlockUser(ctx, req, arg(0))
	case models.CommandUnblockUser:
		result = u.UnblockUser(ctx, req, arg(0))
	case models.CommandAudit:
		result = u.SetAuditEnabled(ctx, req, arg(0))
	default:
		result = failure(fmt.Sprintf("Unknown command: %s", cmd.Name))
	}

	log.Printf("📋 Completed successfully - command %s finished with success=%t", cmd.Name, result.Success)
	return result
}

// CreateOrReplaceBinding binds emoji on a message to a role, then reacts to the message with the emoji.
// A failed reaction is reported but the binding stays.
func (u *AdminUseCase) CreateOrReplaceBinding(
	ctx context.Context,
	req models.CommandRequest,
	messageArg, emojiArg, roleArg string,
) models.CommandResult {
	ref, ok := utils.ParseMessageRef(messageArg)
	if !ok {
		return failure(fmt.Sprintf("`%s` is not a message ID or message link.", messageArg))
	}
	if ref.GuildID != "" && ref.GuildID != req.ScopeID {
		return failure("That message belongs to another server.")
	}
	channelID := ref.ChannelID
	if channelID == "" {
		channelID = req.ChannelID
	}

	emoji, err := core.ParseEmoji(emojiArg)
	if err != nil {
		return errorResult(err)
	}

	roleID, ok := utils.ParseRoleRef(roleArg)
	if !ok {
		return failure(fmt.Sprintf("`%s` is not a role mention or role ID.", roleArg))
	}

	message, err := u.discordClient.FetchMessage(ctx, channelID, ref.MessageID)
	if err != nil {
		if core.IsNotFoundError(err) {
			return failure(fmt.Sprintf(
				"Message `%s` was not found in <#%s>. Use a message link for messages in other channels.",
				ref.MessageID, channelID,
			))
		}
		return errorResult(err)
	}
	if message.GuildID != req.ScopeID {
		return failure("That message belongs to another server.")
	}

	if roleID == req.ScopeID {
		return failure("The @everyone role cannot be bound.")
	}
	role, err := u.discordClient.GetRole(ctx, req.ScopeID, roleID)
	if err != nil {
		if core.IsNotFoundError(err) {
			return failure(fmt.Sprintf("Role `%s` does not exist in this server.", roleID))
		}
		return errorResult(err)
	}
	if role.Managed {
		return failure(fmt.Sprintf("Role **%s** is managed by an integration and cannot be assigned.", role.Name))
	}

	if _, err := u.bindingsService.UpsertBinding(ctx, req.ScopeID, channelID, message.ID, emoji.Key(), role.ID); err != nil {
		return errorResult(err)
	}

	reply := fmt.Sprintf(
		"✅ Reaction role configured!\n**Message:** %s\n**Emoji:** %s\n**Role:** <@&%s>",
		messageLink(req.ScopeID, channelID, message.ID), emoji.Display(), role.ID,
	)

	if err := u.discordClient.AddReaction(ctx, channelID, message.ID, emoji.Key()); err != nil {
		log.Printf("⚠️ Binding saved but failed to add reaction %s to message %s: %v", emoji.Key(), message.ID, err)
		reply += "\n⚠️ Could not add the reaction to the message. Check that the emoji is available to the bot."
	}

	return models.CommandResult{Success: true, Message: reply}
}

// RemoveBinding removes every emoji binding of a message. Zero removed is reported, not an error.
func (u *AdminUseCase) RemoveBinding(ctx context.Context, req models.CommandRequest, messageArg string) models.CommandResult {
	ref, ok := utils.ParseMessageRef(messageArg)
	if !ok {
		return failure(fmt.Sprintf("`%s` is not a message ID or message link.", messageArg))
	}

	count, err := u.bindingsService.DeleteBinding(ctx, req.ScopeID, ref.MessageID)
	if err != nil {
		return errorResult(err)
	}

	if count == 0 {
		return models.CommandResult{
			Success: true,
			Message: fmt.Sprintf("ℹ️ No reaction roles were configured for message `%s`.", ref.MessageID),
		}
	}

	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("🗑️ Removed %s from message `%s`.", english.Plural(int(count), "binding", ""), ref.MessageID),
	}
}

func (u *AdminUseCase) ListBindings(ctx context.Context, req models.CommandRequest) models.CommandResult {
	bindings, err := u.bindingsService.ListBindings(ctx, req.ScopeID)
	if err != nil {
		return errorResult(err)
	}

	if len(bindings) == 0 {
		return models.CommandResult{Success: true, Message: "ℹ️ No reaction roles are configured yet."}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 %s configured:\n", english.Plural(len(bindings), "reaction role", "")))
	for i, binding := range bindings {
		line := fmt.Sprintf("• %s → <@&%s> on %s (added %s)\n",
			core.EmojiFromKey(binding.EmojiKey).Display(),
			binding.RoleID,
			messageLink(binding.ScopeID, binding.ChannelID, binding.MessageID),
			humanize.Time(binding.CreatedAt),
		)
		if sb.Len()+len(line) > maxReplyLength {
			sb.WriteString(fmt.Sprintf("…and %s more", humanize.Comma(int64(len(bindings)-i))))
			break
		}
		sb.WriteString(line)
	}

	return models.CommandResult{Success: true, Message: strings.TrimRight(sb.String(), "\n")}
}

// SetLogChannel points the audit trail of the scope at a text-capable channel
func (u *AdminUseCase) SetLogChannel(ctx context.Context, req models.CommandRequest, channelArg string) models.CommandResult {
	channelID, ok := utils.ParseChannelRef(channelArg)
	if !ok {
		return failure(fmt.Sprintf("`%s` is not a channel mention or channel ID.", channelArg))
	}

	channel, err := u.discordClient.GetChannel(ctx, channelID)
	if err != nil {
		if core.IsNotFoundError(err) {
			return failure(fmt.Sprintf("Channel `%s` was not found.", channelID))
		}
		return errorResult(err)
	}
	if channel.GuildID != req.ScopeID {
		return failure("That channel belongs to another server.")
	}
	if !channel.IsText {
		return failure(fmt.Sprintf("<#%s> cannot receive messages. Pick a text channel.", channel.ID))
	}

	if err := u.bindingsService.SetAuditDestination(ctx, req.ScopeID, channel.ID); err != nil {
		return errorResult(err)
	}

	return models.CommandResult{Success: true, Message: fmt.Sprintf("📝 Log channel set to <#%s>", channel.ID)}
}

func (u *AdminUseCase) ReportStoreHealth(ctx context.Context, req models.CommandRequest) models.CommandResult {
	health, err := u.bindingsService.CheckHealth(ctx)
	if err != nil {
		log.Printf("❌ Database health check failed for scope %s: %v", req.ScopeID, err)
		return failure("Database error.")
	}

	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("✅ Connected to the database! Current time: %s (latency %s)",
			health.DatabaseTime.UTC().Format(time.RFC1123),
			health.Latency.Round(time.Millisecond),
		),
	}
}

// BlockUser stops an actor's reactions from granting or revoking roles in the scope
func (u *AdminUseCase) BlockUser(ctx context.Context, req models.CommandRequest, userArg string) models.CommandResult {
	userID, ok := utils.ParseUserRef(userArg)
	if !ok {
		return failure(fmt.Sprintf("`%s` is not a user mention or user ID.", userArg))
	}

	changed, err := u.settingsService.AddToStringArraySetting(ctx, req.ScopeID, models.SettingKeyBlockedUserIDs, userID)
	if err != nil {
		return errorResult(err)
	}
	if !changed {
		return models.CommandResult{Success: true, Message: fmt.Sprintf("ℹ️ <@%s> is already blocked.", userID)}
	}

	return models.CommandResult{
		Success: true,
		Message: fmt.Sprintf("🚫 <@%s> can no longer receive roles through reactions.", userID),
	}
}

func (u *AdminUseCase) UnblockUser(ctx context.Context, req models.CommandRequest, userArg string) models.CommandResult {
	userID, ok := utils.ParseUserRef(userArg)
	if !ok {
		return failure(fmt.Sprintf("`%s` is not a user mention or user ID.", userArg))
	}

	changed, err := u.settingsService.RemoveFromStringArraySetting(ctx, req.ScopeID, models.SettingKeyBlockedUserIDs, userID)
	if err != nil {
		return errorResult(err)
	}
	if !changed {
		return models.CommandResult{Success: true, Message: fmt.Sprintf("ℹ️ <@%s> was not blocked.", userID)}
	}

	return models.CommandResult{Success: true, Message: fmt.Sprintf("✅ <@%s> is unblocked.", userID)}
}

// SetAuditEnabled turns audit forwarding for the scope on or off
func (u *AdminUseCase) SetAuditEnabled(ctx context.Context, req models.CommandRequest, stateArg string) models.CommandResult {
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(stateArg)) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return failure(fmt.Sprintf("usage: %s", utils.CommandUsage[models.CommandAudit]))
	}

	if err := u.settingsService.UpsertBooleanSetting(ctx, req.ScopeID, models.SettingKeyAuditDisabled, !enabled); err != nil {
		return errorResult(err)
	}

	if enabled {
		return models.CommandResult{Success: true, Message: "📝 Audit log enabled."}
	}
	return models.CommandResult{Success: true, Message: "🔕 Audit log disabled."}
}

func failure(message string) models.CommandResult {
	return models.CommandResult{Success: false, Message: "❌ " + message}
}

// errorResult turns a service or platform error into a reply. Store details stay in the logs.
func errorResult(err error) models.CommandResult {
	switch {
	case core.IsValidationError(err), core.IsNotFoundError(err):
		return failure(err.Error())
	case core.IsStoreUnavailable(err):
		log.Printf("❌ Database error while executing command: %v", err)
		return failure("Database error, please try again later.")
	case core.IsPlatformActionError(err):
		log.Printf("❌ Discord rejected a command action: %v", err)
		return failure("Discord rejected the request. Check the bot's permissions and role position.")
	default:
		log.Printf("❌ Unexpected error while executing command: %v", err)
		return failure("Something went wrong.")
	}
}

func messageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
