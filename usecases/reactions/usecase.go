package reactions

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/Curva95/discord-bot/clients"
	"github.com/Curva95/discord-bot/core"
	"github.com/Curva95/discord-bot/models"
	"github.com/Curva95/discord-bot/services"
)

// ReactionsUseCase reconciles reaction events against stored bindings.
// It keeps no state between events.
type ReactionsUseCase struct {
	discordClient   clients.DiscordClient
	bindingsService services.BindingsService
	settingsService services.SettingsService
	auditSink       services.AuditSink
	platformTimeout time.Duration
}

// NewReactionsUseCase creates a new instance of ReactionsUseCase
func NewReactionsUseCase(
	discordClient clients.DiscordClient,
	bindingsService services.BindingsService,
	settingsService services.SettingsService,
	auditSink services.AuditSink,
	platformTimeout time.Duration,
) *ReactionsUseCase {
	return &ReactionsUseCase{
		discordClient:   discordClient,
		bindingsService: bindingsService,
		settingsService: settingsService,
		auditSink:       auditSink,
		platformTimeout: platformTimeout,
	}
}

func (u *ReactionsUseCase) HandleReactionEvent(
	ctx context.Context,
	event models.ReactionEvent,
) (models.ReconcileOutcome, error) {
	// Step 1: Filter events that can never change roles
	if event.IsBot {
		return models.OutcomeIgnoredBot, nil
	}
	if event.ScopeID == "" {
		return models.OutcomeNoScope, nil
	}

	if u.platformTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.platformTimeout)
		defer cancel()
	}

	// Step 2: Resolve the binding. Most reactions are unbound, so this path stays quiet.
	emojiKey := core.EmojiKey(event.EmojiName, event.EmojiID)
	maybeRole, err := u.bindingsService.LookupBinding(ctx, event.ScopeID, event.MessageID, emojiKey)
	if err != nil {
		return models.OutcomeFailed, fmt.Errorf("failed to resolve binding: %w", err)
	}
	roleID, ok := maybeRole.Get()
	if !ok {
		return models.OutcomeUnbound, nil
	}

	log.Printf("📋 Starting to reconcile %s of %s on message %s by user %s (role %s)",
		event.Direction, emojiKey, event.MessageID, event.ActorID, roleID)

	// Step 3: Blocked actors never get bound roles
	blockedUserIDs, err := u.settingsService.GetStringArraySetting(ctx, event.ScopeID, models.SettingKeyBlockedUserIDs)
	if err != nil {
		return models.OutcomeFailed, fmt.Errorf("failed to read blocklist: %w", err)
	}
	if slices.Contains(blockedUserIDs, event.ActorID) {
		log.Printf("⚠️ User %s is blocked in scope %s - ignoring reaction", event.ActorID, event.ScopeID)
		return models.OutcomeBlocked, nil
	}

	// Step 4: Apply
	var outcome models.ReconcileOutcome
	switch event.Direction {
	case models.ReactionDirectionAdd:
		outcome, err = u.grant(ctx, event, roleID)
	case models.ReactionDirectionRemove:
		outcome, err = u.revoke(ctx, event, roleID)
	default:
		return models.OutcomeFailed, core.Validationf("unknown reaction direction %q", event.Direction)
	}
	if err != nil || (outcome != models.OutcomeGranted && outcome != models.OutcomeRevoked) {
		return outcome, err
	}

	// Step 5: Audit. Delivery failures never fail the event.
	u.auditSink.Publish(models.AuditRecord{
		ID:        core.NewID("aud"),
		ScopeID:   event.ScopeID,
		ChannelID: event.ChannelID,
		MessageID: event.MessageID,
		ActorID:   event.ActorID,
		RoleID:    roleID,
		EmojiKey:  emojiKey,
		Direction: event.Direction,
		Timestamp: time.Now(),
	})

	log.Printf("📋 Completed successfully - %s role %s for user %s", outcome, roleID, event.ActorID)
	return outcome, nil
}

func (u *ReactionsUseCase) grant(
	ctx context.Context,
	event models.ReactionEvent,
	roleID string,
) (models.ReconcileOutcome, error) {
	member, err := u.discordClient.GetMember(ctx, event.ScopeID, event.ActorID)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("⚠️ User %s is no longer a member of scope %s - skipping grant", event.ActorID, event.ScopeID)
			return models.OutcomeActorAbsent, nil
		}
		return models.OutcomeFailed, fmt.Errorf("failed to check membership: %w", err)
	}
	if member.Bot {
		return models.OutcomeIgnoredBot, nil
	}

	if err := u.discordClient.GrantRole(ctx, event.ScopeID, event.ActorID, roleID); err != nil {
		if core.IsActorAbsentError(err) {
			log.Printf("⚠️ User %s left scope %s before the grant - skipping", event.ActorID, event.ScopeID)
			return models.OutcomeActorAbsent, nil
		}
		return models.OutcomeFailed, platformError("failed to grant role", err)
	}
	return models.OutcomeGranted, nil
}

func (u *ReactionsUseCase) revoke(
	ctx context.Context,
	event models.ReactionEvent,
	roleID string,
) (models.ReconcileOutcome, error) {
	if err := u.discordClient.RevokeRole(ctx, event.ScopeID, event.ActorID, roleID); err != nil {
		if core.IsActorAbsentError(err) {
			log.Printf("⚠️ User %s is no longer a member of scope %s - nothing to revoke", event.ActorID, event.ScopeID)
			return models.OutcomeActorAbsent, nil
		}
		return models.OutcomeFailed, platformError("failed to revoke role", err)
	}
	return models.OutcomeRevoked, nil
}

// HandleMessageDeleted drops the bindings of a deleted message
func (u *ReactionsUseCase) HandleMessageDeleted(ctx context.Context, scopeID, messageID string) error {
	if scopeID == "" || messageID == "" {
		return nil
	}

	count, err := u.bindingsService.DeleteBinding(ctx, scopeID, messageID)
	if err != nil {
		return fmt.Errorf("failed to clean up bindings for deleted message %s: %w", messageID, err)
	}
	if count > 0 {
		log.Printf("📋 Removed %d bindings for deleted message %s in scope %s", count, messageID, scopeID)
	}
	return nil
}

// platformError makes sure role mutation failures, including timeouts, match core.ErrPlatformAction
func platformError(op string, err error) error {
	if core.IsPlatformActionError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return core.PlatformAction(op, err)
}
