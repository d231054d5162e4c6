package bindings

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/Curva95/discord-bot/core"
	"github.com/Curva95/discord-bot/db"
	"github.com/Curva95/discord-bot/models"
)

type BindingsService struct {
	bindingsRepo          *db.PostgresBindingsRepository
	auditDestinationsRepo *db.PostgresAuditDestinationsRepository
	healthRepo            *db.PostgresHealthRepository
}

func NewBindingsService(
	bindingsRepo *db.PostgresBindingsRepository,
	auditDestinationsRepo *db.PostgresAuditDestinationsRepository,
	healthRepo *db.PostgresHealthRepository,
) *BindingsService {
	return &BindingsService{
		bindingsRepo:          bindingsRepo,
		auditDestinationsRepo: auditDestinationsRepo,
		healthRepo:            healthRepo,
	}
}

// UpsertBinding stores a binding; a second write with the same (scope, message, emoji) replaces the role.
func (s *BindingsService) UpsertBinding(
	ctx context.Context,
	scopeID, channelID, messageID, emojiKey, roleID string,
) (*models.Binding, error) {
	log.Printf("📋 Starting to upsert binding for message %s emoji %s in scope %s", messageID, emojiKey, scopeID)
	if err := requireIdentifiers(map[string]string{
		"scope id":   scopeID,
		"message id": messageID,
		"emoji":      emojiKey,
		"role id":    roleID,
	}); err != nil {
		return nil, err
	}

	binding := &models.Binding{
		ID:        core.NewID("bnd"),
		ScopeID:   scopeID,
		ChannelID: channelID,
		MessageID: messageID,
		EmojiKey:  emojiKey,
		RoleID:    roleID,
	}
	if err := s.bindingsRepo.UpsertBinding(ctx, binding); err != nil {
		return nil, fmt.Errorf("failed to upsert binding: %w", err)
	}

	log.Printf("📋 Completed successfully - bound %s on message %s to role %s", emojiKey, messageID, roleID)
	return binding, nil
}

// DeleteBinding removes all emoji bindings of a message. Zero removed is not an error.
func (s *BindingsService) DeleteBinding(ctx context.Context, scopeID, messageID string) (int64, error) {
	log.Printf("📋 Starting to delete bindings for message %s in scope %s", messageID, scopeID)
	if err := requireIdentifiers(map[string]string{
		"scope id":   scopeID,
		"message id": messageID,
	}); err != nil {
		return 0, err
	}

	count, err := s.bindingsRepo.DeleteBindingsByMessage(ctx, scopeID, messageID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bindings: %w", err)
	}

	log.Printf("📋 Completed successfully - deleted %d bindings for message %s", count, messageID)
	return count, nil
}

// LookupBinding returns the bound role ID. Absence is the common case and is not logged.
func (s *BindingsService) LookupBinding(
	ctx context.Context,
	scopeID, messageID, emojiKey string,
) (mo.Option[string], error) {
	maybeBinding, err := s.bindingsRepo.GetBinding(ctx, scopeID, messageID, emojiKey)
	if err != nil {
		return mo.None[string](), fmt.Errorf("failed to lookup binding: %w", err)
	}
	if !maybeBinding.IsPresent() {
		return mo.None[string](), nil
	}
	return mo.Some(maybeBinding.MustGet().RoleID), nil
}

func (s *BindingsService) ListBindings(ctx context.Context, scopeID string) ([]*models.Binding, error) {
	log.Printf("📋 Starting to list bindings for scope %s", scopeID)
	if err := requireIdentifiers(map[string]string{"scope id": scopeID}); err != nil {
		return nil, err
	}

	bindings, err := s.bindingsRepo.ListBindingsByScope(ctx, scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d bindings for scope %s", len(bindings), scopeID)
	return bindings, nil
}

func (s *BindingsService) SetAuditDestination(ctx context.Context, scopeID, channelID string) error {
	log.Printf("📋 Starting to set audit destination for scope %s to channel %s", scopeID, channelID)
	if err := requireIdentifiers(map[string]string{
		"scope id":   scopeID,
		"channel id": channelID,
	}); err != nil {
		return err
	}

	if _, err := s.auditDestinationsRepo.UpsertAuditDestination(ctx, scopeID, channelID); err != nil {
		return fmt.Errorf("failed to set audit destination: %w", err)
	}

	log.Printf("📋 Completed successfully - set audit destination for scope %s", scopeID)
	return nil
}

func (s *BindingsService) GetAuditDestination(ctx context.Context, scopeID string) (mo.Option[string], error) {
	maybeDestination, err := s.auditDestinationsRepo.GetAuditDestination(ctx, scopeID)
	if err != nil {
		return mo.None[string](), fmt.Errorf("failed to get audit destination: %w", err)
	}
	if !maybeDestination.IsPresent() {
		return mo.None[string](), nil
	}
	return mo.Some(maybeDestination.MustGet().ChannelID), nil
}

// CheckHealth round-trips a timestamp query and reports its latency
func (s *BindingsService) CheckHealth(ctx context.Context) (*models.StoreHealth, error) {
	start := time.Now()
	dbTime, err := s.healthRepo.CurrentTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check store health: %w", err)
	}

	return &models.StoreHealth{
		DatabaseTime: dbTime,
		Latency:      time.Since(start),
	}, nil
}

func requireIdentifiers(identifiers map[string]string) error {
	missing := []string{}
	for name, value := range identifiers {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return core.Validationf("%s must not be empty", strings.Join(missing, ", "))
}
