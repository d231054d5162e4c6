package settings

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/samber/mo"

	"github.com/Curva95/discord-bot/core"
	"github.com/Curva95/discord-bot/db"
	"github.com/Curva95/discord-bot/models"
	"github.com/Curva95/discord-bot/services"
	"github.com/Curva95/discord-bot/utils"
)

type SettingsService struct {
	settingsRepo *db.PostgresSettingsRepository
	txManager    services.TransactionManager
}

func NewSettingsService(repo *db.PostgresSettingsRepository, txManager services.TransactionManager) *SettingsService {
	return &SettingsService{settingsRepo: repo, txManager: txManager}
}

func (s *SettingsService) UpsertBooleanSetting(ctx context.Context, scopeID, key string, value bool) error {
	log.Printf("📋 Starting to upsert boolean setting %s for scope %s", key, scopeID)
	if err := s.validateKey(key, models.SettingTypeBool); err != nil {
		return fmt.Errorf("invalid setting: %w", err)
	}

	setting, err := s.settingsRepo.UpsertBooleanSetting(ctx, scopeID, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert boolean setting: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted boolean setting %s (version %d)", key, setting.Version)
	return nil
}

func (s *SettingsService) GetBooleanSetting(ctx context.Context, scopeID, key string) (mo.Option[bool], error) {
	if err := s.validateKey(key, models.SettingTypeBool); err != nil {
		return mo.None[bool](), fmt.Errorf("invalid setting: %w", err)
	}

	maybeSetting, err := s.settingsRepo.GetSetting(ctx, scopeID, key)
	if err != nil {
		return mo.None[bool](), fmt.Errorf("failed to get boolean setting: %w", err)
	}
	if !maybeSetting.IsPresent() {
		return mo.None[bool](), nil
	}

	setting := maybeSetting.MustGet()
	utils.AssertInvariant(setting.ValueBoolean != nil, "boolean setting must have a value")
	return mo.Some(*setting.ValueBoolean), nil
}

// GetStringArraySetting returns the stored list, or an empty list when the setting was never written
func (s *SettingsService) GetStringArraySetting(ctx context.Context, scopeID, key string) ([]string, error) {
	if err := s.validateKey(key, models.SettingTypeStringArr); err != nil {
		return nil, fmt.Errorf("invalid setting: %w", err)
	}

	maybeSetting, err := s.settingsRepo.GetSetting(ctx, scopeID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get string array setting: %w", err)
	}
	if !maybeSetting.IsPresent() || maybeSetting.MustGet().ValueStringArr == nil {
		return []string{}, nil
	}

	return []string(maybeSetting.MustGet().ValueStringArr), nil
}

// AddToStringArraySetting appends value under a row lock. Returns false when value was already present.
func (s *SettingsService) AddToStringArraySetting(ctx context.Context, scopeID, key, value string) (bool, error) {
	log.Printf("📋 Starting to add %s to setting %s for scope %s", value, key, scopeID)
	return s.modifyStringArraySetting(ctx, scopeID, key, value, func(current []string) ([]string, bool) {
		if slices.Contains(current, value) {
			return current, false
		}
		return append(current, value), true
	})
}

// RemoveFromStringArraySetting removes value under a row lock. Returns false when value was absent.
func (s *SettingsService) RemoveFromStringArraySetting(
	ctx context.Context,
	scopeID, key, value string,
) (bool, error) {
	log.Printf("📋 Starting to remove %s from setting %s for scope %s", value, key, scopeID)
	return s.modifyStringArraySetting(ctx, scopeID, key, value, func(current []string) ([]string, bool) {
		if !slices.Contains(current, value) {
			return current, false
		}
		return slices.DeleteFunc(current, func(v string) bool { return v == value }), true
	})
}

func (s *SettingsService) modifyStringArraySetting(
	ctx context.Context,
	scopeID, key, value string,
	modify func(current []string) ([]string, bool),
) (bool, error) {
	if err := s.validateKey(key, models.SettingTypeStringArr); err != nil {
		return false, fmt.Errorf("invalid setting: %w", err)
	}
	if value == "" {
		return false, core.Validationf("value must not be empty")
	}

	changed := false
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		maybeSetting, err := s.settingsRepo.GetSettingForUpdate(ctx, scopeID, key)
		if err != nil {
			return fmt.Errorf("failed to lock setting: %w", err)
		}

		current := []string{}
		if maybeSetting.IsPresent() {
			current = append(current, maybeSetting.MustGet().ValueStringArr...)
		}

		updated, didChange := modify(current)
		if !didChange {
			return nil
		}

		setting, err := s.settingsRepo.UpsertStringArraySetting(ctx, scopeID, key, updated)
		if err != nil {
			return fmt.Errorf("failed to upsert string array setting: %w", err)
		}

		changed = true
		log.Printf("📋 Setting %s for scope %s now at version %d", key, scopeID, setting.Version)
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Printf("📋 Completed successfully - setting %s changed: %t", key, changed)
	return changed, nil
}

func (s *SettingsService) validateKey(key string, expectedType models.SettingType) error {
	keyDef, exists := models.SupportedSettings[key]
	if !exists {
		return core.Validationf("unsupported setting key: %s", key)
	}

	if keyDef.Type != expectedType {
		return core.Validationf("setting key %s expects type %s, got %s", key, keyDef.Type, expectedType)
	}

	return nil
}
