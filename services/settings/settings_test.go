package settings

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Curva95/discord-bot/core"
	"github.com/Curva95/discord-bot/db"
	"github.com/Curva95/discord-bot/models"
	"github.com/Curva95/discord-bot/services/txmanager"
	"github.com/Curva95/discord-bot/testutils"
)

var settingColumns = []string{
	"id", "scope_id", "key", "value_boolean", "value_stringarr", "version", "created_at", "updated_at",
}

func setupSettingsService(t *testing.T) (*SettingsService, sqlmock.Sqlmock) {
	dbConn, mock := testutils.NewMockDB(t)
	service := NewSettingsService(
		db.NewPostgresSettingsRepository(dbConn, testutils.TestSchema),
		txmanager.NewTransactionManager(dbConn),
	)
	return service, mock
}

func blocklistRow(version int64, value string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(settingColumns).
		AddRow("set_01", "guild-1", models.SettingKeyBlockedUserIDs, nil, value, version, now, now)
}

func TestSettingsService_GetStringArraySetting(t *testing.T) {
	ctx := context.Background()

	t.Run("missing setting returns empty list", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM test.scope_settings")).
			WithArgs("guild-1", models.SettingKeyBlockedUserIDs).
			WillReturnRows(sqlmock.NewRows(settingColumns))

		values, err := service.GetStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("returns stored values", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM test.scope_settings")).
			WithArgs("guild-1", models.SettingKeyBlockedUserIDs).
			WillReturnRows(blocklistRow(2, "{user-1,user-2}"))

		values, err := service.GetStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs)
		require.NoError(t, err)
		assert.Equal(t, []string{"user-1", "user-2"}, values)
	})

	t.Run("wrong type is rejected", func(t *testing.T) {
		service, _ := setupSettingsService(t)

		_, err := service.GetStringArraySetting(ctx, "guild-1", models.SettingKeyAuditDisabled)
		require.Error(t, err)
		assert.True(t, core.IsValidationError(err))
	})

	t.Run("store failure propagates", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM test.scope_settings")).
			WillReturnError(errors.New("connection reset"))

		_, err := service.GetStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs)
		assert.True(t, core.IsStoreUnavailable(err))
	})
}

func TestSettingsService_AddToStringArraySetting(t *testing.T) {
	ctx := context.Background()

	t.Run("creates setting when absent", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs("guild-1", models.SettingKeyBlockedUserIDs).
			WillReturnRows(sqlmock.NewRows(settingColumns))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test.scope_settings")).
			WithArgs(sqlmock.AnyArg(), "guild-1", models.SettingKeyBlockedUserIDs, "{\"user-1\"}").
			WillReturnRows(blocklistRow(1, "{user-1}"))
		mock.ExpectCommit()

		changed, err := service.AddToStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs, "user-1")
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("appends to existing list", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(blocklistRow(1, "{user-1}"))
		mock.ExpectQuery(regexp.QuoteMeta("version = test.scope_settings.version + 1")).
			WithArgs(sqlmock.AnyArg(), "guild-1", models.SettingKeyBlockedUserIDs, "{\"user-1\",\"user-2\"}").
			WillReturnRows(blocklistRow(2, "{user-1,user-2}"))
		mock.ExpectCommit()

		changed, err := service.AddToStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs, "user-2")
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("already present is a no-op", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(blocklistRow(3, "{user-1}"))
		mock.ExpectCommit()

		changed, err := service.AddToStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs, "user-1")
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("write failure rolls back", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(sqlmock.NewRows(settingColumns))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test.scope_settings")).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, err := service.AddToStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs, "user-1")
		require.Error(t, err)
		assert.True(t, core.IsStoreUnavailable(err))
	})

	t.Run("empty value is rejected", func(t *testing.T) {
		service, _ := setupSettingsService(t)

		_, err := service.AddToStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs, "")
		assert.True(t, core.IsValidationError(err))
	})
}

func TestSettingsService_RemoveFromStringArraySetting(t *testing.T) {
	ctx := context.Background()

	t.Run("removes present value", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(blocklistRow(2, "{user-1,user-2}"))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test.scope_settings")).
			WithArgs(sqlmock.AnyArg(), "guild-1", models.SettingKeyBlockedUserIDs, "{\"user-2\"}").
			WillReturnRows(blocklistRow(3, "{user-2}"))
		mock.ExpectCommit()

		changed, err := service.RemoveFromStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs, "user-1")
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("absent value is a no-op", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(sqlmock.NewRows(settingColumns))
		mock.ExpectCommit()

		changed, err := service.RemoveFromStringArraySetting(ctx, "guild-1", models.SettingKeyBlockedUserIDs, "user-9")
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestSettingsService_BooleanSetting(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("upsert then get", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test.scope_settings")).
			WithArgs(sqlmock.AnyArg(), "guild-1", models.SettingKeyAuditDisabled, true).
			WillReturnRows(sqlmock.NewRows(settingColumns).
				AddRow("set_02", "guild-1", models.SettingKeyAuditDisabled, true, nil, 1, now, now))
		mock.ExpectQuery(regexp.QuoteMeta("FROM test.scope_settings")).
			WithArgs("guild-1", models.SettingKeyAuditDisabled).
			WillReturnRows(sqlmock.NewRows(settingColumns).
				AddRow("set_02", "guild-1", models.SettingKeyAuditDisabled, true, nil, 1, now, now))

		require.NoError(t, service.UpsertBooleanSetting(ctx, "guild-1", models.SettingKeyAuditDisabled, true))

		maybeDisabled, err := service.GetBooleanSetting(ctx, "guild-1", models.SettingKeyAuditDisabled)
		require.NoError(t, err)
		assert.True(t, maybeDisabled.MustGet())
	})

	t.Run("missing returns none", func(t *testing.T) {
		service, mock := setupSettingsService(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM test.scope_settings")).
			WillReturnRows(sqlmock.NewRows(settingColumns))

		maybeDisabled, err := service.GetBooleanSetting(ctx, "guild-1", models.SettingKeyAuditDisabled)
		require.NoError(t, err)
		assert.False(t, maybeDisabled.IsPresent())
	})

	t.Run("unsupported key", func(t *testing.T) {
		service, _ := setupSettingsService(t)

		err := service.UpsertBooleanSetting(ctx, "guild-1", "unknown/key", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported setting key")
	})
}
