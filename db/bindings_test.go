package db

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
	"github.com/Curva95/discord-bot/models"
	"github.com/Curva95/discord-bot/testutils"
)

func bindingRows(bindings ...*models.Binding) *sqlmock.Rows {
	rows := sqlmock.NewRows(bindingsColumns)
	for _, b := range bindings {
		rows.AddRow(b.ID, b.ScopeID, b.ChannelID, b.MessageID, b.EmojiKey, b.RoleID, b.CreatedAt, b.UpdatedAt)
	}
	return rows
}

func TestPostgresBindingsRepository_UpsertBinding(t *testing.T) {
	dbConn, mock := testutils.NewMockDB(t)
	repo := NewPostgresBindingsRepository(dbConn, testutils.TestSchema)
	ctx := context.Background()
	now := time.Now()

	t.Run("inserts and scans the stored row back", func(t *testing.T) {
		binding := &models.Binding{
			ID:        "bnd_new",
			ScopeID:   "guild-1",
			ChannelID: "channel-1",
			MessageID: "msg-1",
			EmojiKey:  "✅",
			RoleID:    "role-42",
		}

		stored := *binding
		stored.CreatedAt = now
		stored.UpdatedAt = now

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test.bindings")).
			WithArgs("bnd_new", "guild-1", "channel-1", "msg-1", "✅", "role-42").
			WillReturnRows(bindingRows(&stored))

		err := repo.UpsertBinding(ctx, binding)
		require.NoError(t, err)
		assert.Equal(t, now, binding.CreatedAt)
	})

	t.Run("conflicting key keeps the original id", func(t *testing.T) {
		binding := &models.Binding{
			ID:        "bnd_second",
			ScopeID:   "guild-1",
			ChannelID: "channel-1",
			MessageID: "msg-1",
			EmojiKey:  "✅",
			RoleID:    "role-99",
		}

		stored := *binding
		stored.ID = "bnd_new"
		stored.CreatedAt = now
		stored.UpdatedAt = now.Add(time.Minute)

		mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (scope_id, message_id, emoji_key)")).
			WithArgs("bnd_second", "guild-1", "channel-1", "msg-1", "✅", "role-99").
			WillReturnRows(bindingRows(&stored))

		err := repo.UpsertBinding(ctx, binding)
		require.NoError(t, err)
		assert.Equal(t, "bnd_new", binding.ID)
		assert.Equal(t, "role-99", binding.RoleID)
	})

	t.Run("driver failure is store unavailable", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test.bindings")).
			WillReturnError(errors.New("connection refused"))

		err := repo.UpsertBinding(ctx, &models.Binding{ID: "bnd_x"})
		require.Error(t, err)
		assert.True(t, core.IsStoreUnavailable(err))
		assert.Contains(t, err.Error(), "failed to upsert binding")
	})
}

func TestPostgresBindingsRepository_DeleteBindingsByMessage(t *testing.T) {
	dbConn, mock := testutils.NewMockDB(t)
	repo := NewPostgresBindingsRepository(dbConn, testutils.TestSchema)
	ctx := context.Background()

	t.Run("returns number of removed rows", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM test.bindings")).
			WithArgs("guild-1", "msg-1").
			WillReturnResult(sqlmock.NewResult(0, 2))

		count, err := repo.DeleteBindingsByMessage(ctx, "guild-1", "msg-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("nothing to delete is not an error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM test.bindings")).
			WithArgs("guild-1", "msg-none").
			WillReturnResult(sqlmock.NewResult(0, 0))

		count, err := repo.DeleteBindingsByMessage(ctx, "guild-1", "msg-none")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("driver failure", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM test.bindings")).
			WillReturnError(errors.New("broken pipe"))

		_, err := repo.DeleteBindingsByMessage(ctx, "guild-1", "msg-1")
		assert.True(t, core.IsStoreUnavailable(err))
	})
}

func TestPostgresBindingsRepository_GetBinding(t *testing.T) {
	dbConn, mock := testutils.NewMockDB(t)
	repo := NewPostgresBindingsRepository(dbConn, testutils.TestSchema)
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		stored := &models.Binding{
			ID:        "bnd_1",
			ScopeID:   "guild-1",
			ChannelID: "channel-1",
			MessageID: "msg-1",
			EmojiKey:  "party:123",
			RoleID:    "role-42",
			CreatedAt: now,
			UpdatedAt: now,
		}
		mock.ExpectQuery(regexp.QuoteMeta("FROM test.bindings")).
			WithArgs("guild-1", "msg-1", "party:123").
			WillReturnRows(bindingRows(stored))

		maybeBinding, err := repo.GetBinding(ctx, "guild-1", "msg-1", "party:123")
		require.NoError(t, err)
		require.True(t, maybeBinding.IsPresent())
		assert.Equal(t, "role-42", maybeBinding.MustGet().RoleID)
	})

	t.Run("absent", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM test.bindings")).
			WithArgs("guild-1", "msg-1", "party").
			WillReturnRows(sqlmock.NewRows(bindingsColumns))

		maybeBinding, err := repo.GetBinding(ctx, "guild-1", "msg-1", "party")
		require.NoError(t, err)
		assert.False(t, maybeBinding.IsPresent())
	})

	t.Run("driver failure", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM test.bindings")).
			WillReturnError(errors.New("timeout"))

		_, err := repo.GetBinding(ctx, "guild-1", "msg-1", "✅")
		assert.True(t, core.IsStoreUnavailable(err))
	})
}

func TestPostgresBindingsRepository_ListBindingsByScope(t *testing.T) {
	dbConn, mock := testutils.NewMockDB(t)
	repo := NewPostgresBindingsRepository(dbConn, testutils.TestSchema)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE scope_id = $1")).
		WithArgs("guild-1").
		WillReturnRows(bindingRows(
			&models.Binding{ID: "bnd_1", ScopeID: "guild-1", MessageID: "msg-1", EmojiKey: "✅", RoleID: "role-1", CreatedAt: now, UpdatedAt: now},
			&models.Binding{ID: "bnd_2", ScopeID: "guild-1", MessageID: "msg-1", EmojiKey: "❌", RoleID: "role-2", CreatedAt: now, UpdatedAt: now},
		))

	bindings, err := repo.ListBindingsByScope(ctx, "guild-1")
	require.NoError(t, err)
	require.Len(t, bindings, 2)
	assert.Equal(t, "role-1", bindings[0].RoleID)
	assert.Equal(t, "role-2", bindings[1].RoleID)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE scope_id = $1")).
		WithArgs("guild-empty").
		WillReturnRows(sqlmock.NewRows(bindingsColumns))

	bindings, err = repo.ListBindingsByScope(ctx, "guild-empty")
	require.NoError(t, err)
	assert.Empty(t, bindings)
	assert.NotNil(t, bindings)
}
