package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"github.com/Curva95/discord-bot/core"
	dbtx "github.com/Curva95/discord-bot/db/tx"
	"github.com/Curva95/discord-bot/models"
)

type PostgresBindingsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for bindings table
var bindingsColumns = []string{
	"id",
	"scope_id",
	"channel_id",
	"message_id",
	"emoji_key",
	"role_id",
	"created_at",
	"updated_at",
}

func NewPostgresBindingsRepository(db *sqlx.DB, schema string) *PostgresBindingsRepository {
	return &PostgresBindingsRepository{db: db, schema: schema}
}

// UpsertBinding inserts the binding or replaces the role of an existing one with the same
// (scope_id, message_id, emoji_key). The stored row is scanned back into binding.
func (r *PostgresBindingsRepository) UpsertBinding(ctx context.Context, binding *models.Binding) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(bindingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.bindings (
			id, scope_id, channel_id, message_id, emoji_key, role_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (scope_id, message_id, emoji_key)
		DO UPDATE SET
			role_id = EXCLUDED.role_id,
			channel_id = EXCLUDED.channel_id,
			updated_at = NOW()
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(ctx, query,
		binding.ID,
		binding.ScopeID,
		binding.ChannelID,
		binding.MessageID,
		binding.EmojiKey,
		binding.RoleID,
	).StructScan(binding)
	if err != nil {
		return core.StoreUnavailable("failed to upsert binding", err)
	}

	return nil
}

// DeleteBindingsByMessage removes every emoji binding of a message and returns how many were removed
func (r *PostgresBindingsRepository) DeleteBindingsByMessage(
	ctx context.Context,
	scopeID, messageID string,
) (int64, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.bindings
		WHERE scope_id = $1 AND message_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, scopeID, messageID)
	if err != nil {
		return 0, core.StoreUnavailable("failed to delete bindings", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, core.StoreUnavailable("failed to get rows affected", err)
	}

	return rowsAffected, nil
}

func (r *PostgresBindingsRepository) GetBinding(
	ctx context.Context,
	scopeID, messageID, emojiKey string,
) (mo.Option[*models.Binding], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(bindingsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.bindings
		WHERE scope_id = $1 AND message_id = $2 AND emoji_key = $3`,
		columnsStr, r.schema)

	binding := &models.Binding{}
	err := db.GetContext(ctx, binding, query, scopeID, messageID, emojiKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Binding](), nil
		}
		return mo.None[*models.Binding](), core.StoreUnavailable("failed to get binding", err)
	}

	return mo.Some(binding), nil
}

func (r *PostgresBindingsRepository) ListBindingsByScope(
	ctx context.Context,
	scopeID string,
) ([]*models.Binding, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(bindingsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.bindings
		WHERE scope_id = $1
		ORDER BY created_at ASC, message_id ASC, emoji_key ASC`,
		columnsStr, r.schema)

	bindings := []*models.Binding{}
	if err := db.SelectContext(ctx, &bindings, query, scopeID); err != nil {
		return nil, core.StoreUnavailable("failed to list bindings", err)
	}

	return bindings, nil
}
