package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"github.com/Curva95/discord-bot/core"
	dbtx "github.com/Curva95/discord-bot/db/tx"
	"github.com/Curva95/discord-bot/models"
)

type PostgresSettingsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for scope_settings table
var settingsColumns = []string{
	"id",
	"scope_id",
	"key",
	"value_boolean",
	"value_stringarr",
	"version",
	"created_at",
	"updated_at",
}

func NewPostgresSettingsRepository(db *sqlx.DB, schema string) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db, schema: schema}
}

func (r *PostgresSettingsRepository) UpsertBooleanSetting(
	ctx context.Context,
	scopeID, key string,
	value bool,
) (*models.Setting, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	id := core.NewID("set")
	returningStr := strings.Join(settingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %[1]s.scope_settings (
			id, scope_id, key, value_boolean
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope_id, key)
		DO UPDATE SET
			value_boolean = EXCLUDED.value_boolean,
			value_stringarr = NULL,
			version = %[1]s.scope_settings.version + 1,
			updated_at = NOW()
		RETURNING %[2]s
	`, r.schema, returningStr)

	var setting models.Setting
	err := db.QueryRowxContext(ctx, query, id, scopeID, key, value).StructScan(&setting)
	if err != nil {
		return nil, core.StoreUnavailable("failed to upsert boolean setting", err)
	}

	return &setting, nil
}

func (r *PostgresSettingsRepository) UpsertStringArraySetting(
	ctx context.Context,
	scopeID, key string,
	value []string,
) (*models.Setting, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	id := core.NewID("set")
	returningStr := strings.Join(settingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %[1]s.scope_settings (
			id, scope_id, key, value_stringarr
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope_id, key)
		DO UPDATE SET
			value_boolean = NULL,
			value_stringarr = EXCLUDED.value_stringarr,
			version = %[1]s.scope_settings.version + 1,
			updated_at = NOW()
		RETURNING %[2]s
	`, r.schema, returningStr)

	var setting models.Setting
	err := db.QueryRowxContext(ctx, query, id, scopeID, key, pq.Array(value)).StructScan(&setting)
	if err != nil {
		return nil, core.StoreUnavailable("failed to upsert string array setting", err)
	}

	return &setting, nil
}

func (r *PostgresSettingsRepository) GetSetting(
	ctx context.Context,
	scopeID, key string,
) (mo.Option[*models.Setting], error) {
	return r.getSetting(ctx, scopeID, key, "")
}

// GetSettingForUpdate locks the setting row until the surrounding transaction ends.
// It must be called with a transaction in ctx.
func (r *PostgresSettingsRepository) GetSettingForUpdate(
	ctx context.Context,
	scopeID, key string,
) (mo.Option[*models.Setting], error) {
	if _, ok := dbtx.TransactionFromContext(ctx); !ok {
		return mo.None[*models.Setting](), fmt.Errorf("GetSettingForUpdate requires a transaction")
	}
	return r.getSetting(ctx, scopeID, key, "FOR UPDATE")
}

func (r *PostgresSettingsRepository) getSetting(
	ctx context.Context,
	scopeID, key, lockClause string,
) (mo.Option[*models.Setting], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(settingsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.scope_settings
		WHERE scope_id = $1
		  AND key = $2
		%s`, columnsStr, r.schema, lockClause)

	setting := &models.Setting{}
	err := db.GetContext(ctx, setting, query, scopeID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Setting](), nil
		}
		return mo.None[*models.Setting](), core.StoreUnavailable("failed to get setting", err)
	}

	return mo.Some(setting), nil
}
