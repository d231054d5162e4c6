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

type PostgresAuditDestinationsRepository struct {
	db     *sqlx.DB
	schema string
}

var auditDestinationsColumns = []string{
	"scope_id",
	"channel_id",
	"created_at",
	"updated_at",
}

func NewPostgresAuditDestinationsRepository(db *sqlx.DB, schema string) *PostgresAuditDestinationsRepository {
	return &PostgresAuditDestinationsRepository{db: db, schema: schema}
}

func (r *PostgresAuditDestinationsRepository) UpsertAuditDestination(
	ctx context.Context,
	scopeID, channelID string,
) (*models.AuditDestination, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(auditDestinationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.audit_destinations (scope_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (scope_id)
		DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			updated_at = NOW()
		RETURNING %s`, r.schema, returningStr)

	var destination models.AuditDestination
	if err := db.QueryRowxContext(ctx, query, scopeID, channelID).StructScan(&destination); err != nil {
		return nil, core.StoreUnavailable("failed to upsert audit destination", err)
	}

	return &destination, nil
}

func (r *PostgresAuditDestinationsRepository) GetAuditDestination(
	ctx context.Context,
	scopeID string,
) (mo.Option[*models.AuditDestination], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(auditDestinationsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.audit_destinations
		WHERE scope_id = $1`, columnsStr, r.schema)

	destination := &models.AuditDestination{}
	err := db.GetContext(ctx, destination, query, scopeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.AuditDestination](), nil
		}
		return mo.None[*models.AuditDestination](), core.StoreUnavailable("failed to get audit destination", err)
	}

	return mo.Some(destination), nil
}
