package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Curva95/discord-bot/core"
)

type PostgresHealthRepository struct {
	db *sqlx.DB
}

func NewPostgresHealthRepository(db *sqlx.DB) *PostgresHealthRepository {
	return &PostgresHealthRepository{db: db}
}

// CurrentTime round-trips a trivial query and returns the database clock
func (r *PostgresHealthRepository) CurrentTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := r.db.GetContext(ctx, &now, `SELECT NOW() AS now`); err != nil {
		return time.Time{}, core.StoreUnavailable("failed to query database time", err)
	}
	return now, nil
}
