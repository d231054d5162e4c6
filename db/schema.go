package db

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

var schemaNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SchemaStatements renders the DDL for the given schema name
func SchemaStatements(schema string) (string, error) {
	if !schemaNameRegex.MatchString(schema) {
		return "", fmt.Errorf("invalid schema name: %q", schema)
	}
	return strings.ReplaceAll(schemaSQL, "{{schema}}", schema), nil
}

// EnsureSchema creates the schema and tables if they do not exist yet
func EnsureSchema(ctx context.Context, db *sqlx.DB, schema string) error {
	log.Printf("📋 Starting to ensure database schema: %s", schema)

	statements, err := SchemaStatements(schema)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, statements); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Printf("📋 Completed successfully - ensured database schema: %s", schema)
	return nil
}
