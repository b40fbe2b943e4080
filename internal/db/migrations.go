package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: enforce per-owner, per-list name uniqueness in the store.
	// Earlier databases relied on the application-level duplicate check
	// alone, which two concurrent creates could both pass.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_grocery_items_owner_list_name
	     ON grocery_items(owner_id, list_type, name COLLATE NOCASE)`,
}

// Migrate ensures the schema exists and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
