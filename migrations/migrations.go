// Package migrations embeds the goose SQL migrations of every app.
package migrations

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed todo/*.sql gallery/*.sql
var FS embed.FS

// Set names a directory of migrations inside FS.
type Set string

const (
	Todo    Set = "todo"
	Gallery Set = "gallery"
)

// versionTable keeps each app's goose history apart so both apps can share a database.
func (s Set) versionTable() string {
	return string(s) + "_goose_db_version"
}

// Up applies all pending migrations of set against dsn.
func Up(dsn string, set Set) error {
	goose.SetBaseFS(FS)
	goose.SetTableName(set.versionTable())

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, string(set)); err != nil {
		return fmt.Errorf("goose up %s: %w", set, err)
	}
	return nil
}
