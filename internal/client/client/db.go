package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bookflix/internal/client/migrations"
	"github.com/dmitrijs2005/bookflix/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local SQLite file at path and
// brings its schema up to date. A leading "~" is expanded and missing parent
// directories are created.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	dsn, err := filex.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer at a time; SQLite would otherwise report SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}
