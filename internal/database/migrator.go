// Package database provides the PostgreSQL pool and schema migrations.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsRoot = "migrations"

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Migrator applies plain .up.sql migrations in lexical order, once each.
type Migrator struct {
	db    *sql.DB
	log   *slog.Logger
	files fs.FS
	root  string
}

// NewMigrator constructs a Migrator over the migrations bundled with the binary.
func NewMigrator(db *sql.DB, log *slog.Logger) *Migrator {
	return NewMigratorFS(db, log, embeddedMigrations, migrationsRoot)
}

// NewMigratorFS constructs a Migrator reading migrations from root inside files.
func NewMigratorFS(db *sql.DB, log *slog.Logger, files fs.FS, root string) *Migrator {
	if log == nil {
		log = slog.Default()
	}

	return &Migrator{
		db:    db,
		log:   log,
		files: files,
		root:  root,
	}
}

// Apply records applied files in schema_migrations and runs every pending one in its own transaction.
func (m *Migrator) Apply(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := ListMigrations(m.files, m.root)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	if len(names) == 0 {
		m.log.Info("no .up.sql migrations found", slog.String("dir", m.root))
		return nil
	}

	for _, name := range names {
		applied, err := m.isApplied(ctx, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := m.applyFile(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

func (m *Migrator) isApplied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check migration %q: %w", name, err)
	}
	return exists, nil
}

func (m *Migrator) applyFile(ctx context.Context, name string) error {
	scopedLog := m.log.With(slog.String("file", name))
	scopedLog.Info("applying migration")

	data, err := fs.ReadFile(m.files, path.Join(m.root, name))
	if err != nil {
		return fmt.Errorf("read migration %q: %w", name, err)
	}

	statement := strings.TrimSpace(string(data))
	if len(statement) == 0 {
		scopedLog.Warn("migration is empty, skipping")
		return nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction for migration %q: %w", name, err)
	}

	if _, execErr := tx.ExecContext(ctx, statement); execErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			scopedLog.Error("rollback error", "error", rbErr)
		}
		return fmt.Errorf("execute migration %q: %w", name, execErr)
	}

	if _, execErr := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, name); execErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			scopedLog.Error("rollback error", "error", rbErr)
		}
		return fmt.Errorf("record migration %q: %w", name, execErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit migration %q: %w", name, commitErr)
	}

	return nil
}

func isUpMigration(name string) bool {
	return strings.HasSuffix(name, ".up.sql")
}

// ListMigrations returns all .up.sql files in dir in lexical order.
func ListMigrations(dir fs.FS, root string) ([]string, error) {
	entries, err := fs.ReadDir(dir, root)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isUpMigration(e.Name()) {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}
