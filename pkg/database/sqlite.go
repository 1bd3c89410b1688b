package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"movie-sentiment/pkg/database/migrations"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLite is a file-backed store for running without a database server.
type SQLite struct {
	DB   *sql.DB
	path string

	bootstrapOnce sync.Once
	bootstrapErr  error
}

// OpenSQLite opens (creating if needed) the database file at path with
// foreign keys enforced.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// foreign_keys is a per-connection pragma, so it goes in the DSN.
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &SQLite{DB: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.DB.Close()
}

// Bootstrap applies pending migrations and, when the tables did not exist
// before and seed is set, loads the initial movie list. Runs at most once.
func (s *SQLite) Bootstrap(ctx context.Context, seed bool, log *zap.Logger) error {
	s.bootstrapOnce.Do(func() {
		s.bootstrapErr = s.bootstrap(ctx, seed, log)
	})
	return s.bootstrapErr
}

func (s *SQLite) bootstrap(ctx context.Context, seed bool, log *zap.Logger) error {
	existed, err := s.tablesExist(ctx)
	if err != nil {
		return fmt.Errorf("check schema: %w", err)
	}

	fsys, err := fs.Sub(migrations.SQLite, "sqlite")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	if err := s.migrate(ctx, fsys, log); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if existed || !seed {
		return nil
	}

	log.Info("Tables not found, loading seed data")
	script, err := fs.ReadFile(migrations.Seed, "seed/sqlite.sql")
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	return nil
}

func (s *SQLite) tablesExist(ctx context.Context) (bool, error) {
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('movies', 'reviews')`,
	).Scan(&count)
	return count == 2, err
}

// migrate runs every NNN_name.up.sql newer than the recorded version, each in
// its own transaction together with its version row.
func (s *SQLite) migrate(ctx context.Context, fsys fs.FS, log *zap.Logger) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.DB.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(ctx, version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		log.Debug("Applied migration", zap.String("migration", name))
	}

	return nil
}

func (s *SQLite) applyMigration(ctx context.Context, version int, script string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}
