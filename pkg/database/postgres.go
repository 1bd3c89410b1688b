package database

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"movie-sentiment/pkg/database/migrations"
	"movie-sentiment/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
	"go.uber.org/zap"
)

// PgxIface is the subset of the pool the repositories depend on.
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

const schemaVersionTable = "public.schema_version"

// DB wrapper struct
type DB struct {
	pool *pgxpool.Pool

	bootstrapOnce sync.Once
	bootstrapErr  error
}

// Query implements PgxIface
func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

// QueryRow implements PgxIface
func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

// Exec implements PgxIface
func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return db.pool.Exec(ctx, sql, args...)
}

// Begin implements PgxIface
func (db *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	return db.pool.Begin(ctx)
}

// Ping implements PgxIface
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close implements PgxIface
func (db *DB) Close() {
	db.pool.Close()
}

// ConnString builds the keyword/value connection string for config.
func ConnString(config utils.DatabaseConfig) string {
	return fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		config.User, config.Password, config.Name, config.Host, config.Port)
}

// InitDB opens the connection pool described by config.
func InitDB(ctx context.Context, config utils.DatabaseConfig) (*DB, error) {
	return Connect(ctx, ConnString(config), config.MaxConns)
}

// Connect opens a pool for connStr and pings it.
func Connect(ctx context.Context, connStr string, maxConns int32) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	// A single interactive user needs very few connections; none are kept warm.
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Bootstrap ensures the movies and reviews tables exist and, when they were
// just created and seed is set, loads the initial movie list. It runs at most
// once per DB value; later calls return the first result.
func (db *DB) Bootstrap(ctx context.Context, seed bool, log *zap.Logger) error {
	db.bootstrapOnce.Do(func() {
		db.bootstrapErr = db.bootstrap(ctx, seed, log)
	})
	return db.bootstrapErr
}

func (db *DB) bootstrap(ctx context.Context, seed bool, log *zap.Logger) error {
	existed, err := db.tablesExist(ctx)
	if err != nil {
		return fmt.Errorf("check schema: %w", err)
	}

	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection for migration: %w", err)
	}
	defer conn.Release()

	if err := runMigrations(ctx, conn.Conn(), log); err != nil {
		return err
	}

	if existed || !seed {
		return nil
	}

	log.Info("Tables not found, loading seed data")
	script, err := fs.ReadFile(migrations.Seed, "seed/postgres.sql")
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	if _, err := conn.Exec(ctx, string(script)); err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	return nil
}

func (db *DB) tablesExist(ctx context.Context) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT to_regclass('public.movies') IS NOT NULL AND to_regclass('public.reviews') IS NOT NULL`,
	).Scan(&exists)
	return exists, err
}

func runMigrations(ctx context.Context, conn *pgx.Conn, log *zap.Logger) error {
	migrationFS, err := fs.Sub(migrations.Postgres, "postgres")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	migrator, err := migrate.NewMigrator(ctx, conn, schemaVersionTable)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := migrator.LoadMigrations(migrationFS); err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	current, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		log.Debug("Could not read schema version (fresh database)", zap.Error(err))
	} else {
		log.Debug("Schema version", zap.Int32("version", current))
	}

	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}
