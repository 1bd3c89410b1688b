package repository

import (
	"context"
	"database/sql"
	"fmt"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, title string) (*entity.Movie, error)
	FindByID(ctx context.Context, id int64) (*entity.Movie, error)
	FindAll(ctx context.Context) ([]*entity.Movie, error)
}

type ReviewRepository interface {
	// Create does not check that the movie exists; a dangling movie id is
	// rejected by the store's foreign key and reported as entity.ErrMovieNotFound.
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id int64) (*entity.Review, error)
	FindByMovieID(ctx context.Context, movieID int64) ([]*entity.Review, error)

	// Update and Delete are unconditional by id and succeed silently when the
	// id does not exist.
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id int64) error

	GetMovieSentimentStats(ctx context.Context, movieID int64) (*entity.SentimentStats, error)
}

type Repository struct {
	Movie  MovieRepository
	Review ReviewRepository
}

// NewRepository builds the Postgres-backed repositories.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Movie:  NewMovieRepository(db, log),
		Review: NewReviewRepository(db, log),
	}
}

// NewSQLiteRepository builds the SQLite-backed repositories.
func NewSQLiteRepository(db *sql.DB, log *zap.Logger) *Repository {
	return &Repository{
		Movie:  NewSQLiteMovieRepository(db, log),
		Review: NewSQLiteReviewRepository(db, log),
	}
}

// withTx runs fn in its own transaction: commit on success, rollback on any
// error.
func withTx(ctx context.Context, db database.PgxIface, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
