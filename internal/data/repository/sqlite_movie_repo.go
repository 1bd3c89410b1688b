package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"movie-sentiment/internal/data/entity"

	"go.uber.org/zap"
)

type sqliteMovieRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLiteMovieRepository(db *sql.DB, log *zap.Logger) MovieRepository {
	return &sqliteMovieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie"), zap.String("driver", "sqlite")),
	}
}

func (r *sqliteMovieRepository) Create(ctx context.Context, title string) (*entity.Movie, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT INTO movies (title) VALUES (?)`, title)
	if err != nil {
		err = translateSQLiteError(err)
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil, fmt.Errorf("create movie %q: %w", title, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read movie id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit movie: %w", err)
	}

	r.log.Info("Movie created",
		zap.Int64("movie_id", id),
		zap.String("title", title),
	)

	return &entity.Movie{ID: id, Title: title}, nil
}

func (r *sqliteMovieRepository) FindByID(ctx context.Context, id int64) (*entity.Movie, error) {
	var movie entity.Movie
	err := r.db.QueryRowContext(ctx,
		`SELECT movie_id, title FROM movies WHERE movie_id = ?`, id,
	).Scan(&movie.ID, &movie.Title)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.Int64("movie_id", id),
		)
		return nil, fmt.Errorf("find movie %d: %w", id, err)
	}

	return &movie, nil
}

func (r *sqliteMovieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT movie_id, title FROM movies ORDER BY movie_id`)
	if err != nil {
		r.log.Error("Failed to find all movies", zap.Error(err))
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*entity.Movie, 0)
	for rows.Next() {
		var movie entity.Movie
		if err := rows.Scan(&movie.ID, &movie.Title); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, &movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	return movies, nil
}
