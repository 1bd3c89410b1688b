package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) Create(ctx context.Context, title string) (*entity.Movie, error) {
	query := `INSERT INTO movies (title) VALUES ($1) RETURNING movie_id`

	movie := &entity.Movie{Title: title}
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, title).Scan(&movie.ID)
	})
	if err != nil {
		err = translatePgError(err)
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil, fmt.Errorf("create movie %q: %w", title, err)
	}

	r.log.Info("Movie created",
		zap.Int64("movie_id", movie.ID),
		zap.String("title", title),
	)

	return movie, nil
}

func (r *movieRepository) FindByID(ctx context.Context, id int64) (*entity.Movie, error) {
	query := `SELECT movie_id, title FROM movies WHERE movie_id = $1`

	var movie entity.Movie
	err := r.db.QueryRow(ctx, query, id).Scan(&movie.ID, &movie.Title)

	if errors.Is(err, pgx.ErrNoRows) {
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

func (r *movieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	query := `SELECT movie_id, title FROM movies ORDER BY movie_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all movies", zap.Error(err))
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*entity.Movie, 0)
	for rows.Next() {
		var movie entity.Movie
		if err := rows.Scan(&movie.ID, &movie.Title); err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, &movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	r.log.Debug("Movies found", zap.Int("count", len(movies)))

	return movies, nil
}
