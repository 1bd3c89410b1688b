package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (movie_id, review, sentiment)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			review.MovieID,
			review.Text,
			string(review.Sentiment),
		).Scan(&review.ID)
	})
	if err != nil {
		err = translatePgError(err)
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.Int64("movie_id", review.MovieID),
		)
		return fmt.Errorf("create review for movie %d: %w", review.MovieID, err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*entity.Review, error) {
	query := `
		SELECT id, movie_id, review, sentiment
		FROM reviews
		WHERE id = $1
	`

	var (
		review    entity.Review
		sentiment string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.MovieID,
		&review.Text,
		&sentiment,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return nil, fmt.Errorf("find review %d: %w", id, err)
	}

	review.Sentiment = entity.Sentiment(sentiment)
	return &review, nil
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID int64) ([]*entity.Review, error) {
	query := `
		SELECT id, movie_id, review, sentiment
		FROM reviews
		WHERE movie_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find reviews by movie ID",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("find reviews for movie %d: %w", movieID, err)
	}
	defer rows.Close()

	reviews := make([]*entity.Review, 0)
	for rows.Next() {
		var (
			review    entity.Review
			sentiment string
		)
		if err := rows.Scan(&review.ID, &review.MovieID, &review.Text, &sentiment); err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		review.Sentiment = entity.Sentiment(sentiment)
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET review = $2, sentiment = $3
		WHERE id = $1
	`

	var result pgconn.CommandTag
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = tx.Exec(ctx, query, review.ID, review.Text, string(review.Sentiment))
		return err
	})
	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.Int64("review_id", review.ID),
		)
		return fmt.Errorf("update review %d: %w", review.ID, err)
	}

	r.log.Debug("Review updated",
		zap.Int64("review_id", review.ID),
		zap.Int64("rows_affected", result.RowsAffected()),
	)

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reviews WHERE id = $1`

	var result pgconn.CommandTag
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = tx.Exec(ctx, query, id)
		return err
	})
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return fmt.Errorf("delete review %d: %w", id, err)
	}

	r.log.Info("Review deleted",
		zap.Int64("review_id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}

func (r *reviewRepository) GetMovieSentimentStats(ctx context.Context, movieID int64) (*entity.SentimentStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE sentiment = 'Positive') AS positive,
			COUNT(*) FILTER (WHERE sentiment = 'Negative') AS negative
		FROM reviews
		WHERE movie_id = $1
	`

	stats := &entity.SentimentStats{MovieID: movieID}
	err := r.db.QueryRow(ctx, query, movieID).Scan(&stats.Total, &stats.Positive, &stats.Negative)
	if err != nil {
		r.log.Error("Failed to get movie sentiment stats",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("get sentiment stats for movie %d: %w", movieID, err)
	}

	return stats, nil
}
