package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"movie-sentiment/internal/data/entity"

	"go.uber.org/zap"
)

type sqliteReviewRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLiteReviewRepository(db *sql.DB, log *zap.Logger) ReviewRepository {
	return &sqliteReviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review"), zap.String("driver", "sqlite")),
	}
}

// inTx runs fn in a transaction, committing only when fn succeeds.
func (r *sqliteReviewRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqliteReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO reviews (movie_id, review, sentiment) VALUES (?, ?, ?)`,
			review.MovieID, review.Text, string(review.Sentiment),
		)
		if err != nil {
			return err
		}
		review.ID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		err = translateSQLiteError(err)
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.Int64("movie_id", review.MovieID),
		)
		return fmt.Errorf("create review for movie %d: %w", review.MovieID, err)
	}

	return nil
}

func (r *sqliteReviewRepository) FindByID(ctx context.Context, id int64) (*entity.Review, error) {
	var (
		review    entity.Review
		sentiment string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, movie_id, review, sentiment FROM reviews WHERE id = ?`, id,
	).Scan(&review.ID, &review.MovieID, &review.Text, &sentiment)

	if errors.Is(err, sql.ErrNoRows) {
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

func (r *sqliteReviewRepository) FindByMovieID(ctx context.Context, movieID int64) ([]*entity.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, movie_id, review, sentiment FROM reviews WHERE movie_id = ? ORDER BY id`,
		movieID,
	)
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
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		review.Sentiment = entity.Sentiment(sentiment)
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

func (r *sqliteReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE reviews SET review = ?, sentiment = ? WHERE id = ?`,
			review.Text, string(review.Sentiment), review.ID,
		)
		return err
	})
	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.Int64("review_id", review.ID),
		)
		return fmt.Errorf("update review %d: %w", review.ID, err)
	}

	return nil
}

func (r *sqliteReviewRepository) Delete(ctx context.Context, id int64) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
		return err
	})
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return fmt.Errorf("delete review %d: %w", id, err)
	}

	r.log.Info("Review deleted", zap.Int64("review_id", id))
	return nil
}

func (r *sqliteReviewRepository) GetMovieSentimentStats(ctx context.Context, movieID int64) (*entity.SentimentStats, error) {
	stats := &entity.SentimentStats{MovieID: movieID}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN sentiment = 'Positive' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN sentiment = 'Negative' THEN 1 ELSE 0 END), 0)
		FROM reviews
		WHERE movie_id = ?
	`, movieID).Scan(&stats.Total, &stats.Positive, &stats.Negative)
	if err != nil {
		r.log.Error("Failed to get movie sentiment stats",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("get sentiment stats for movie %d: %w", movieID, err)
	}

	return stats, nil
}
