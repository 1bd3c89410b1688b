package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"movie-sentiment/internal/data/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestMovieRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMovieRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO movies (title) VALUES ($1) RETURNING movie_id`)).
		WithArgs("Arrival").
		WillReturnRows(pgxmock.NewRows([]string{"movie_id"}).AddRow(int64(6)))
	mock.ExpectCommit()

	movie, err := repo.Create(context.Background(), "Arrival")
	require.NoError(t, err)
	assert.Equal(t, &entity.Movie{ID: 6, Title: "Arrival"}, movie)
}

func TestMovieRepository_CreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMovieRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO movies`)).
		WithArgs("Inception").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})
	mock.ExpectRollback()

	movie, err := repo.Create(context.Background(), "Inception")
	assert.Nil(t, movie)
	assert.ErrorIs(t, err, entity.ErrDuplicateMovie)
}

func TestMovieRepository_FindByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMovieRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT movie_id, title FROM movies WHERE movie_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"movie_id", "title"}).AddRow(int64(1), "Inception"))

	movie, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, "Inception", movie.Title)
}

func TestMovieRepository_FindByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMovieRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT movie_id, title FROM movies WHERE movie_id = $1`)).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	movie, err := repo.FindByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, movie)
}

func TestMovieRepository_FindAll(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMovieRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT movie_id, title FROM movies ORDER BY movie_id`)).
		WillReturnRows(pgxmock.NewRows([]string{"movie_id", "title"}).
			AddRow(int64(1), "Inception").
			AddRow(int64(2), "The Dark Knight"))

	movies, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "1. Inception", movies[0].String())
	assert.Equal(t, "2. The Dark Knight", movies[1].String())
}

func TestMovieRepository_FindAllQueryError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMovieRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT movie_id, title FROM movies`)).
		WillReturnError(errors.New("connection reset"))

	movies, err := repo.FindAll(context.Background())
	assert.Nil(t, movies)
	assert.ErrorContains(t, err, "connection reset")
}

func TestReviewRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews (movie_id, review, sentiment)`)).
		WithArgs(int64(1), "Loved it", "Positive").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectCommit()

	review := &entity.Review{MovieID: 1, Text: "Loved it", Sentiment: entity.SentimentPositive}
	require.NoError(t, repo.Create(context.Background(), review))
	assert.Equal(t, int64(10), review.ID)
}

func TestReviewRepository_CreateUnknownMovie(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WithArgs(int64(99), "Dangling", "Negative").
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.Review{
		MovieID:   99,
		Text:      "Dangling",
		Sentiment: entity.SentimentNegative,
	})
	assert.ErrorIs(t, err, entity.ErrMovieNotFound)
}

func TestReviewRepository_FindByMovieID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, movie_id, review, sentiment`)).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "movie_id", "review", "sentiment"}).
			AddRow(int64(1), int64(1), "Great", "Positive").
			AddRow(int64(3), int64(1), "Dull", "Negative"))

	reviews, err := repo.FindByMovieID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, entity.SentimentPositive, reviews[0].Sentiment)
	assert.Equal(t, entity.SentimentNegative, reviews[1].Sentiment)
	assert.Equal(t, int64(3), reviews[1].ID)
}

func TestReviewRepository_FindByMovieIDEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, movie_id, review, sentiment`)).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "movie_id", "review", "sentiment"}))

	reviews, err := repo.FindByMovieID(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestReviewRepository_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reviews`)).
		WithArgs(int64(7), "Changed my mind", "Negative").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &entity.Review{
		ID:        7,
		Text:      "Changed my mind",
		Sentiment: entity.SentimentNegative,
	})
	assert.NoError(t, err)
}

func TestReviewRepository_DeleteMissingIsNoop(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), 404))
}

func TestReviewRepository_DeleteRollsBackOnError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews`)).
		WithArgs(int64(1)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 1)
	assert.ErrorContains(t, err, "deadlock detected")
}

func TestReviewRepository_GetMovieSentimentStats(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(*) AS total`)).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"total", "positive", "negative"}).
			AddRow(int64(3), int64(2), int64(1)))

	stats, err := repo.GetMovieSentimentStats(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, &entity.SentimentStats{MovieID: 2, Total: 3, Positive: 2, Negative: 1}, stats)
}
