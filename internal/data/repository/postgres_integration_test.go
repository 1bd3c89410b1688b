//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

var (
	testDB          *database.DB
	testDatabaseURL string
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	// One container for the whole package
	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("movies"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		_ = postgresContainer.Terminate(ctx)
		os.Exit(1)
	}

	testDatabaseURL = connStr

	testDB, err = database.Connect(ctx, connStr, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test database: %v\n", err)
		_ = postgresContainer.Terminate(ctx)
		os.Exit(1)
	}

	if err := testDB.Bootstrap(ctx, true, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap schema: %v\n", err)
		testDB.Close()
		_ = postgresContainer.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Close()
	if err := postgresContainer.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to terminate postgres container: %v\n", err)
	}
	os.Exit(code)
}

func setupPostgresRepository(t *testing.T) *Repository {
	t.Helper()

	t.Cleanup(func() {
		_, err := testDB.Exec(context.Background(), "DELETE FROM reviews")
		assert.NoError(t, err)
	})
	return NewRepository(testDB, zap.NewNop())
}

func TestPostgres_SeededMovies(t *testing.T) {
	repo := setupPostgresRepository(t)

	movies, err := repo.Movie.FindAll(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(movies), 5)
	assert.Equal(t, "Inception", movies[0].Title)
}

func TestPostgres_BootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()

	// a second pool over the same schema must neither fail nor reseed
	other, err := database.Connect(ctx, testDatabaseURL, 1)
	require.NoError(t, err)
	defer other.Close()

	before, err := NewRepository(testDB, zap.NewNop()).Movie.FindAll(ctx)
	require.NoError(t, err)

	require.NoError(t, other.Bootstrap(ctx, true, zap.NewNop()))

	after, err := NewRepository(other, zap.NewNop()).Movie.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestPostgres_ReviewLifecycle(t *testing.T) {
	repo := setupPostgresRepository(t)
	ctx := context.Background()

	review := &entity.Review{MovieID: 1, Text: "A dream within a dream", Sentiment: entity.SentimentPositive}
	require.NoError(t, repo.Review.Create(ctx, review))
	require.Positive(t, review.ID)

	review.Text = "Too confusing"
	review.Sentiment = entity.SentimentNegative
	require.NoError(t, repo.Review.Update(ctx, review))

	found, err := repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, review, found)

	stats, err := repo.Review.GetMovieSentimentStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Negative)

	require.NoError(t, repo.Review.Delete(ctx, review.ID))
	require.NoError(t, repo.Review.Delete(ctx, review.ID))

	reviews, err := repo.Review.FindByMovieID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestPostgres_ConstraintErrors(t *testing.T) {
	repo := setupPostgresRepository(t)
	ctx := context.Background()

	_, err := repo.Movie.Create(ctx, "Inception")
	assert.ErrorIs(t, err, entity.ErrDuplicateMovie)

	err = repo.Review.Create(ctx, &entity.Review{MovieID: 9999, Text: "x", Sentiment: entity.SentimentPositive})
	assert.ErrorIs(t, err, entity.ErrMovieNotFound)
}
