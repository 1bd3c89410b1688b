package usecase

import (
	"context"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/internal/data/repository"

	"go.uber.org/zap"
)

// Predictor labels review text. *inference.Classifier implements it.
type Predictor interface {
	Predict(ctx context.Context, text string) (entity.Sentiment, error)
}

type Service struct {
	Movie     MovieService
	Review    ReviewService
	Sentiment SentimentService
}

func NewService(repo *repository.Repository, predictor Predictor, log *zap.Logger) *Service {
	return &Service{
		Movie:     NewMovieService(repo, log),
		Review:    NewReviewService(repo, predictor, log),
		Sentiment: NewSentimentService(predictor, log),
	}
}
