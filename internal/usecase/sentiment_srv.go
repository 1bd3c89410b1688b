package usecase

import (
	"context"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/pkg/apperror"

	"go.uber.org/zap"
)

// SentimentService labels text without storing it.
type SentimentService interface {
	Predict(ctx context.Context, text string) (entity.Sentiment, error)
}

type sentimentService struct {
	predictor Predictor
	log       *zap.Logger
}

func NewSentimentService(predictor Predictor, log *zap.Logger) SentimentService {
	return &sentimentService{
		predictor: predictor,
		log:       log.With(zap.String("service", "sentiment")),
	}
}

func (s *sentimentService) Predict(ctx context.Context, text string) (entity.Sentiment, error) {
	label, err := s.predictor.Predict(ctx, text)
	if err != nil {
		s.log.Warn("Prediction failed", zap.Error(err))
		if !apperror.Is(err, apperror.KindInference) {
			err = apperror.Inference("prediction failed", err)
		}
		return entity.SentimentError, err
	}
	return label, nil
}
