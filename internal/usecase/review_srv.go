package usecase

import (
	"context"
	"errors"
	"fmt"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/internal/data/repository"
	"movie-sentiment/internal/dto/request"
	"movie-sentiment/internal/dto/response"
	"movie-sentiment/pkg/apperror"
	"movie-sentiment/pkg/utils"

	"go.uber.org/zap"
)

type ReviewService interface {
	// AnalyzeReview labels and stores a review. When inference fails nothing
	// is stored and the returned response carries the Error label alongside
	// the error.
	AnalyzeReview(ctx context.Context, req *request.AnalyzeReviewRequest) (*response.ReviewResponse, error)
	GetMovieReviews(ctx context.Context, movieID int64) ([]response.ReviewResponse, error)
	UpdateReview(ctx context.Context, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, movieID, reviewID int64) error

	// Stats
	GetMovieStats(ctx context.Context, movieID int64) (*response.SentimentStatsResponse, error)
}

type reviewService struct {
	repo      *repository.Repository
	predictor Predictor
	log       *zap.Logger
}

func NewReviewService(repo *repository.Repository, predictor Predictor, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:      repo,
		predictor: predictor,
		log:       log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) AnalyzeReview(ctx context.Context, req *request.AnalyzeReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Analyze review validation failed", zap.Any("errors", errs))
		return nil, apperror.Inputf("invalid review: %s", utils.FormatValidationErrors(errs))
	}

	review := &entity.Review{MovieID: req.MovieID, Text: req.Text}

	label, err := s.predict(ctx, req.Text)
	if err != nil {
		review.Sentiment = entity.SentimentError
		resp := response.ReviewToResponse(review)
		return &resp, err
	}
	review.Sentiment = label

	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.Int64("movie_id", req.MovieID),
		)
		if errors.Is(err, entity.ErrMovieNotFound) {
			return nil, apperror.Persistence(fmt.Sprintf("movie %d not found", req.MovieID), err)
		}
		return nil, apperror.Persistence("could not save review", err)
	}

	s.log.Info("Review analyzed",
		zap.Int64("review_id", review.ID),
		zap.Int64("movie_id", review.MovieID),
		zap.String("sentiment", review.Sentiment.String()),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetMovieReviews(ctx context.Context, movieID int64) ([]response.ReviewResponse, error) {
	reviews, err := s.repo.Review.FindByMovieID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get movie reviews",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, apperror.Persistence("could not load reviews", err)
	}

	return response.ReviewsToResponse(reviews), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update review validation failed", zap.Any("errors", errs))
		return nil, apperror.Inputf("invalid review: %s", utils.FormatValidationErrors(errs))
	}

	review, err := s.findOwnedReview(ctx, req.MovieID, req.ReviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, &apperror.Error{
			Kind:    apperror.KindInput,
			Message: fmt.Sprintf("review %d not found", req.ReviewID),
			Cause:   entity.ErrReviewNotFound,
		}
	}

	updated := &entity.Review{ID: review.ID, MovieID: review.MovieID, Text: req.Text}

	label, err := s.predict(ctx, req.Text)
	if err != nil {
		updated.Sentiment = entity.SentimentError
		resp := response.ReviewToResponse(updated)
		return &resp, err
	}
	updated.Sentiment = label

	if err := s.repo.Review.Update(ctx, updated); err != nil {
		s.log.Error("Failed to update review",
			zap.Error(err),
			zap.Int64("review_id", req.ReviewID),
		)
		return nil, apperror.Persistence("could not update review", err)
	}

	s.log.Info("Review updated",
		zap.Int64("review_id", updated.ID),
		zap.String("sentiment", updated.Sentiment.String()),
	)

	resp := response.ReviewToResponse(updated)
	return &resp, nil
}

// DeleteReview removes a review of movieID. Deleting an id that does not
// exist succeeds; deleting another movie's review is refused.
func (s *reviewService) DeleteReview(ctx context.Context, movieID, reviewID int64) error {
	if reviewID <= 0 {
		return apperror.Inputf("invalid review id %d", reviewID)
	}

	review, err := s.findOwnedReview(ctx, movieID, reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		s.log.Debug("Review already absent", zap.Int64("review_id", reviewID))
		return nil
	}

	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		s.log.Error("Failed to delete review",
			zap.Error(err),
			zap.Int64("review_id", reviewID),
		)
		return apperror.Persistence("could not delete review", err)
	}

	return nil
}

func (s *reviewService) GetMovieStats(ctx context.Context, movieID int64) (*response.SentimentStatsResponse, error) {
	stats, err := s.repo.Review.GetMovieSentimentStats(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get review stats",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, apperror.Persistence("could not load statistics", err)
	}

	resp := response.StatsToResponse(stats)
	return &resp, nil
}

// findOwnedReview returns the review when it belongs to movieID, nil when it
// does not exist, and an input error when it belongs to another movie.
func (s *reviewService) findOwnedReview(ctx context.Context, movieID, reviewID int64) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to find review",
			zap.Error(err),
			zap.Int64("review_id", reviewID),
		)
		return nil, apperror.Persistence("could not load review", err)
	}
	if review == nil {
		return nil, nil
	}

	if review.MovieID != movieID {
		s.log.Warn("Review belongs to another movie",
			zap.Int64("review_id", reviewID),
			zap.Int64("movie_id", movieID),
			zap.Int64("owner_movie_id", review.MovieID),
		)
		return nil, &apperror.Error{
			Kind:    apperror.KindInput,
			Message: fmt.Sprintf("review %d does not belong to this movie", reviewID),
			Cause:   entity.ErrReviewNotFound,
		}
	}

	return review, nil
}

func (s *reviewService) predict(ctx context.Context, text string) (entity.Sentiment, error) {
	label, err := s.predictor.Predict(ctx, text)
	if err != nil {
		s.log.Warn("Prediction failed, review not stored", zap.Error(err))
		if !apperror.Is(err, apperror.KindInference) {
			err = apperror.Inference("prediction failed", err)
		}
		return entity.SentimentError, err
	}
	if !label.Valid() {
		return entity.SentimentError, apperror.Inference("prediction failed",
			fmt.Errorf("unexpected label %q", label))
	}
	return label, nil
}
