package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/internal/data/repository"
	"movie-sentiment/internal/dto/request"
	"movie-sentiment/internal/dto/response"
	"movie-sentiment/pkg/apperror"
	"movie-sentiment/pkg/utils"

	"go.uber.org/zap"
)

type MovieService interface {
	ListMovies(ctx context.Context) ([]response.MovieResponse, error)
	GetMovie(ctx context.Context, id int64) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error)
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(repo *repository.Repository, log *zap.Logger) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) ListMovies(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list movies", zap.Error(err))
		return nil, apperror.Persistence("could not load movies", err)
	}

	return response.MoviesToResponse(movies), nil
}

func (s *movieService) GetMovie(ctx context.Context, id int64) (*response.MovieResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get movie", zap.Error(err), zap.Int64("movie_id", id))
		return nil, apperror.Persistence("could not load movie", err)
	}
	if movie == nil {
		return nil, &apperror.Error{
			Kind:    apperror.KindInput,
			Message: fmt.Sprintf("movie %d not found", id),
			Cause:   entity.ErrMovieNotFound,
		}
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error) {
	req.Title = strings.TrimSpace(req.Title)

	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create movie validation failed", zap.Any("errors", errs))
		return nil, apperror.Inputf("invalid movie: %s", utils.FormatValidationErrors(errs))
	}

	movie, err := s.repo.Movie.Create(ctx, req.Title)
	if err != nil {
		if errors.Is(err, entity.ErrDuplicateMovie) {
			return nil, apperror.Persistence(fmt.Sprintf("movie %q already exists", req.Title), err)
		}
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", req.Title))
		return nil, apperror.Persistence("could not save movie", err)
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}
