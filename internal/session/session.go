// Package session holds the interactive menu state machine and the console
// that drives it.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-sentiment/internal/dto/request"
	"movie-sentiment/internal/dto/response"
	"movie-sentiment/internal/usecase"
	"movie-sentiment/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type State int

const (
	StateMainMenu State = iota
	StateMovieSelected
	StateExited
)

func (s State) String() string {
	switch s {
	case StateMainMenu:
		return "main_menu"
	case StateMovieSelected:
		return "movie_selected"
	case StateExited:
		return "exited"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrSessionClosed     = errors.New("session closed")
	ErrInvalidTransition = errors.New("invalid transition")
)

// Session tracks where the user is in the menus. It keeps only the selected
// movie; everything shown is fetched again on each call.
type Session struct {
	svc     *usecase.Service
	timeout time.Duration
	log     *zap.Logger

	state State
	movie *response.MovieResponse
}

// New starts a session in the main menu. A positive timeout bounds every
// store and inference call.
func New(svc *usecase.Service, timeout time.Duration, log *zap.Logger) *Session {
	return &Session{
		svc:     svc,
		timeout: timeout,
		log: log.With(
			zap.String("component", "session"),
			zap.String("session_id", uuid.NewString()),
		),
		state: StateMainMenu,
	}
}

func (s *Session) State() State {
	return s.state
}

// Movie returns the selected movie, or nil outside a movie menu.
func (s *Session) Movie() *response.MovieResponse {
	return s.movie
}

func (s *Session) Movies(ctx context.Context) ([]response.MovieResponse, error) {
	if err := s.require(StateMainMenu, "list movies"); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.svc.Movie.ListMovies(ctx)
}

func (s *Session) SelectMovie(ctx context.Context, id int64) error {
	if err := s.require(StateMainMenu, "select a movie"); err != nil {
		return err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	movie, err := s.svc.Movie.GetMovie(ctx, id)
	if err != nil {
		return err
	}
	s.enter(movie)
	return nil
}

// CreateMovie adds a movie and selects it.
func (s *Session) CreateMovie(ctx context.Context, title string) (*response.MovieResponse, error) {
	if err := s.require(StateMainMenu, "create a movie"); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	movie, err := s.svc.Movie.CreateMovie(ctx, &request.CreateMovieRequest{Title: title})
	if err != nil {
		return nil, err
	}
	s.enter(movie)
	return movie, nil
}

func (s *Session) Back() error {
	if err := s.require(StateMovieSelected, "go back"); err != nil {
		return err
	}

	s.log.Debug("Back to main menu", zap.Int64("movie_id", s.movie.ID))
	s.movie = nil
	s.state = StateMainMenu
	return nil
}

// Exit ends the session. It is valid from any state, including Exited.
func (s *Session) Exit() {
	if s.state != StateExited {
		s.log.Info("Session ended")
	}
	s.movie = nil
	s.state = StateExited
}

func (s *Session) Analyze(ctx context.Context, text string) (*response.ReviewResponse, error) {
	if err := s.require(StateMovieSelected, "analyze a review"); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.svc.Review.AnalyzeReview(ctx, &request.AnalyzeReviewRequest{MovieID: s.movie.ID, Text: text})
}

func (s *Session) ListReviews(ctx context.Context) ([]response.ReviewResponse, error) {
	if err := s.require(StateMovieSelected, "list reviews"); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.svc.Review.GetMovieReviews(ctx, s.movie.ID)
}

func (s *Session) UpdateReview(ctx context.Context, reviewID int64, text string) (*response.ReviewResponse, error) {
	if err := s.require(StateMovieSelected, "update a review"); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.svc.Review.UpdateReview(ctx, &request.UpdateReviewRequest{
		MovieID:  s.movie.ID,
		ReviewID: reviewID,
		Text:     text,
	})
}

func (s *Session) DeleteReview(ctx context.Context, reviewID int64) error {
	if err := s.require(StateMovieSelected, "delete a review"); err != nil {
		return err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.svc.Review.DeleteReview(ctx, s.movie.ID, reviewID)
}

func (s *Session) Stats(ctx context.Context) (*response.SentimentStatsResponse, error) {
	if err := s.require(StateMovieSelected, "show statistics"); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.svc.Review.GetMovieStats(ctx, s.movie.ID)
}

func (s *Session) enter(movie *response.MovieResponse) {
	s.movie = movie
	s.state = StateMovieSelected
	s.log.Debug("Movie selected", zap.Int64("movie_id", movie.ID))
}

func (s *Session) require(want State, action string) error {
	if s.state == StateExited {
		return &apperror.Error{Kind: apperror.KindInput, Message: "session has ended", Cause: ErrSessionClosed}
	}
	if s.state != want {
		return &apperror.Error{
			Kind:    apperror.KindInput,
			Message: fmt.Sprintf("cannot %s from the %s", action, menuName(s.state)),
			Cause:   ErrInvalidTransition,
		}
	}
	return nil
}

func (s *Session) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func menuName(state State) string {
	if state == StateMovieSelected {
		return "movie menu"
	}
	return "main menu"
}
