package wire

import (
	"io"

	"movie-sentiment/internal/data/repository"
	"movie-sentiment/internal/session"
	"movie-sentiment/internal/usecase"
	"movie-sentiment/pkg/utils"

	"go.uber.org/zap"
)

// App holds the wired dependencies of one interactive run.
type App struct {
	Service *usecase.Service
	config  *utils.Config
	logger  *zap.Logger
}

// Wiring builds the services over repo and predictor.
func Wiring(repo *repository.Repository, predictor usecase.Predictor, config *utils.Config, logger *zap.Logger) *App {
	return &App{
		Service: usecase.NewService(repo, predictor, logger),
		config:  config,
		logger:  logger,
	}
}

// Console starts a fresh session driven by in and out.
func (a *App) Console(in io.Reader, out io.Writer, styled bool) *session.Console {
	s := session.New(a.Service, a.config.App.OpTimeout, a.logger)
	return session.NewConsole(s, in, out, styled, a.logger)
}
