package middleware

import (
	"context"
	"time"

	"movie-sentiment/pkg/apperror"

	"go.uber.org/zap"
)

// Logger records each action with its duration and outcome.
func Logger(logger *zap.Logger, name string) Middleware {
	return func(next Action) Action {
		return func(ctx context.Context) error {
			start := time.Now()

			err := next(ctx)

			fields := []zap.Field{
				zap.String("action", name),
				zap.Duration("duration", time.Since(start)),
			}
			if err == nil {
				logger.Debug("Console action", fields...)
				return nil
			}

			kind, ok := apperror.KindOf(err)
			if !ok {
				kind = "unexpected"
			}
			fields = append(fields, zap.String("kind", string(kind)), zap.Error(err))
			logger.Warn("Console action failed", fields...)
			return err
		}
	}
}
