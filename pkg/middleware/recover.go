package middleware

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Recover turns a panic inside an action into an error so the session
// survives it.
func Recover(logger *zap.Logger, name string) Middleware {
	return func(next Action) Action {
		return func(ctx context.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("PANIC recovered",
						zap.Any("error", r),
						zap.String("action", name),
						zap.Stack("stack"),
					)
					err = fmt.Errorf("action %s panicked: %v", name, r)
				}
			}()
			return next(ctx)
		}
	}
}
