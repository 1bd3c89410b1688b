package wire

import (
	"context"
	"fmt"

	"movie-sentiment/internal/data/repository"
	"movie-sentiment/pkg/apperror"
	"movie-sentiment/pkg/database"
	"movie-sentiment/pkg/utils"

	"go.uber.org/zap"
)

// OpenStore connects to the configured database, ensures its schema and
// returns the repositories with a close function. All failures are startup
// errors.
func OpenStore(ctx context.Context, config utils.DatabaseConfig, logger *zap.Logger) (*repository.Repository, func(), error) {
	switch config.Driver {
	case "sqlite":
		store, err := database.OpenSQLite(config.SQLitePath)
		if err != nil {
			return nil, nil, apperror.Startup("could not open database", err)
		}
		if err := store.Bootstrap(ctx, config.Seed, logger); err != nil {
			store.Close()
			return nil, nil, apperror.Startup("could not prepare database schema", err)
		}

		logger.Info("Database connected successfully",
			zap.String("driver", config.Driver),
			zap.String("path", store.Path()),
		)
		return repository.NewSQLiteRepository(store.DB, logger), func() { store.Close() }, nil

	case "postgres", "":
		db, err := database.InitDB(ctx, config)
		if err != nil {
			return nil, nil, apperror.Startup("could not connect to database", err)
		}
		if err := db.Bootstrap(ctx, config.Seed, logger); err != nil {
			db.Close()
			return nil, nil, apperror.Startup("could not prepare database schema", err)
		}

		logger.Info("Database connected successfully",
			zap.String("driver", "postgres"),
			zap.String("host", config.Host),
			zap.String("database", config.Name),
		)
		return repository.NewRepository(db, logger), db.Close, nil
	}

	return nil, nil, apperror.Startup(fmt.Sprintf("unsupported database driver %q", config.Driver), nil)
}
