package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"movie-sentiment/internal/data/repository"
	"movie-sentiment/internal/usecase"
	"movie-sentiment/internal/wire"
	"movie-sentiment/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var configFile string

// Seams replaced in tests.
var (
	loadPredictor = func(config utils.ModelConfig, logger *zap.Logger) (usecase.Predictor, func() error, error) {
		return wire.LoadClassifier(config, logger)
	}
	openStore  = wire.OpenStore
	isTerminal = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

var rootCmd = &cobra.Command{
	Use:   "movie-sentiment",
	Short: "Classify movie reviews as positive or negative",
	Long: `Interactive movie review sentiment analyzer.

Pick or create a movie, type reviews and each one is labelled Positive or
Negative by a pretrained transformer model and stored under that movie.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", ".env", "config file (dotenv format)")
	flags.Bool("debug", false, "enable debug logging on stderr")
	flags.String("db-driver", "", "database driver: postgres or sqlite")
	flags.String("model", "", "path to the ONNX model")
	flags.String("tokenizer", "", "path to tokenizer.json or its directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads config and the logger for any subcommand.
func setup(cmd *cobra.Command) (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Failed to init logger: %v. Logging disabled.\n", err)
		logger = zap.NewNop()
	}

	return config, logger, nil
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	config, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	predictor, closeModel, err := loadPredictor(config.Model, logger)
	if err != nil {
		logger.Error("Failed to load model", zap.Error(err))
		return err
	}
	defer closeModel()

	repo, closeStore, err := openStoreWithTimeout(ctx, config, logger)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		return err
	}
	defer closeStore()

	app := wire.Wiring(repo, predictor, config, logger)
	out := cmd.OutOrStdout()

	return app.Console(cmd.InOrStdin(), out, isTerminal(out)).Run(ctx)
}

func openStoreWithTimeout(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func(), error) {
	if config.App.OpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.App.OpTimeout)
		defer cancel()
	}
	return openStore(ctx, config.Database, logger)
}
