package cmd

import (
	"context"
	"fmt"
	"strings"

	"movie-sentiment/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var predictCmd = &cobra.Command{
	Use:   "predict [text]",
	Short: "Classify one review without storing it",
	Long: `Runs the sentiment model on the given text and prints Positive or
Negative. Nothing is written to the database.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	config, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	predictor, closeModel, err := loadPredictor(config.Model, logger)
	if err != nil {
		logger.Error("Failed to load model", zap.Error(err))
		return err
	}
	defer closeModel()

	ctx := cmd.Context()
	if config.App.OpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.App.OpTimeout)
		defer cancel()
	}

	label, err := usecase.NewSentimentService(predictor, logger).Predict(ctx, strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), label.String())
	return err
}
