package wire

import (
	"movie-sentiment/internal/inference"
	"movie-sentiment/pkg/utils"

	"go.uber.org/zap"
)

// LoadClassifier loads the tokenizer and the model once. The returned close
// function releases the runtime.
func LoadClassifier(config utils.ModelConfig, logger *zap.Logger) (*inference.Classifier, func() error, error) {
	// the tokenizer library reports through the standard logger
	restore := zap.RedirectStdLog(logger.Named("tokenizer"))
	tk, err := inference.LoadTokenizer(config.TokenizerPath, config.MaxSeqLength)
	restore()
	if err != nil {
		return nil, nil, err
	}

	engine, err := inference.NewEngine(inference.EngineConfig{
		ModelPath:      config.ModelPath,
		RuntimeLibrary: config.RuntimeLibrary,
		SeqLength:      tk.MaxLength(),
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	return inference.NewClassifier(tk, engine, logger), engine.Close, nil
}
