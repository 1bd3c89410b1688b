package inference

import (
	"context"
	"fmt"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/pkg/apperror"

	"go.uber.org/zap"
)

type Encoder interface {
	Encode(text string) (Encoding, error)
}

type Inferencer interface {
	Infer(ids, mask []int64) (Logits, error)
}

// Classifier is the text -> label pipeline.
type Classifier struct {
	enc Encoder
	inf Inferencer
	log *zap.Logger
}

func NewClassifier(enc Encoder, inf Inferencer, log *zap.Logger) *Classifier {
	return &Classifier{
		enc: enc,
		inf: inf,
		log: log.With(zap.String("component", "classifier")),
	}
}

// Predict labels text. On any failure it returns entity.SentimentError with
// an inference error.
func (c *Classifier) Predict(ctx context.Context, text string) (entity.Sentiment, error) {
	encoding, err := c.enc.Encode(text)
	if err != nil {
		c.log.Error("Failed to tokenize review", zap.Error(err))
		return entity.SentimentError, apperror.Inference("could not tokenize review", err)
	}

	if err := ctx.Err(); err != nil {
		return entity.SentimentError, apperror.Inference("prediction cancelled", err)
	}

	logits, err := c.inf.Infer(encoding.IDs, encoding.AttentionMask)
	if err != nil {
		c.log.Error("Failed to run model", zap.Error(err))
		if _, ok := apperror.KindOf(err); ok {
			return entity.SentimentError, err
		}
		return entity.SentimentError, apperror.Inference("prediction failed", fmt.Errorf("infer: %w", err))
	}

	label := Decide(logits)
	c.log.Debug("Review classified",
		zap.Float32("negative", logits.Negative),
		zap.Float32("positive", logits.Positive),
		zap.String("sentiment", label.String()),
	)

	return label, nil
}
