package inference

import (
	"context"
	"errors"
	"testing"

	"movie-sentiment/internal/data/entity"
	"movie-sentiment/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubEncoder struct {
	err error
}

func (s stubEncoder) Encode(string) (Encoding, error) {
	if s.err != nil {
		return Encoding{}, s.err
	}
	return Encoding{IDs: []int64{101, 102}, AttentionMask: []int64{1, 1}}, nil
}

type stubInferencer struct {
	logits Logits
	err    error
	calls  int
}

func (s *stubInferencer) Infer([]int64, []int64) (Logits, error) {
	s.calls++
	return s.logits, s.err
}

func TestClassifier_Predict(t *testing.T) {
	inf := &stubInferencer{logits: Logits{Negative: -2, Positive: 3}}
	c := NewClassifier(stubEncoder{}, inf, zap.NewNop())

	label, err := c.Predict(context.Background(), "A masterpiece")
	require.NoError(t, err)
	assert.Equal(t, entity.SentimentPositive, label)
	assert.Equal(t, 1, inf.calls)
}

func TestClassifier_EncodeFailure(t *testing.T) {
	inf := &stubInferencer{}
	c := NewClassifier(stubEncoder{err: errors.New("bad input")}, inf, zap.NewNop())

	label, err := c.Predict(context.Background(), "x")
	assert.Equal(t, entity.SentimentError, label)
	assert.True(t, apperror.Is(err, apperror.KindInference))
	assert.Zero(t, inf.calls)
}

func TestClassifier_InferFailure(t *testing.T) {
	inf := &stubInferencer{err: errors.New("session crashed")}
	c := NewClassifier(stubEncoder{}, inf, zap.NewNop())

	label, err := c.Predict(context.Background(), "x")
	assert.Equal(t, entity.SentimentError, label)
	assert.True(t, apperror.Is(err, apperror.KindInference))
	assert.ErrorContains(t, err, "session crashed")
}

func TestClassifier_CancelledContext(t *testing.T) {
	inf := &stubInferencer{}
	c := NewClassifier(stubEncoder{}, inf, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	label, err := c.Predict(ctx, "x")
	assert.Equal(t, entity.SentimentError, label)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, inf.calls)
}
