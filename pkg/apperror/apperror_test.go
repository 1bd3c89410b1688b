package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_ErrorString(t *testing.T) {
	err := Persistence("could not save review", errors.New("connection refused"))
	assert.Equal(t, "persistence: could not save review: connection refused", err.Error())

	err = Input("invalid menu option")
	assert.Equal(t, "input: invalid menu option", err.Error())
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("analyze: %w", Inference("prediction failed", cause))

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindInference))
	assert.False(t, Is(err, KindPersistence))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("wrapped: %w", Startup("model missing", nil)))
	require.True(t, ok)
	assert.Equal(t, KindStartup, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestUserMessage_HidesCause(t *testing.T) {
	err := fmt.Errorf("repo: %w", Persistence("could not load reviews", errors.New("pq: password authentication failed")))
	assert.Equal(t, "could not load reviews", UserMessage(err))
	assert.Equal(t, "unexpected error", UserMessage(errors.New("raw driver error")))
	assert.Equal(t, "", UserMessage(nil))
}

func TestInputf(t *testing.T) {
	err := Inputf("review %d not found", 42)
	assert.Equal(t, KindInput, err.Kind)
	assert.Equal(t, "review 42 not found", err.Message)
}
