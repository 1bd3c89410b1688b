package inference

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"movie-sentiment/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newStubEngine builds an engine whose forward pass is fn over the shared
// buffers.
func newStubEngine(seqLen int, fn func(ids, mask []int64, out []float32) error) *Engine {
	e := &Engine{
		seqLen:   seqLen,
		inputIDs: make([]int64, seqLen),
		mask:     make([]int64, seqLen),
		logits:   make([]float32, numLabels),
		log:      zap.NewNop(),
	}
	e.run = func() error { return fn(e.inputIDs, e.mask, e.logits) }
	return e
}

func TestEngine_InferReadsLogits(t *testing.T) {
	var seenIDs, seenMask []int64
	e := newStubEngine(4, func(ids, mask []int64, out []float32) error {
		seenIDs = append([]int64(nil), ids...)
		seenMask = append([]int64(nil), mask...)
		out[0], out[1] = -0.5, 1.5
		return nil
	})

	logits, err := e.Infer([]int64{101, 5, 102, 0}, []int64{1, 1, 1, 0})
	require.NoError(t, err)

	assert.Equal(t, Logits{Negative: -0.5, Positive: 1.5}, logits)
	assert.Equal(t, []int64{101, 5, 102, 0}, seenIDs)
	assert.Equal(t, []int64{1, 1, 1, 0}, seenMask)
}

func TestEngine_InferWrongLength(t *testing.T) {
	e := newStubEngine(4, func([]int64, []int64, []float32) error {
		t.Fatal("forward pass must not run")
		return nil
	})

	_, err := e.Infer([]int64{1, 2}, []int64{1, 1})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInference))
}

func TestEngine_InferRuntimeFailure(t *testing.T) {
	e := newStubEngine(2, func([]int64, []int64, []float32) error {
		return errors.New("onnxruntime: invalid argument")
	})

	_, err := e.Infer([]int64{1, 2}, []int64{1, 1})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInference))
	assert.ErrorContains(t, err, "invalid argument")
}

func TestEngine_InferSerialized(t *testing.T) {
	var active, maxActive int
	var mu sync.Mutex
	e := newStubEngine(2, func(ids, _ []int64, out []float32) error {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		out[0], out[1] = 0, float32(ids[0])

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			logits, err := e.Infer([]int64{id, 0}, []int64{1, 0})
			assert.NoError(t, err)
			assert.Equal(t, float32(id), logits.Positive)
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive)
}

func TestEngine_CloseStopsInference(t *testing.T) {
	closed := 0
	e := newStubEngine(2, func([]int64, []int64, []float32) error { return nil })
	e.closers = []func() error{
		func() error { closed++; return nil },
		func() error { closed++; return errors.New("already freed") },
	}

	err := e.Close()
	assert.ErrorContains(t, err, "already freed")
	assert.Equal(t, 2, closed)

	_, err = e.Infer([]int64{1, 2}, []int64{1, 1})
	assert.True(t, apperror.Is(err, apperror.KindInference))
	assert.NoError(t, e.Close())
}

func TestNewEngine_MissingModel(t *testing.T) {
	_, err := NewEngine(EngineConfig{ModelPath: filepath.Join(t.TempDir(), "missing.onnx")}, zap.NewNop())

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindStartup))
}
