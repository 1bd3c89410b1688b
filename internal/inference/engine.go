package inference

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"movie-sentiment/pkg/apperror"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

const (
	inputIDsName      = "input_ids"
	attentionMaskName = "attention_mask"
	tokenTypeIDsName  = "token_type_ids"

	numLabels = 2
)

type EngineConfig struct {
	ModelPath string
	// RuntimeLibrary is the onnxruntime shared library. Empty uses the
	// platform default lookup.
	RuntimeLibrary string
	SeqLength      int
}

// Engine runs the sentiment model on one sequence at a time. Input and
// output tensors are allocated once and reused, so calls are serialized.
type Engine struct {
	mu sync.Mutex

	seqLen   int
	inputIDs []int64
	mask     []int64
	logits   []float32

	run     func() error
	closers []func() error
	log     *zap.Logger
}

// NewEngine loads the model at cfg.ModelPath into a single session.
func NewEngine(cfg EngineConfig, log *zap.Logger) (*Engine, error) {
	if cfg.SeqLength <= 0 {
		cfg.SeqLength = DefaultMaxLength
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, apperror.Startup("model not found", err)
	}

	if cfg.RuntimeLibrary != "" {
		ort.SetSharedLibraryPath(cfg.RuntimeLibrary)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, apperror.Startup("could not initialize onnxruntime", err)
		}
	}

	e := &Engine{
		seqLen: cfg.SeqLength,
		log:    log.With(zap.String("component", "engine")),
	}
	e.closers = append(e.closers, ort.DestroyEnvironment)

	if err := e.buildSession(cfg.ModelPath); err != nil {
		_ = e.Close()
		return nil, apperror.Startup("could not load model", err)
	}

	e.log.Info("Model loaded",
		zap.String("model", cfg.ModelPath),
		zap.Int("seq_length", e.seqLen),
	)

	return e, nil
}

func (e *Engine) buildSession(modelPath string) error {
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return fmt.Errorf("inspect model: %w", err)
	}
	if len(outputs) == 0 {
		return errors.New("model has no outputs")
	}

	present := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		present[in.Name] = true
	}
	for _, name := range []string{inputIDsName, attentionMaskName} {
		if !present[name] {
			return fmt.Errorf("model input %q missing", name)
		}
	}

	shape := ort.NewShape(1, int64(e.seqLen))
	e.inputIDs = make([]int64, e.seqLen)
	e.mask = make([]int64, e.seqLen)

	idsTensor, err := ort.NewTensor(shape, e.inputIDs)
	if err != nil {
		return fmt.Errorf("allocate input_ids: %w", err)
	}
	e.closers = append(e.closers, idsTensor.Destroy)

	maskTensor, err := ort.NewTensor(shape, e.mask)
	if err != nil {
		return fmt.Errorf("allocate attention_mask: %w", err)
	}
	e.closers = append(e.closers, maskTensor.Destroy)

	inputNames := []string{inputIDsName, attentionMaskName}
	inputValues := []ort.Value{idsTensor, maskTensor}

	// BERT-style exports also take segment ids; a single sentence is all zeros.
	if present[tokenTypeIDsName] {
		typeTensor, err := ort.NewTensor(shape, make([]int64, e.seqLen))
		if err != nil {
			return fmt.Errorf("allocate token_type_ids: %w", err)
		}
		e.closers = append(e.closers, typeTensor.Destroy)
		inputNames = append(inputNames, tokenTypeIDsName)
		inputValues = append(inputValues, typeTensor)
	}

	logitsTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, numLabels))
	if err != nil {
		return fmt.Errorf("allocate logits: %w", err)
	}
	e.closers = append(e.closers, logitsTensor.Destroy)
	e.logits = logitsTensor.GetData()

	session, err := ort.NewAdvancedSession(modelPath,
		inputNames, []string{outputs[0].Name},
		inputValues, []ort.Value{logitsTensor},
		nil,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	e.closers = append(e.closers, session.Destroy)
	e.run = session.Run

	return nil
}

// SeqLength is the sequence length the model was loaded for.
func (e *Engine) SeqLength() int {
	return e.seqLen
}

// Infer runs one forward pass. Index 0 of the output is the negative logit
// and index 1 the positive one; no softmax is applied.
func (e *Engine) Infer(ids, mask []int64) (Logits, error) {
	if len(ids) != e.seqLen || len(mask) != e.seqLen {
		return Logits{}, apperror.Inference("prediction failed",
			fmt.Errorf("expected %d positions, got ids=%d mask=%d", e.seqLen, len(ids), len(mask)))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.run == nil {
		return Logits{}, apperror.Inference("prediction failed", errors.New("engine is closed"))
	}

	copy(e.inputIDs, ids)
	copy(e.mask, mask)

	if err := e.run(); err != nil {
		return Logits{}, apperror.Inference("prediction failed", err)
	}
	if len(e.logits) < numLabels {
		return Logits{}, apperror.Inference("prediction failed",
			fmt.Errorf("expected %d logits, got %d", numLabels, len(e.logits)))
	}

	return Logits{Negative: e.logits[0], Positive: e.logits[1]}, nil
}

// Close releases the session, its tensors and the runtime environment.
// Later calls to Infer fail.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	e.run = nil

	return errors.Join(errs...)
}
