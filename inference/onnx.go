package inference

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// SessionConfig describes the fixed tensor shapes and node names of an ONNX
// model session.
type SessionConfig struct {
	// InputShape is the full input tensor shape, e.g. [1, 3, 224, 224].
	InputShape []int64
	// OutputShape is the full output tensor shape, e.g. [1, 45].
	OutputShape []int64
	// InputName and OutputName are the graph node names. Empty values default
	// to "input" and "output".
	InputName  string
	OutputName string
	// IntraOpThreads limits intra-op parallelism; 0 uses the runtime default.
	IntraOpThreads int
}

func (c SessionConfig) inputName() string {
	if c.InputName == "" {
		return "input"
	}
	return c.InputName
}

func (c SessionConfig) outputName() string {
	if c.OutputName == "" {
		return "output"
	}
	return c.OutputName
}

func shapeLen(shape []int64) int {
	n := 1
	for _, d := range shape {
		n *= int(d)
	}
	return n
}

var ortInitOnce sync.Once
var ortInitErr error

// ensureEnvironment initializes the shared ONNX Runtime environment exactly
// once per process.
func ensureEnvironment() error {
	ortInitOnce.Do(func() {
		libPath := SharedLibPath()
		if _, err := os.Stat(libPath); err != nil {
			ortInitErr = errors.Wrapf(err, "onnxruntime library not found at %s", libPath)
			return
		}
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			ortInitErr = errors.Wrap(err, "initializing onnxruntime environment")
		}
	})
	return ortInitErr
}

// ONNXRuntime is a Runtime backed by an onnxruntime AdvancedSession with
// fixed input/output tensors. The session and its tensor buffers are reused
// across calls, so Run serializes access: at most one inference is in flight
// per session, later callers block until it completes.
type ONNXRuntime struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	cfg     SessionConfig
}

// NewONNXRuntime creates a session from in-memory model bytes.
//
// Arguments:
//   - modelData: The serialized ONNX model.
//   - cfg: Tensor shapes and node names.
//
// Returns:
//   - *ONNXRuntime: The ready session.
//   - error: If the environment, tensors, or session cannot be created.
func NewONNXRuntime(modelData []byte, cfg SessionConfig) (*ONNXRuntime, error) {
	return newONNXRuntime(cfg, func(opts *ort.SessionOptions, in, out *ort.Tensor[float32]) (*ort.AdvancedSession, error) {
		return ort.NewAdvancedSessionWithONNXData(
			modelData,
			[]string{cfg.inputName()},
			[]string{cfg.outputName()},
			[]ort.ArbitraryTensor{in},
			[]ort.ArbitraryTensor{out},
			opts,
		)
	})
}

// NewONNXRuntimeFromFile creates a session from a model file on disk.
func NewONNXRuntimeFromFile(path string, cfg SessionConfig) (*ONNXRuntime, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "model file %s", path)
	}
	return newONNXRuntime(cfg, func(opts *ort.SessionOptions, in, out *ort.Tensor[float32]) (*ort.AdvancedSession, error) {
		return ort.NewAdvancedSession(
			path,
			[]string{cfg.inputName()},
			[]string{cfg.outputName()},
			[]ort.ArbitraryTensor{in},
			[]ort.ArbitraryTensor{out},
			opts,
		)
	})
}

func newONNXRuntime(
	cfg SessionConfig,
	create func(*ort.SessionOptions, *ort.Tensor[float32], *ort.Tensor[float32]) (*ort.AdvancedSession, error),
) (*ONNXRuntime, error) {
	if err := ensureEnvironment(); err != nil {
		return nil, err
	}
	if len(cfg.InputShape) == 0 || len(cfg.OutputShape) == 0 {
		return nil, errors.New("session config missing tensor shapes")
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(cfg.InputShape...))
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(cfg.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "creating output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "creating session options")
	}
	defer options.Destroy()

	if cfg.IntraOpThreads > 0 {
		options.SetIntraOpNumThreads(cfg.IntraOpThreads)
	}
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := create(options, inputTensor, outputTensor)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "creating onnx session")
	}

	return &ONNXRuntime{
		session: session,
		input:   inputTensor,
		output:  outputTensor,
		cfg:     cfg,
	}, nil
}

// Run copies input into the session's input tensor, executes the graph, and
// copies the output out of the reused output tensor.
func (r *ONNXRuntime) Run(input []float32) ([]float32, error) {
	if len(input) != r.InputLen() {
		return nil, errors.Errorf("input length %d, session expects %d", len(input), r.InputLen())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil, errors.New("session is closed")
	}

	copy(r.input.GetData(), input)
	if err := r.session.Run(); err != nil {
		return nil, errors.Wrap(err, "running inference")
	}

	raw := r.output.GetData()
	out := make([]float32, len(raw))
	copy(out, raw)
	return out, nil
}

// InputLen returns the flat input length.
func (r *ONNXRuntime) InputLen() int { return shapeLen(r.cfg.InputShape) }

// OutputLen returns the flat output length.
func (r *ONNXRuntime) OutputLen() int { return shapeLen(r.cfg.OutputShape) }

// Close destroys the session and its tensors. Safe to call repeatedly.
func (r *ONNXRuntime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.input != nil {
		r.input.Destroy()
		r.input = nil
	}
	if r.output != nil {
		r.output.Destroy()
		r.output = nil
	}
	if r.session != nil {
		r.session.Destroy()
		r.session = nil
	}
	return nil
}

var _ Runtime = (*ONNXRuntime)(nil)
