package models

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/leaflens-ai/go-diagnose/inference"
)

// ErrModelLoad indicates a mandatory model asset was missing or malformed at
// initialization. It is fatal: the registry never reaches Ready.
var ErrModelLoad = errors.New("models: model load failed")

// ErrNotInitialized indicates the registry was used before Initialize
// succeeded, or after Dispose.
var ErrNotInitialized = errors.New("models: registry not ready")

// State is the registry lifecycle state.
type State int

const (
	// StateUninitialized is the zero state before Initialize.
	StateUninitialized State = iota
	// StateReady means handles are loaded and accessors are usable.
	StateReady
	// StateDisposed is terminal; handles have been released.
	StateDisposed
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

// Handle is an opaque reference to a loaded model. It carries the declared
// input size and output class count and is immutable after load. Handles are
// exclusively owned by the Registry and live until Dispose. Run calls are
// serialized: at most one inference is in flight per handle.
type Handle struct {
	name       string
	runtime    inference.Runtime
	inputSize  int
	classCount int

	mu sync.Mutex
}

// Name returns the asset name the handle was loaded from.
func (h *Handle) Name() string { return h.name }

// InputSize returns the declared square input size in pixels.
func (h *Handle) InputSize() int { return h.inputSize }

// ClassCount returns the declared output class count; 0 for models whose
// output is not a class vector.
func (h *Handle) ClassCount() int { return h.classCount }

// Run executes one inference on the underlying runtime. Concurrent callers
// queue on the handle, so runtimes never see overlapping calls.
func (h *Handle) Run(input []float32) ([]float32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runtime.Run(input)
}

// Asset describes one loadable model. Open constructs the runtime; for
// production assets it wraps an ONNX session, tests substitute stubs.
type Asset struct {
	// Name identifies the asset in logs and errors.
	Name string
	// Open constructs the model runtime.
	Open func() (inference.Runtime, error)
	// InputSize is the declared square input size in pixels.
	InputSize int
	// ClassCount is the declared output class count. Required for the
	// classifier, ignored for segmentation.
	ClassCount int
}

// ONNXAsset builds an Asset backed by an onnxruntime session created from
// in-memory model bytes.
func ONNXAsset(name string, modelData []byte, cfg inference.SessionConfig, inputSize, classCount int) Asset {
	return Asset{
		Name: name,
		Open: func() (inference.Runtime, error) {
			return inference.NewONNXRuntime(modelData, cfg)
		},
		InputSize:  inputSize,
		ClassCount: classCount,
	}
}

// ONNXFileAsset builds an Asset backed by an onnxruntime session created
// from a model file on disk.
func ONNXFileAsset(name, path string, cfg inference.SessionConfig, inputSize, classCount int) Asset {
	return Asset{
		Name: name,
		Open: func() (inference.Runtime, error) {
			return inference.NewONNXRuntimeFromFile(path, cfg)
		},
		InputSize:  inputSize,
		ClassCount: classCount,
	}
}

// InitConfig is the full set of assets the registry loads.
type InitConfig struct {
	// Classifier is mandatory; load failure is fatal.
	Classifier Asset
	// Segmentation is optional. A missing or unloadable segmentation asset
	// is logged and diagnosis degrades to the identity mask.
	Segmentation *Asset
	// Labels maps classifier output indices to labels and categories. Must
	// match Classifier.ClassCount.
	Labels *LabelTable
}

// Registry owns the loaded model handles and walks the explicit
// Uninitialized -> Ready -> Disposed lifecycle. Use-before-init is a checked
// error, not a nil-handle fault. Handles are created once and shared
// read-only, so the registry is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	state        State
	classifier   *Handle
	segmentation *Handle
	labels       *LabelTable
	log          *slog.Logger
}

// NewRegistry creates an empty registry in the Uninitialized state.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{log: log}
}

// Initialize loads and validates the configured assets and transitions the
// registry to Ready. Idempotent once Ready: repeated calls are no-ops. A
// failed Initialize leaves the registry Uninitialized and may be retried.
//
// Returns:
//   - error: ErrModelLoad (wrapped) if the classifier asset or label table
//     is missing or malformed; a plain error if the registry is disposed.
func (r *Registry) Initialize(cfg InitConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateReady:
		return nil
	case StateDisposed:
		return errors.New("models: registry is disposed")
	}

	if cfg.Classifier.Open == nil {
		return errors.Wrap(ErrModelLoad, "no classifier asset configured")
	}
	if cfg.Classifier.InputSize <= 0 || cfg.Classifier.ClassCount <= 0 {
		return errors.Wrapf(ErrModelLoad, "classifier %q declares invalid shape (input %d, classes %d)",
			cfg.Classifier.Name, cfg.Classifier.InputSize, cfg.Classifier.ClassCount)
	}
	if cfg.Labels == nil {
		return errors.Wrap(ErrModelLoad, "no label table configured")
	}
	if err := cfg.Labels.Validate(cfg.Classifier.ClassCount); err != nil {
		return errors.Wrap(ErrModelLoad, err.Error())
	}

	classifierRT, err := cfg.Classifier.Open()
	if err != nil {
		return errors.Wrapf(ErrModelLoad, "classifier %q: %v", cfg.Classifier.Name, err)
	}
	r.classifier = &Handle{
		name:       cfg.Classifier.Name,
		runtime:    classifierRT,
		inputSize:  cfg.Classifier.InputSize,
		classCount: cfg.Classifier.ClassCount,
	}

	if cfg.Segmentation != nil && cfg.Segmentation.Open != nil {
		segRT, segErr := cfg.Segmentation.Open()
		if segErr != nil {
			// Segmentation is optional: diagnosis falls back to the
			// identity mask.
			r.log.Warn("segmentation model unavailable, diagnosis will not suppress background",
				"asset", cfg.Segmentation.Name, "error", segErr)
		} else {
			r.segmentation = &Handle{
				name:      cfg.Segmentation.Name,
				runtime:   segRT,
				inputSize: cfg.Segmentation.InputSize,
			}
		}
	}

	r.labels = cfg.Labels
	r.state = StateReady
	r.log.Info("model registry ready",
		"classifier", cfg.Classifier.Name,
		"classes", cfg.Classifier.ClassCount,
		"segmentation", r.segmentation != nil)
	return nil
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Ready reports whether the registry is in the Ready state.
func (r *Registry) Ready() bool { return r.State() == StateReady }

// Classifier returns the classifier handle. Only meaningful in Ready.
func (r *Registry) Classifier() (*Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady {
		return nil, errors.Wrapf(ErrNotInitialized, "state %s", r.state)
	}
	return r.classifier, nil
}

// Segmentation returns the segmentation handle, or nil if the asset was
// absent. Only meaningful in Ready.
func (r *Registry) Segmentation() (*Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady {
		return nil, errors.Wrapf(ErrNotInitialized, "state %s", r.state)
	}
	return r.segmentation, nil
}

// Handles returns the classifier handle, the segmentation handle (possibly
// nil), and the label table in one consistent snapshot.
func (r *Registry) Handles() (classifier, segmentation *Handle, labels *LabelTable, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady {
		return nil, nil, nil, errors.Wrapf(ErrNotInitialized, "state %s", r.state)
	}
	return r.classifier, r.segmentation, r.labels, nil
}

// Labels returns the validated label table. Only meaningful in Ready.
func (r *Registry) Labels() (*LabelTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady {
		return nil, errors.Wrapf(ErrNotInitialized, "state %s", r.state)
	}
	return r.labels, nil
}

// Dispose releases all handles and transitions to Disposed. Disposed is
// terminal and Dispose is safe to call repeatedly.
func (r *Registry) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateDisposed {
		return
	}
	if r.classifier != nil {
		if err := r.classifier.runtime.Close(); err != nil {
			r.log.Warn("closing classifier runtime", "error", err)
		}
		r.classifier = nil
	}
	if r.segmentation != nil {
		if err := r.segmentation.runtime.Close(); err != nil {
			r.log.Warn("closing segmentation runtime", "error", err)
		}
		r.segmentation = nil
	}
	r.labels = nil
	r.state = StateDisposed
	r.log.Info("model registry disposed")
}
