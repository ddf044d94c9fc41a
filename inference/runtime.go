// Package inference - model runtime sessions.
package inference

// Runtime is a loaded model that maps a flat float32 input to a flat float32
// output. Implementations must be safe for concurrent Run calls from
// multiple goroutines; if the underlying engine supports only one in-flight
// inference per handle, the implementation serializes callers.
//
// Runtimes are shared and read-only after load. The diagnosis stages and the
// model registry depend on this interface only, so tests substitute stub
// runtimes for the ONNX sessions.
type Runtime interface {
	// Run executes one inference. The returned slice is owned by the caller
	// and detached from any internal buffers.
	Run(input []float32) ([]float32, error)

	// InputLen is the expected flat input length.
	InputLen() int

	// OutputLen is the flat output length the model produces.
	OutputLen() int

	// Close releases the runtime's resources. Safe to call repeatedly.
	Close() error
}
