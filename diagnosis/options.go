package diagnosis

import "github.com/leaflens-ai/go-diagnose/images"

// Options configures a Pipeline. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// ConfidenceThreshold is the minimum score a class must exceed
	// (strictly) to be reported.
	ConfidenceThreshold float32
	// MaxPredictions caps the number of returned findings.
	MaxPredictions int
	// InputSize is the square model input size in pixels.
	InputSize int
	// Normalization is the byte-to-float range contract for model input.
	Normalization images.NormalizeOptions
	// ApplySigmoid maps classifier outputs through a sigmoid. Set it when
	// the exported model emits raw logits instead of per-class
	// probabilities.
	ApplySigmoid bool
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: 0.3,
		MaxPredictions:      5,
		InputSize:           224,
		Normalization:       images.NormalizeOptions{Mode: images.NormalizeZeroToOne},
	}
}
