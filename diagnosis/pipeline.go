package diagnosis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/leaflens-ai/go-diagnose/images"
	"github.com/leaflens-ai/go-diagnose/models"
)

// Pipeline composes preprocessing, segmentation, mask compositing,
// classification, and ranking into one synchronous diagnosis call. It holds
// no per-call state: concurrent Diagnose calls are safe, serialized per model
// handle by the runtime layer when the engine requires it.
//
// Diagnose blocks for the full inference; run it off any latency-sensitive
// goroutine. There is no cancellation once inference has started and
// timeouts are the caller's responsibility.
type Pipeline struct {
	registry *models.Registry
	opts     Options
	log      *slog.Logger
}

// DiagnoseRequest carries one diagnosis call's input.
type DiagnoseRequest struct {
	// ImageBytes is the compressed source image.
	ImageBytes []byte
	// CropHint optionally names the crop type; echoed into the result.
	CropHint string
}

// NewPipeline creates a pipeline over an initialized registry.
func NewPipeline(registry *models.Registry, opts Options, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{registry: registry, opts: opts, log: log}
}

// Options returns the pipeline configuration.
func (p *Pipeline) Options() Options { return p.opts }

// Diagnose runs the full pipeline on one image.
//
// Failure semantics: ErrNotInitialized before the registry is Ready;
// ErrImageDecode on undecodable bytes; ErrClassifierUnavailable or a wrapped
// inference error when classification cannot run. Every failure aborts with
// no partial result and leaves the Ready state untouched. Segmentation
// failures never abort: the identity mask substitutes and the result carries
// SegmentationDegraded.
//
// Arguments:
//   - ctx: Checked before inference starts; in-flight work is not cancelled.
//   - req: The image bytes and optional crop hint.
//
// Returns:
//   - *Result: The ranked findings. Fixed image, weights, and options make
//     the predictions deterministic across calls.
//   - error: One tagged error per the taxonomy above.
func (p *Pipeline) Diagnose(ctx context.Context, req DiagnoseRequest) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classifier, segmentation, labels, err := p.registry.Handles()
	if err != nil {
		return nil, err
	}

	img, err := images.Decode(req.ImageBytes)
	if err != nil {
		return nil, err
	}

	buf := images.ResizeSquare(img, p.opts.InputSize)
	tensor, err := images.Normalize(buf, p.opts.Normalization)
	if err != nil {
		return nil, errors.Wrap(err, "normalizing input")
	}

	mask, degraded := segment(segmentation, tensor, p.log)
	masked, err := images.ApplyMask(tensor, mask)
	if err != nil {
		// Mask dimensions always match the tensor here; a mismatch means a
		// segment bug, not bad input.
		return nil, errors.Wrap(err, "compositing mask")
	}

	scores, err := classify(classifier, masked, p.opts.ApplySigmoid)
	if err != nil {
		return nil, err
	}

	predictions := Rank(scores, labels, p.opts.ConfidenceThreshold, p.opts.MaxPredictions)

	var confidence float32
	if len(predictions) > 0 {
		confidence = predictions[0].Confidence
	}

	ref := sha256.Sum256(req.ImageBytes)
	return &Result{
		Predictions:          predictions,
		Confidence:           confidence,
		Timestamp:            time.Now().UTC(),
		ImageRef:             hex.EncodeToString(ref[:]),
		CropHint:             req.CropHint,
		SegmentationDegraded: degraded,
	}, nil
}
