// Package diagnosis - the plant health diagnosis pipeline: preprocessing,
// segmentation-guided background suppression, multi-label classification, and
// confidence-ranked findings.
package diagnosis

import (
	"time"

	"github.com/leaflens-ai/go-diagnose/models"
)

// Prediction is one ranked finding.
type Prediction struct {
	// Label is the finding identifier from the label table.
	Label string `json:"label"`
	// Confidence is the classifier score in [0, 1].
	Confidence float32 `json:"confidence"`
	// Category groups the finding; derived from the validated label table.
	Category models.Category `json:"category"`
	// ClassIndex is the classifier output index the finding came from.
	ClassIndex int `json:"class_index"`
}

// Result is the outcome of one diagnosis call. Results are per-call values;
// the pipeline keeps no reference after returning one.
type Result struct {
	// Predictions is ordered by descending confidence; equal confidences
	// keep ascending class index order.
	Predictions []Prediction `json:"predictions"`
	// Confidence is the top prediction's confidence, or 0 when empty.
	Confidence float32 `json:"confidence"`
	// Timestamp is when the diagnosis completed, UTC.
	Timestamp time.Time `json:"timestamp"`
	// ImageRef is the SHA-256 of the source image bytes, hex encoded.
	ImageRef string `json:"image_ref"`
	// CropHint echoes the caller-supplied crop type, if any.
	CropHint string `json:"crop_hint,omitempty"`
	// SegmentationDegraded is set when the identity-mask fallback was used:
	// the segmentation model was absent or its inference failed.
	SegmentationDegraded bool `json:"segmentation_degraded"`
}
