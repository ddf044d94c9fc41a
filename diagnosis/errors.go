package diagnosis

import (
	"github.com/pkg/errors"

	"github.com/leaflens-ai/go-diagnose/images"
	"github.com/leaflens-ai/go-diagnose/models"
)

// The diagnosis error taxonomy. Decode and classification failures abort a
// call with one of these tags and no partial result; segmentation failures
// never surface as errors, only as Result.SegmentationDegraded.
var (
	// ErrNotInitialized: Diagnose was called before the registry reached
	// Ready, or after Dispose. Caller misuse.
	ErrNotInitialized = models.ErrNotInitialized

	// ErrModelLoad: a mandatory model asset failed to load at init.
	ErrModelLoad = models.ErrModelLoad

	// ErrImageDecode: the input bytes are not a decodable image. Recoverable;
	// the pipeline stays Ready and the caller should supply a new photo.
	ErrImageDecode = images.ErrImageDecode

	// ErrClassifierUnavailable: the mandatory classifier handle is missing at
	// diagnose time. Fatal to that call.
	ErrClassifierUnavailable = errors.New("diagnosis: classifier unavailable")
)
