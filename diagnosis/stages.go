package diagnosis

import (
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/leaflens-ai/go-diagnose/images"
	"github.com/leaflens-ai/go-diagnose/models"
)

// segment produces the leaf-probability mask for a tensor. When the
// segmentation model is absent, errors, or returns an output of the wrong
// shape, it falls back to the identity mask. That branch is a documented
// degradation, reported through the returned flag and a warn log, never an
// error.
func segment(handle *models.Handle, tensor *images.NormalizedTensor, log *slog.Logger) (mask *images.Mask, degraded bool) {
	if handle == nil {
		return images.IdentityMask(tensor.Size), true
	}

	out, err := handle.Run(tensor.Data)
	if err != nil {
		log.Warn("segmentation inference failed, using identity mask", "error", err)
		return images.IdentityMask(tensor.Size), true
	}

	want := tensor.Size * tensor.Size
	if len(out) != want {
		log.Warn("segmentation output has wrong shape, using identity mask",
			"got", len(out), "want", want)
		return images.IdentityMask(tensor.Size), true
	}

	return &images.Mask{Size: tensor.Size, Data: out}, false
}

// classify runs the classifier and returns the per-class confidence vector.
// A missing handle is ErrClassifierUnavailable; unlike segmentation there is
// no fallback, the call fails.
func classify(handle *models.Handle, tensor *images.NormalizedTensor, applySigmoid bool) ([]float32, error) {
	if handle == nil {
		return nil, errors.WithStack(ErrClassifierUnavailable)
	}

	scores, err := handle.Run(tensor.Data)
	if err != nil {
		return nil, errors.Wrap(err, "classification inference")
	}
	if len(scores) != handle.ClassCount() {
		return nil, errors.Errorf("classifier produced %d scores, declares %d classes",
			len(scores), handle.ClassCount())
	}

	if applySigmoid {
		for i, v := range scores {
			scores[i] = 1.0 / (1.0 + math32.Exp(-v))
		}
	}
	return scores, nil
}
