package images

import "github.com/pkg/errors"

// IdentityMask returns an all-ones mask of the given size. It performs no
// suppression and is the deterministic fallback when segmentation is
// unavailable or fails.
func IdentityMask(size int) *Mask {
	m := &Mask{Size: size, Data: make([]float32, size*size)}
	for i := range m.Data {
		m.Data[i] = 1.0
	}
	return m
}

// ApplyMask multiplies every channel of the tensor by the per-pixel mask
// value, clamped to [0, 1]. Pure function: the input tensor is not modified
// and the output shape equals the input shape. Behavior does not depend on
// where the mask came from.
//
// Arguments:
//   - t: The normalized input tensor.
//   - m: The leaf-probability mask, same spatial dimensions as t.
//
// Returns:
//   - *NormalizedTensor: The masked tensor.
//   - error: If the mask dimensions do not match the tensor.
func ApplyMask(t *NormalizedTensor, m *Mask) (*NormalizedTensor, error) {
	if m.Size != t.Size || len(m.Data) != m.Size*m.Size {
		return nil, errors.Errorf("images: mask %d does not match tensor %d", m.Size, t.Size)
	}

	plane := t.Size * t.Size
	out := &NormalizedTensor{
		Size: t.Size,
		Data: make([]float32, len(t.Data)),
	}
	for p := 0; p < plane; p++ {
		w := m.Data[p]
		if w < 0 {
			w = 0
		} else if w > 1 {
			w = 1
		}
		for c := 0; c < Channels; c++ {
			out.Data[c*plane+p] = t.Data[c*plane+p] * w
		}
	}
	return out, nil
}
