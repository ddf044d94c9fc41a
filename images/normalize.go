package images

import "github.com/pkg/errors"

// Normalization selects the numeric range mapping applied when converting
// byte pixels to model input. The target range is an explicit contract, not
// an implementation detail: the classifier was trained on [0, 1] inputs.
type Normalization int

const (
	// NormalizeZeroToOne scales pixel values to [0, 1], v/255.
	NormalizeZeroToOne Normalization = iota
	// NormalizeMinusOneToOne scales pixel values to [-1, 1], v/127.5 - 1.
	NormalizeMinusOneToOne
	// NormalizeStandardize applies per-channel mean/std after scaling to [0, 1].
	NormalizeStandardize
)

// ImageNetMean and ImageNetStd are the standard per-channel statistics used
// when NormalizeStandardize is selected without explicit overrides.
var (
	ImageNetMean = [Channels]float32{0.485, 0.456, 0.406}
	ImageNetStd  = [Channels]float32{0.229, 0.224, 0.225}
)

// NormalizeOptions configures the byte-to-float mapping.
type NormalizeOptions struct {
	Mode Normalization
	// Mean and Std are only read for NormalizeStandardize. Zero values fall
	// back to the ImageNet statistics.
	Mean [Channels]float32
	Std  [Channels]float32
}

// Normalize converts a pixel buffer into a CHW float32 tensor in the
// configured numeric range. Pure function, no side effects on buf.
//
// Arguments:
//   - buf: The source RGB buffer.
//   - opts: The range mapping to apply.
//
// Returns:
//   - *NormalizedTensor: The tensor, len = Channels*Size*Size.
//   - error: If the buffer shape is inconsistent.
func Normalize(buf *ImageBuffer, opts NormalizeOptions) (*NormalizedTensor, error) {
	size := buf.Size
	if size <= 0 || len(buf.Pix) != size*size*Channels {
		return nil, errors.Errorf("images: buffer shape mismatch: size=%d len=%d", size, len(buf.Pix))
	}

	mean, std := opts.Mean, opts.Std
	if opts.Mode == NormalizeStandardize && std == ([Channels]float32{}) {
		mean, std = ImageNetMean, ImageNetStd
	}

	plane := size * size
	t := &NormalizedTensor{
		Size: size,
		Data: make([]float32, Channels*plane),
	}
	for p := 0; p < plane; p++ {
		for c := 0; c < Channels; c++ {
			v := float32(buf.Pix[p*Channels+c])
			switch opts.Mode {
			case NormalizeMinusOneToOne:
				v = v/127.5 - 1.0
			case NormalizeStandardize:
				v = (v/255.0 - mean[c]) / std[c]
			default:
				v = v / 255.0
			}
			t.Data[c*plane+p] = v
		}
	}
	return t, nil
}
