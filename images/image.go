// Package images - pixel buffers, tensors, and masks used by the diagnosis pipeline.
package images

// Channels is the number of color channels in every buffer and tensor.
const Channels = 3

// ImageBuffer is a fixed-size square RGB pixel buffer. Pixel values are in
// [0, 255], interleaved RGB row by row. Buffers are per-call values and carry
// no shared state.
type ImageBuffer struct {
	// Size is the width and height of the square buffer.
	Size int
	// Pix holds interleaved RGB bytes, len = Size*Size*Channels.
	Pix []uint8
}

// NormalizedTensor is a float32 tensor in the model's expected input range,
// laid out as CHW planes (the ordering ONNX vision models expect).
type NormalizedTensor struct {
	// Size is the spatial width and height.
	Size int
	// Data holds the plane-major values, len = Channels*Size*Size.
	Data []float32
}

// Clone returns a deep copy of the tensor.
func (t *NormalizedTensor) Clone() *NormalizedTensor {
	data := make([]float32, len(t.Data))
	copy(data, t.Data)
	return &NormalizedTensor{Size: t.Size, Data: data}
}

// Mask is a per-pixel leaf-probability grid with values in [0, 1]. Its
// spatial dimensions always match the tensor it modulates.
type Mask struct {
	// Size is the width and height of the square grid.
	Size int
	// Data holds one value per pixel, len = Size*Size.
	Data []float32
}
