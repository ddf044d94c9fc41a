package images

import (
	"image"

	"github.com/nfnt/resize"
)

// ResizeSquare resizes img to a size x size RGB buffer using bilinear
// interpolation. The aspect ratio is stretched rather than cropped or
// letterboxed, matching the convention the models were trained with. The
// result is deterministic for a given input.
//
// Arguments:
//   - img: The decoded source image.
//   - size: The output width and height in pixels.
//
// Returns:
//   - *ImageBuffer: The resized square RGB buffer.
func ResizeSquare(img image.Image, size int) *ImageBuffer {
	resized := resize.Resize(uint(size), uint(size), img, resize.Bilinear)

	buf := &ImageBuffer{
		Size: size,
		Pix:  make([]uint8, size*size*Channels),
	}
	bounds := resized.Bounds()
	i := 0
	for y := bounds.Min.Y; y < bounds.Min.Y+size; y++ {
		for x := bounds.Min.X; x < bounds.Min.X+size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			buf.Pix[i] = uint8(r >> 8)
			buf.Pix[i+1] = uint8(g >> 8)
			buf.Pix[i+2] = uint8(b >> 8)
			i += Channels
		}
	}
	return buf
}
