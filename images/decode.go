package images

import (
	"bytes"
	"image"

	// Register decoders for the common raster formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/chai2010/webp"

	"github.com/pkg/errors"
)

// ErrImageDecode indicates the input bytes are not a decodable image. The
// caller should request a new photo; the pipeline itself stays usable.
var ErrImageDecode = errors.New("images: undecodable image data")

// Decode decodes compressed image bytes into an image.Image. JPEG, PNG, GIF,
// and WebP inputs are supported.
//
// Arguments:
//   - data: The compressed image bytes.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: ErrImageDecode (wrapped) on empty, corrupt, or unsupported input.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrImageDecode, "empty input")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrImageDecode, "decode: %v", err)
	}
	return img, nil
}
