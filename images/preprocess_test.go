package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestPNG renders a small gradient image so decode and resize tests
// work on real compressed bytes instead of fixtures.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 64,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeValidPNG(t *testing.T) {
	data := encodeTestPNG(t, 32, 24)

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestDecodeGarbageBytes(t *testing.T) {
	cases := map[string][]byte{
		"empty":     {},
		"nil":       nil,
		"text":      []byte("definitely not an image"),
		"truncated": encodeTestPNG(t, 16, 16)[:8],
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrImageDecode), "decode failures must carry ErrImageDecode")
		})
	}
}

func TestResizeSquareStretchesAspectRatio(t *testing.T) {
	// A wide source must still produce a square buffer: the contract is
	// stretch, not crop.
	data := encodeTestPNG(t, 64, 16)
	img, err := Decode(data)
	require.NoError(t, err)

	buf := ResizeSquare(img, 8)
	assert.Equal(t, 8, buf.Size)
	assert.Len(t, buf.Pix, 8*8*Channels)
}

func TestResizeSquareDeterministic(t *testing.T) {
	data := encodeTestPNG(t, 40, 30)
	img, err := Decode(data)
	require.NoError(t, err)

	first := ResizeSquare(img, 16)
	second := ResizeSquare(img, 16)
	assert.Equal(t, first.Pix, second.Pix, "identical input must resize identically")
}

func TestNormalizeZeroToOne(t *testing.T) {
	buf := &ImageBuffer{Size: 1, Pix: []uint8{0, 128, 255}}

	tensor, err := Normalize(buf, NormalizeOptions{Mode: NormalizeZeroToOne})
	require.NoError(t, err)
	require.Len(t, tensor.Data, 3)
	assert.InDelta(t, 0.0, tensor.Data[0], 1e-6)
	assert.InDelta(t, 128.0/255.0, tensor.Data[1], 1e-6)
	assert.InDelta(t, 1.0, tensor.Data[2], 1e-6)
}

func TestNormalizeMinusOneToOne(t *testing.T) {
	buf := &ImageBuffer{Size: 1, Pix: []uint8{0, 255, 255}}

	tensor, err := Normalize(buf, NormalizeOptions{Mode: NormalizeMinusOneToOne})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, tensor.Data[0], 1e-6)
	assert.InDelta(t, 1.0, tensor.Data[1], 1e-3)
}

func TestNormalizeStandardizeDefaultsToImageNet(t *testing.T) {
	buf := &ImageBuffer{Size: 1, Pix: []uint8{255, 0, 128}}

	tensor, err := Normalize(buf, NormalizeOptions{Mode: NormalizeStandardize})
	require.NoError(t, err)
	assert.InDelta(t, (1.0-ImageNetMean[0])/ImageNetStd[0], tensor.Data[0], 1e-5)
	assert.InDelta(t, (0.0-ImageNetMean[1])/ImageNetStd[1], tensor.Data[1], 1e-5)
}

func TestNormalizeCHWLayout(t *testing.T) {
	// Two pixels: pure red then pure blue. In CHW layout the red plane comes
	// first, so red channel values occupy indices [0, plane).
	buf := &ImageBuffer{Size: 2, Pix: []uint8{
		255, 0, 0,
		0, 0, 255,
		0, 0, 0,
		0, 0, 0,
	}}

	tensor, err := Normalize(buf, NormalizeOptions{Mode: NormalizeZeroToOne})
	require.NoError(t, err)
	plane := 4
	assert.InDelta(t, 1.0, tensor.Data[0*plane+0], 1e-6, "red plane, pixel 0")
	assert.InDelta(t, 0.0, tensor.Data[2*plane+0], 1e-6, "blue plane, pixel 0")
	assert.InDelta(t, 1.0, tensor.Data[2*plane+1], 1e-6, "blue plane, pixel 1")
}

func TestNormalizeRejectsShapeMismatch(t *testing.T) {
	buf := &ImageBuffer{Size: 4, Pix: make([]uint8, 5)}

	_, err := Normalize(buf, NormalizeOptions{})
	assert.Error(t, err)
}
