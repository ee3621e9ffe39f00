package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makePNG генерирует одноцветный PNG заданного размера.
func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResizeImageDownscales(t *testing.T) {
	src := makePNG(t, 400, 200)

	out, err := ResizeImage(src, 100, 85)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	// Пропорции сохраняются
	assert.Equal(t, 50, decoded.Bounds().Dy())
}

func TestResizeImageSmallerThanLimit(t *testing.T) {
	src := makePNG(t, 50, 50)

	out, err := ResizeImage(src, 100, 85)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	// Апскейла нет, но PNG всё равно перекодирован в JPEG
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 50, decoded.Bounds().Dx())
}

func TestResizeImageZeroWidthSkipsResize(t *testing.T) {
	src := makePNG(t, 300, 100)

	out, err := ResizeImage(src, 0, 85)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())
}

func TestResizeImageRejectsGarbage(t *testing.T) {
	_, err := ResizeImage([]byte("not an image"), 100, 85)
	assert.Error(t, err)
}
