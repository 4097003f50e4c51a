package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestMergeImages_OpaqueOverlayCoversBase(t *testing.T) {
	base := encodeJPEG(t, solid(4, 4, color.RGBA{R: 255, A: 255}))
	overlay := encodePNG(t, solid(4, 4, color.RGBA{B: 255, A: 255}))

	merged, err := MergeImages(base, overlay)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(merged))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format, "base container format must be preserved")

	r, _, b, _ := img.At(2, 2).RGBA()
	assert.Less(t, r>>8, uint32(60))
	assert.Greater(t, b>>8, uint32(180))
}

func TestMergeImages_TransparentOverlayKeepsBase(t *testing.T) {
	base := encodeJPEG(t, solid(4, 4, color.RGBA{R: 255, A: 255}))
	overlay := encodePNG(t, solid(4, 4, color.RGBA{}))

	merged, err := MergeImages(base, overlay)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(merged))
	require.NoError(t, err)

	r, _, b, _ := img.At(2, 2).RGBA()
	assert.Greater(t, r>>8, uint32(180))
	assert.Less(t, b>>8, uint32(60))
}

func TestMergeImages_ScalesOverlayToBase(t *testing.T) {
	base := encodeJPEG(t, solid(8, 8, color.RGBA{R: 255, A: 255}))
	overlay := encodePNG(t, solid(2, 2, color.RGBA{B: 255, A: 255}))

	merged, err := MergeImages(base, overlay)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(merged))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, _, b, _ := img.At(7, 7).RGBA()
	assert.Greater(t, b>>8, uint32(180), "scaled overlay must cover the whole base")
}

func TestMergeImages_PNGBaseStaysPNG(t *testing.T) {
	base := encodePNG(t, solid(4, 4, color.RGBA{G: 255, A: 255}))
	overlay := encodePNG(t, solid(4, 4, color.RGBA{B: 255, A: 128}))

	merged, err := MergeImages(base, overlay)
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(merged))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestMergeImages_BadInput(t *testing.T) {
	overlay := encodePNG(t, solid(2, 2, color.RGBA{A: 255}))

	_, err := MergeImages([]byte("not an image"), overlay)
	assert.Error(t, err)

	base := encodeJPEG(t, solid(2, 2, color.RGBA{A: 255}))
	_, err = MergeImages(base, []byte("not an image"))
	assert.Error(t, err)
}
