package core

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uniformImage(size int, v uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func checkerboardImage(size int) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestLaplacianVariance(t *testing.T) {
	require.Zero(t, LaplacianVariance(uniformImage(16, 128)))
	require.Greater(t, LaplacianVariance(checkerboardImage(16)), 1000.0)
	require.Zero(t, LaplacianVariance(uniformImage(2, 128)), "too small for the kernel")
}

func TestIsBlurry(t *testing.T) {
	blurry, err := IsBlurry(encodePNG(t, uniformImage(16, 128)), 100.0)
	require.NoError(t, err)
	require.True(t, blurry)

	blurry, err = IsBlurry(encodePNG(t, checkerboardImage(16)), 100.0)
	require.NoError(t, err)
	require.False(t, blurry)
}

func TestIsBlurryRejectsUndecodableBytes(t *testing.T) {
	_, err := IsBlurry([]byte("not an image"), 100.0)
	require.ErrorIs(t, err, errs.ErrValidation)
}
