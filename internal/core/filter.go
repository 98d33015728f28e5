package core

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

// IsBlurry reports whether an image's Laplacian variance falls below the
// threshold. Low variance means few sharp edges, the usual focus
// heuristic. Undecodable bytes are a validation error.
func IsBlurry(data []byte, threshold float64) (bool, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return false, errors.Wrapf(errs.ErrValidation, "undecodable image: %v", err)
	}
	return LaplacianVariance(img) < threshold, nil
}

// LaplacianVariance computes the variance of the 3x3 Laplacian response
// over the grayscale image interior.
func LaplacianVariance(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma, 16-bit channels scaled to 0..255.
			gray[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
	}

	n := float64((w - 2) * (h - 2))
	var sum, sumSq float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := gray[(y-1)*w+x] + gray[(y+1)*w+x] + gray[y*w+x-1] + gray[y*w+x+1] - 4*gray[y*w+x]
			sum += lap
			sumSq += lap * lap
		}
	}

	mean := sum / n
	return sumSq/n - mean*mean
}
