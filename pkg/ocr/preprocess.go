package ocr

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
)

// preprocess writes a cleaned-up grayscale rendition of the bill image to a
// temp file and returns its path plus a cleanup func. When the temp file
// cannot be created the original path is returned and OCR runs on it as-is.
func preprocess(path string, threshold bool) (string, func(), error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < 900 {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}
	if threshold {
		gray = binarize(gray, 200)
	}

	tmp, err := os.CreateTemp("", "billscan-ocr-*.png")
	if err != nil {
		return path, func() {}, nil
	}
	_ = tmp.Close()
	if err := imaging.Save(gray, tmp.Name()); err != nil {
		_ = os.Remove(tmp.Name())
		return path, func() {}, nil
	}
	name := tmp.Name()
	return name, func() { _ = os.Remove(name) }, nil
}

// binarize performs a simple global threshold on a grayscale image. Printed
// bills scan with strong contrast, so a fixed threshold recovers faint text
// when the plain grayscale pass comes back empty.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
