package ocr

import (
	"fmt"
	"log"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"billscan/pkg/extract"
)

// Tesseract reports word confidence on a 0..100 scale; tokens below this are
// too garbled to anchor a spatial match.
const minTokenConfidence = 30

// Engine runs Tesseract over bill images. The zero value is usable and
// defaults to English.
type Engine struct {
	Language string
}

func (e *Engine) language() string {
	if e == nil || e.Language == "" {
		return "eng"
	}
	return e.Language
}

// Run OCRs one image. With detailed set it also captures per-word bounding
// boxes so callers can run the spatial extraction pass. When the grayscale
// pass recognizes nothing a second pass over a thresholded rendition is
// tried before giving up with ErrNoText.
func (e *Engine) Run(path string, detailed bool) (Result, error) {
	res, err := e.runOnce(path, detailed, false)
	if err == ErrNoText {
		return e.runOnce(path, detailed, true)
	}
	return res, err
}

func (e *Engine) runOnce(path string, detailed, threshold bool) (Result, error) {
	tmp, cleanup, err := preprocess(path, threshold)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage(e.language())
	client.SetImage(tmp)

	text, err := client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("ocr error: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrNoText
	}

	res := Result{Text: text}
	if detailed {
		boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
		if err != nil {
			// Plain text is still usable; the caller just loses the
			// spatial pass.
			log.Printf("OCR boxes unavailable for %s: %v", path, err)
		}
		for _, b := range boxes {
			if b.Confidence < minTokenConfidence || strings.TrimSpace(b.Word) == "" {
				continue
			}
			res.Tokens = append(res.Tokens, extract.Token{
				Text:       b.Word,
				Confidence: b.Confidence,
				Box: []extract.Point{
					{X: float64(b.Box.Min.X), Y: float64(b.Box.Min.Y)},
					{X: float64(b.Box.Max.X), Y: float64(b.Box.Min.Y)},
					{X: float64(b.Box.Max.X), Y: float64(b.Box.Max.Y)},
					{X: float64(b.Box.Min.X), Y: float64(b.Box.Max.Y)},
				},
			})
		}
	}
	log.Printf("OCR %s threshold=%v tokens=%d snippet=%q", path, threshold, len(res.Tokens), snippet(res.Text, 120))
	return res, nil
}
