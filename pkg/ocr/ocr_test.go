package ocr

import (
	"image/color"
	"os"
	"testing"

	"github.com/disintegration/imaging"

	"billscan/pkg/extract"
)

func TestRunBlankImage(t *testing.T) {
	img := imaging.New(400, 200, color.NRGBA{255, 255, 255, 255})
	f, err := os.CreateTemp("", "blank-*.png")
	if err != nil {
		t.Skip("temp file")
	}
	_ = f.Close()
	_ = imaging.Save(img, f.Name())
	defer os.Remove(f.Name())
	var e Engine
	_, er := e.Run(f.Name(), false)
	if er != ErrNoText {
		t.Fatalf("expected ErrNoText got %v", er)
	}
}

func TestBinarizeProducesBlackAndWhite(t *testing.T) {
	img := imaging.New(4, 4, color.NRGBA{120, 120, 120, 255})
	out := binarize(img, 200)
	r, g, b, _ := out.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("mid-gray below threshold should go black, got %d %d %d", r, g, b)
	}
}

func TestResultDetailed(t *testing.T) {
	if (Result{Text: "x"}).Detailed() {
		t.Fatalf("no tokens must not be detailed")
	}
	r := Result{Text: "x", Tokens: []extract.Token{{Text: "x"}}}
	if !r.Detailed() {
		t.Fatalf("tokens present must be detailed")
	}
}
