package batch

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	grey  = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	ink   = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// framedNotecard builds a 400x300 scan: a 20px white frame around a card
// with grey bands left (40px) and right (30px). The default pipeline crops
// it to (58,18,352,282).
func framedNotecard() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 300))
	fill(img, img.Rect, white)
	fill(img, image.Rect(20, 20, 60, 280), grey)
	fill(img, image.Rect(60, 20, 350, 280), ink)
	fill(img, image.Rect(350, 20, 380, 280), grey)
	return img
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Rect, c)
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", filepath.Base(path), err)
	}
	return path
}

// createPDF builds a PDF with one page per image.
func createPDF(t *testing.T, images ...[]byte) []byte {
	t.Helper()
	readers := make([]io.Reader, len(images))
	for i, data := range images {
		readers[i] = bytes.NewReader(data)
	}
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, pdfcpu.DefaultImportConfig(), model.NewDefaultConfiguration()); err != nil {
		t.Fatalf("failed to build test PDF: %v", err)
	}
	return out.Bytes()
}
