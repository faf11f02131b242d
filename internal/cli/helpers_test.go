package cli

import (
	"bytes"
	"context"
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

	"github.com/jameslewellyn/recipe-scan-tool/internal/config"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	grey  = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	ink   = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

// execute runs the command line with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "")

	root := NewRootCmd(BuildInfo{Version: "1.2.3", BuildTime: "today", GitCommit: "abc123"})
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// framedNotecard is a 400x300 scan with a 20px white frame and grey bands
// left (40px) and right (30px). The default pipeline crops it to
// (58,18,352,282); the white pass alone to (18,18,382,282).
func framedNotecard() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 300))
	fill(img, img.Rect, white)
	fill(img, image.Rect(20, 20, 60, 280), grey)
	fill(img, image.Rect(60, 20, 350, 280), ink)
	fill(img, image.Rect(350, 20, 380, 280), grey)
	return img
}

// greyBandCard is 320x240 of ink with a 40px grey band on the left.
func greyBandCard() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 320, 240))
	fill(img, img.Rect, ink)
	fill(img, image.Rect(0, 0, 40, 240), grey)
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

func imageSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", filepath.Base(path), err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", filepath.Base(path), err)
	}
	return cfg.Width, cfg.Height
}
