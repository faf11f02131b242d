package pdfpages

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// encodePNG returns a solid w x h PNG.
func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
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

func TestExtract(t *testing.T) {
	pdf := createPDF(t,
		encodePNG(t, 120, 80, color.NRGBA{200, 200, 200, 255}),
		encodePNG(t, 60, 90, color.NRGBA{30, 30, 30, 255}),
	)

	doc, err := Extract(bytes.NewReader(pdf))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.PageCount != 2 || len(doc.Pages) != 2 {
		t.Fatalf("got %d pages (%d entries), want 2", doc.PageCount, len(doc.Pages))
	}
	if doc.Images() != 2 {
		t.Errorf("Images: got %d, want 2", doc.Images())
	}

	sizes := [][2]int{{120, 80}, {60, 90}}
	for i, p := range doc.Pages {
		if p.Err != nil {
			t.Fatalf("page %d: %v", p.Number, p.Err)
		}
		if p.Number != i+1 {
			t.Errorf("page %d: Number = %d", i, p.Number)
		}
		b := p.Image.Bounds()
		if b.Dx() != sizes[i][0] || b.Dy() != sizes[i][1] {
			t.Errorf("page %d: size %dx%d, want %dx%d", p.Number, b.Dx(), b.Dy(), sizes[i][0], sizes[i][1])
		}
		if len(p.Data) == 0 || p.Ext == "" {
			t.Errorf("page %d: missing encoded data", p.Number)
		}
	}
}

func TestExtract_NotAPDF(t *testing.T) {
	if _, err := Extract(strings.NewReader("definitely not a pdf")); err == nil {
		t.Error("Extract should fail for non-PDF input")
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lasagna.pdf")
	pdf := createPDF(t, encodePNG(t, 40, 30, color.NRGBA{240, 240, 240, 255}))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if doc.Path != path || doc.Images() != 1 {
		t.Errorf("got path %q with %d images", doc.Path, doc.Images())
	}

	if _, err := ExtractFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("ExtractFile should fail for a missing file")
	}
}

func TestReader_Page(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soups.pdf")
	pdf := createPDF(t,
		encodePNG(t, 40, 30, color.NRGBA{240, 240, 240, 255}),
		encodePNG(t, 20, 50, color.NRGBA{30, 30, 30, 255}),
	)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := PageCount(path)
	if err != nil || n != 2 {
		t.Fatalf("PageCount = %d, %v; want 2", n, err)
	}

	r, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	// Pages can be read in any order.
	second := r.Page(2)
	if second.Err != nil || second.Image.Bounds().Dx() != 20 || second.Image.Bounds().Dy() != 50 {
		t.Errorf("page 2: err %v", second.Err)
	}
	first := r.Page(1)
	if first.Err != nil || first.Image.Bounds().Dx() != 40 {
		t.Errorf("page 1: err %v", first.Err)
	}

	for _, nr := range []int{0, 3} {
		if p := r.Page(nr); p.Err == nil || p.Image != nil {
			t.Errorf("page %d: expected an out-of-range error", nr)
		}
	}

	if _, err := PageCount(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("PageCount should fail for a missing file")
	}
}

func TestFirstImage(t *testing.T) {
	good := encodePNG(t, 10, 10, color.NRGBA{255, 0, 0, 255})
	other := encodePNG(t, 20, 20, color.NRGBA{0, 255, 0, 255})

	t.Run("lowest object wins", func(t *testing.T) {
		page := firstImage(1, []model.Image{
			{Reader: bytes.NewReader(other), Name: "Im2", FileType: "png", ObjNr: 9},
			{Reader: bytes.NewReader(good), Name: "Im1", FileType: "png", ObjNr: 4},
		})
		if page.Err != nil {
			t.Fatalf("unexpected error: %v", page.Err)
		}
		if page.Name != "Im1" || page.Image.Bounds().Dx() != 10 {
			t.Errorf("got %s, want Im1", page.Name)
		}
		if page.Ext != ".png" {
			t.Errorf("Ext: got %s, want .png", page.Ext)
		}
	})

	t.Run("skips undecodable", func(t *testing.T) {
		page := firstImage(2, []model.Image{
			{Reader: strings.NewReader("garbage"), Name: "Im1", FileType: "jp2", ObjNr: 1},
			{Reader: bytes.NewReader(good), Name: "Im2", FileType: "png", ObjNr: 2},
		})
		if page.Err != nil || page.Name != "Im2" {
			t.Errorf("got %s (err %v), want Im2", page.Name, page.Err)
		}
	})

	t.Run("all undecodable", func(t *testing.T) {
		page := firstImage(3, []model.Image{
			{Reader: strings.NewReader("garbage"), Name: "Im1", FileType: "jp2", ObjNr: 1},
		})
		if page.Err == nil || page.Image != nil {
			t.Error("expected an error for a page with no decodable image")
		}
		if errors.Is(page.Err, ErrNoImage) {
			t.Error("decode failures should not be reported as ErrNoImage")
		}
	})

	t.Run("empty page", func(t *testing.T) {
		page := firstImage(4, nil)
		if !errors.Is(page.Err, ErrNoImage) {
			t.Errorf("got %v, want ErrNoImage", page.Err)
		}
	})
}

func TestExt(t *testing.T) {
	tests := map[string]string{
		"jpg":   ".jpg",
		"JPEG":  ".jpg",
		"png":   ".png",
		"tif":   ".tif",
		".tiff": ".tif",
		"jp2":   ".png",
		"":      ".png",
	}
	for in, want := range tests {
		if got := Ext(in); got != want {
			t.Errorf("Ext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		pdf  string
		page Page
		want string
	}{
		{"/scans/lasagna.pdf", Page{Number: 1, Ext: ".jpg"}, "lasagna_page0.jpg"},
		{"/scans/lasagna.pdf", Page{Number: 2, Ext: ".png"}, "lasagna_page1.png"},
		{"gran's pie.PDF", Page{Number: 3}, "gran's pie_page2.png"},
	}
	for _, tt := range tests {
		if got := FileName(tt.pdf, tt.page); got != tt.want {
			t.Errorf("FileName(%q, %d) = %q, want %q", tt.pdf, tt.page.Number, got, tt.want)
		}
	}
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "c.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ListPDFs(dir)
	if err != nil {
		t.Fatalf("ListPDFs failed: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[0]) != "a.PDF" || filepath.Base(got[1]) != "b.pdf" {
		t.Errorf("ListPDFs: got %v", got)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	data := encodePNG(t, 5, 5, color.NRGBA{1, 2, 3, 255})

	out, err := Save(dir, "/in/soup.pdf", Page{Number: 1, Ext: ".png", Data: data})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(out) != "soup_page0.png" {
		t.Errorf("Save wrote %s", out)
	}
	written, err := os.ReadFile(out)
	if err != nil || !bytes.Equal(written, data) {
		t.Error("saved bytes differ from page data")
	}

	if _, err := Save(dir, "/in/soup.pdf", Page{Number: 2}); err == nil {
		t.Error("Save should fail for a page without data")
	}
}
