package pdfpages

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jameslewellyn/recipe-scan-tool/internal/imaging"
)

// ErrNoImage is reported for a page that carries no image at all.
var ErrNoImage = errors.New("no image on page")

// Page is the image extracted from one PDF page.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Image is the decoded scan, nil when Err is set.
	Image image.Image

	// Name is the XObject resource name of the chosen image.
	Name string

	// Ext is the file extension matching Data's encoding (".jpg", ".png",
	// ".tif").
	Ext string

	// Data is the encoded image as stored in, or rendered from, the PDF.
	Data []byte

	// Err explains why the page produced no image.
	Err error
}

// Document is the result of extracting one PDF.
type Document struct {
	Path      string
	PageCount int
	Pages     []Page
}

// Images returns the number of pages that produced an image.
func (d *Document) Images() int {
	n := 0
	for _, p := range d.Pages {
		if p.Image != nil {
			n++
		}
	}
	return n
}

// Reader extracts page images from a parsed PDF one page at a time.
// A Reader is not safe for concurrent use.
type Reader struct {
	ctx *model.Context
}

// OpenFile parses the PDF at path. Page images are not decoded until
// Page is called.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	r, err := Open(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return r, nil
}

// Open parses a PDF from rs.
func Open(rs io.ReadSeeker) (*Reader, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return &Reader{ctx: ctx}, nil
}

// PageCount returns the number of pages.
func (r *Reader) PageCount() int {
	return r.ctx.PageCount
}

// Page extracts and decodes the first decodable image of page nr
// (1-based).
func (r *Reader) Page(nr int) Page {
	if nr < 1 || nr > r.ctx.PageCount {
		return Page{Number: nr, Err: fmt.Errorf("page %d out of range (1-%d)", nr, r.ctx.PageCount)}
	}
	imgs, err := pageImages(r.ctx, nr)
	if err != nil {
		return Page{Number: nr, Err: err}
	}
	return firstImage(nr, imgs)
}

// PageCount parses the PDF at path and returns its page count without
// decoding any images.
func PageCount(path string) (int, error) {
	r, err := OpenFile(path)
	if err != nil {
		return 0, err
	}
	return r.PageCount(), nil
}

// ExtractFile opens path and extracts its page images.
func ExtractFile(path string) (*Document, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	doc := r.extractAll()
	doc.Path = path
	return doc, nil
}

// Extract reads a PDF from rs and returns the first decodable image of
// every page.
func Extract(rs io.ReadSeeker) (*Document, error) {
	r, err := Open(rs)
	if err != nil {
		return nil, err
	}
	return r.extractAll(), nil
}

func (r *Reader) extractAll() *Document {
	doc := &Document{PageCount: r.PageCount()}
	for nr := 1; nr <= r.PageCount(); nr++ {
		doc.Pages = append(doc.Pages, r.Page(nr))
	}
	return doc
}

// pageImages extracts the images of one page. pdfcpu can panic on
// malformed streams; that is confined to the page.
func pageImages(ctx *model.Context, nr int) (imgs []model.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			imgs, err = nil, fmt.Errorf("page %d: panic while extracting images: %v", nr, r)
		}
	}()

	m, err := pdfcpu.ExtractPageImages(ctx, nr, false)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", nr, err)
	}
	for _, img := range m {
		imgs = append(imgs, img)
	}
	return imgs, nil
}

// firstImage decodes the page's images in object order and keeps the first
// one that decodes.
func firstImage(nr int, imgs []model.Image) Page {
	page := Page{Number: nr}
	if len(imgs) == 0 {
		page.Err = ErrNoImage
		return page
	}
	sort.Slice(imgs, func(i, j int) bool { return imgs[i].ObjNr < imgs[j].ObjNr })

	var errs []error
	for _, raw := range imgs {
		if raw.Reader == nil {
			continue
		}
		data, err := io.ReadAll(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("image %s: %w", raw.Name, err))
			continue
		}
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			errs = append(errs, fmt.Errorf("image %s (%s): %w", raw.Name, raw.FileType, err))
			continue
		}
		page.Image = img
		page.Name = raw.Name
		page.Ext = Ext(raw.FileType)
		page.Data = data
		return page
	}

	if len(errs) == 0 {
		page.Err = ErrNoImage
	} else {
		page.Err = fmt.Errorf("page %d: %w", nr, errors.Join(errs...))
	}
	return page
}

// Ext maps a pdfcpu file type to a file extension. Unknown types map to
// ".png".
func Ext(fileType string) string {
	switch strings.ToLower(strings.TrimPrefix(fileType, ".")) {
	case "jpg", "jpeg":
		return ".jpg"
	case "tif", "tiff":
		return ".tif"
	case "gif":
		return ".gif"
	case "bmp":
		return ".bmp"
	default:
		return ".png"
	}
}

// FileName returns the output name for page of the PDF at pdfPath:
// "<stem>_page<index><ext>" with a 0-based index.
func FileName(pdfPath string, page Page) string {
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	ext := page.Ext
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("%s_page%d%s", stem, page.Number-1, ext)
}

// IsPDF reports whether path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// ListPDFs returns the PDF files directly inside dir, sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && IsPDF(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Save writes the page's encoded bytes unchanged into dir under FileName.
func Save(dir, pdfPath string, page Page) (string, error) {
	if page.Data == nil {
		return "", fmt.Errorf("page %d has no image", page.Number)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	out := filepath.Join(dir, FileName(pdfPath, page))
	if err := os.WriteFile(out, page.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filepath.Base(out), err)
	}
	return out, nil
}
