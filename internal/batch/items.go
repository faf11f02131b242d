package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/jameslewellyn/recipe-scan-tool/internal/imaging"
	"github.com/jameslewellyn/recipe-scan-tool/internal/pdfpages"
)

// Item is one card to process.
type Item struct {
	// Source is the image or PDF file the card came from.
	Source string `json:"source"`

	// Page is the 1-based PDF page, 0 for image files.
	Page int `json:"page,omitempty"`

	// Name is the file name used when the card is written out: the
	// image's own name, or <stem>_page<N-1>.png for a PDF page.
	Name string `json:"name"`

	load func() (image.Image, error)
}

// ImageItem returns an item that decodes path when loaded.
func ImageItem(path string) Item {
	return Item{
		Source: path,
		Name:   filepath.Base(path),
		load:   func() (image.Image, error) { return imaging.Open(path) },
	}
}

// pdfSource parses its PDF when the first page is loaded and drops the
// parsed document once every page item has loaded, so only PDFs with
// cards in flight are held in memory. Pages of one PDF load one at a time.
type pdfSource struct {
	path string

	mu        sync.Mutex
	reader    *pdfpages.Reader
	err       error
	remaining int
}

func newPDFSource(path string, pages int) *pdfSource {
	return &pdfSource{path: path, remaining: pages}
}

// items returns one item per page. Items are named as extracted pages
// re-encoded to PNG.
func (s *pdfSource) items() []Item {
	items := make([]Item, 0, s.remaining)
	for nr := 1; nr <= s.remaining; nr++ {
		items = append(items, Item{
			Source: s.path,
			Page:   nr,
			Name:   pdfpages.FileName(s.path, pdfpages.Page{Number: nr}),
			load:   func() (image.Image, error) { return s.page(nr) },
		})
	}
	return items
}

func (s *pdfSource) page(nr int) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reader == nil && s.err == nil {
		s.reader, s.err = pdfpages.OpenFile(s.path)
	}
	r, err := s.reader, s.err
	if s.remaining--; s.remaining <= 0 {
		s.reader = nil
	}
	if err != nil {
		return nil, err
	}

	p := r.Page(nr)
	if p.Image == nil {
		return nil, fmt.Errorf("page %d: %w", nr, pageErr(p))
	}
	return p.Image, nil
}

// Load decodes the item's image.
func (it Item) Load() (image.Image, error) {
	if it.load == nil {
		return nil, fmt.Errorf("%s: nothing to load", it)
	}
	return it.load()
}

func (it Item) String() string {
	if it.Page > 0 {
		return fmt.Sprintf("%s#%d", filepath.Base(it.Source), it.Page)
	}
	return filepath.Base(it.Source)
}

// Collect expands paths into items. Directories contribute their PDFs
// and images (not recursively); PDFs are expanded page by page. Only page
// counts are read here: images are decoded when an item is loaded. Paths are
// processed in the order given, each directory in name order with PDFs
// first. A PDF that cannot be parsed yields a single item that fails on
// Load.
func Collect(paths ...string) ([]Item, error) {
	var items []Item
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}

		if !info.IsDir() {
			more, err := collectFile(path)
			if err != nil {
				return nil, err
			}
			items = append(items, more...)
			continue
		}

		pdfs, err := pdfpages.ListPDFs(path)
		if err != nil {
			return nil, err
		}
		for _, p := range pdfs {
			more, err := collectFile(p)
			if err != nil {
				return nil, err
			}
			items = append(items, more...)
		}

		images, err := imaging.ListImages(path)
		if err != nil {
			return nil, err
		}
		for _, p := range images {
			items = append(items, ImageItem(p))
		}
	}
	return items, nil
}

func collectFile(path string) ([]Item, error) {
	switch {
	case pdfpages.IsPDF(path):
		n, err := pdfpages.PageCount(path)
		if err != nil {
			// An unreadable PDF fails as one item rather than the run.
			return []Item{{
				Source: path,
				Name:   filepath.Base(path),
				load:   func() (image.Image, error) { return nil, err },
			}}, nil
		}
		return newPDFSource(path, n).items(), nil
	case imaging.IsSupported(path):
		return []Item{ImageItem(path)}, nil
	default:
		return nil, fmt.Errorf("unsupported input %s", filepath.Base(path))
	}
}
