package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // Register GIF format decoder
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
)

// supportedExtensions lists the file extensions treated as scans.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsSupported reports whether path has an image extension this package can
// decode. The check is case-insensitive.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ListImages returns the supported image files directly inside dir, sorted
// by name. Subdirectories are not descended into.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsSupported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Decode reads an image from r. EXIF orientation in JPEG files is applied
// so phone photos of cards come out upright.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Open decodes the image file at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Flatten composites img onto an opaque white background. Images without
// an alpha channel are converted to NRGBA unchanged.
func Flatten(img image.Image) *image.NRGBA {
	if opaque(img) {
		return imaging.Clone(img)
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Point{}, 1.0)
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// ImageCache provides thread-safe caching of decoded scans to avoid
// redundant disk reads and conversions.
//
// Entries are keyed by the exact path string. Each entry holds the image
// already flattened and wrapped for the autocrop engine; since
// autocrop.Image views are immutable, the same entry can be handed to any
// number of concurrent callers.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). A 600 dpi notecard scan is tens of megabytes once decoded, so
// batch runs should not route every page through a shared cache.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*autocrop.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*autocrop.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk if not
// cached. Transparent pixels are flattened onto white.
func (c *ImageCache) Load(path string) (*autocrop.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	view := autocrop.NewImage(Flatten(img))

	c.mu.Lock()
	if cached, ok := c.images[path]; ok {
		view = cached
	} else {
		c.images[path] = view
	}
	c.mu.Unlock()

	return view, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*autocrop.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths
// are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder name reported by the image header: "png",
	// "jpeg", "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the colour model carries transparency.
	// Such images are flattened onto white before cropping.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads the image header at path without decoding pixel data.
//
// # Color Depth Detection
//
// The colour depth and alpha flag are derived from the header's colour
// model:
//   - RGBA64, NRGBA64 -> 16-bit with alpha
//   - Gray16 -> 16-bit
//   - RGBA, NRGBA, Alpha, paletted with a translucent entry -> 8-bit with alpha
//   - everything else -> 8-bit
func LoadImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch m := cfg.ColorModel.(type) {
	case color.Palette:
		for _, c := range m {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				hasAlpha = true
				break
			}
		}
	default:
		switch cfg.ColorModel {
		case color.RGBAModel, color.NRGBAModel, color.AlphaModel:
			hasAlpha = true
		case color.RGBA64Model, color.NRGBA64Model:
			hasAlpha = true
			colorDepth = "16-bit"
		case color.Gray16Model:
			colorDepth = "16-bit"
		}
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
