package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the quality used whenever a cropped card is written as JPEG.
const JPEGQuality = 95

// EncodedImage is an image ready to hand to an MCP client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBase64 encodes img as a base64 PNG, optionally resized by scale.
func EncodeBase64(img image.Image, scale float64) (*EncodedImage, error) {
	if scale != 1.0 && scale > 0 {
		b := img.Bounds()
		newWidth := max(1, int(float64(b.Dx())*scale))
		newHeight := max(1, int(float64(b.Dy())*scale))
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// EncodePNG returns the PNG encoding of img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes img to path, choosing the format from the extension. JPEG
// output uses JPEGQuality. Missing parent directories are created.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SavePath returns the output path for src inside dir. Extensions the
// encoder cannot write (WebP) fall back to PNG.
func SavePath(dir, src string) string {
	base := filepath.Base(src)
	if _, err := imaging.FormatFromFilename(base); err != nil {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	}
	return filepath.Join(dir, base)
}

// UniquePaths returns SavePath(dir, src) for every src, in order. When an
// earlier src already maps to the same output (a.png and a.webp both
// become a.png), the later one gets _2, _3, ... added to its stem.
func UniquePaths(dir string, srcs []string) []string {
	taken := make(map[string]bool, len(srcs))
	out := make([]string, len(srcs))
	for i, src := range srcs {
		p := SavePath(dir, src)
		ext := filepath.Ext(p)
		stem := strings.TrimSuffix(p, ext)
		for n := 2; taken[p]; n++ {
			p = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		taken[p] = true
		out[i] = p
	}
	return out
}
