package imaging

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// Scanner backgrounds are easiest to compare in HSL: a grey margin has
// near-zero saturation and its lightness tracks scanner exposure.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string            `json:"hex"` // Hex format "#rrggbb"
	RGB autocrop.RGBColor `json:"rgb"` // RGB components
	HSL HSLColor          `json:"hsl"` // HSL representation
}

// NewColorResult describes c in all supported representations.
func NewColorResult(c autocrop.RGBColor) ColorResult {
	return ColorResult{Hex: c.Hex(), RGB: c, HSL: toHSL(c)}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The flattened scan to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
func SampleColor(img *autocrop.Image, x, y int) (*ColorResult, error) {
	if x < 0 || x >= img.Width() || y < 0 || y >= img.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, img.Width(), img.Height())
	}
	c := NewColorResult(img.At(x, y))
	return &c, nil
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string            `json:"hex"`        // Hex color "#rrggbb" (quantized)
	Percentage float64           `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        autocrop.RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequently occurring colors in an image.
//
// Colors are sorted by frequency in descending order (most common first).
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"` // Colors sorted by frequency (descending)
}

// DominantColors extracts the count most common colors from img or a region
// of it. It is the quickest way to find a border colour to pass to the
// grey-margin pass by hand.
//
// # Color Quantization
//
// To group similar colors, each component is quantized to a multiple of 16:
//
//	quantized = (original / 16) * 16
//
// so #f0f0f0 and #fafafa are counted together as #f0f0f0.
//
// # Errors
//
// region, when non-nil, must be a valid rectangle inside the image.
func DominantColors(img *autocrop.Image, count int, region *autocrop.CropRect) (*DominantColorsResult, error) {
	r := img.Bounds()
	if region != nil {
		if !region.Valid() || !region.In(img.Width(), img.Height()) {
			return nil, fmt.Errorf("region %v outside image bounds %dx%d", *region, img.Width(), img.Height())
		}
		r = *region
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	counts := make(map[autocrop.RGBColor]int)
	total := 0
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			c := img.At(x, y)
			c = autocrop.RGBColor{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}
			counts[c]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

func toHSL(c autocrop.RGBColor) HSLColor {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := cf.Hsl()
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
