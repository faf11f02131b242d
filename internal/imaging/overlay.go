package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
)

// Boundary is one line drawn by CropOverlay.
type Boundary struct {
	Side  autocrop.Side
	Pos   int // column for left/right, row for top/bottom, in image coordinates
	Color color.NRGBA
}

// Overlay colours.
var (
	CropColor   = color.NRGBA{R: 255, A: 255}         // final crop edges
	MarginColor = color.NRGBA{G: 160, B: 255, A: 255} // detected first content line
)

// CropOverlay returns a copy of img with the boundaries drawn on it. Each
// line is labelled with its coordinate so a reviewer can compare it with
// the diagnostic report.
func CropOverlay(img *autocrop.Image, lines []Boundary, showCoordinates bool) *image.NRGBA {
	out := img.NRGBA()
	w, h := img.Width(), img.Height()

	for _, b := range lines {
		switch b.Side {
		case autocrop.SideLeft, autocrop.SideRight:
			if b.Pos < 0 || b.Pos >= w {
				continue
			}
			for y := 0; y < h; y++ {
				out.SetNRGBA(b.Pos, y, b.Color)
			}
			if showCoordinates {
				drawLabel(out, b.Pos+2, 2, fmt.Sprint(b.Pos), color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 180})
			}
		case autocrop.SideTop, autocrop.SideBottom:
			if b.Pos < 0 || b.Pos >= h {
				continue
			}
			for x := 0; x < w; x++ {
				out.SetNRGBA(x, b.Pos, b.Color)
			}
			if showCoordinates {
				drawLabel(out, 2, b.Pos+2, fmt.Sprint(b.Pos), color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 180})
			}
		}
	}
	return out
}

// RectBoundaries returns the four lines outlining r. Right and bottom
// edges are exclusive, so their lines sit on the last kept pixel.
func RectBoundaries(r autocrop.CropRect, c color.NRGBA) []Boundary {
	return []Boundary{
		{Side: autocrop.SideLeft, Pos: r.Left, Color: c},
		{Side: autocrop.SideRight, Pos: r.Right - 1, Color: c},
		{Side: autocrop.SideTop, Pos: r.Top, Color: c},
		{Side: autocrop.SideBottom, Pos: r.Bottom - 1, Color: c},
	}
}

// EdgeBoundary places a line at depth lines in from side of a
// width x height image.
func EdgeBoundary(side autocrop.Side, depth, width, height int, c color.NRGBA) Boundary {
	pos := depth
	switch side {
	case autocrop.SideRight:
		pos = width - 1 - depth
	case autocrop.SideBottom:
		pos = height - 1 - depth
	}
	return Boundary{Side: side, Pos: pos, Color: c}
}

// OverlayPreview encodes an overlay for an MCP client, shrunk to fit
// maxSize so large scans stay within message limits.
func OverlayPreview(overlay *image.NRGBA, maxSize int) (*EncodedImage, error) {
	var img image.Image = overlay
	b := overlay.Bounds()
	if maxSize > 0 && (b.Dx() > maxSize || b.Dy() > maxSize) {
		img = imaging.Fit(overlay, maxSize, maxSize, imaging.Box)
	}
	return EncodeBase64(img, 1.0)
}

// drawLabel draws a simple text label at the given position using a 3x5
// pixel digit font.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		'-': {"000", "000", "111", "000", "000"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.SetNRGBA(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px, py := cx+col, y+row
				if image.Pt(px, py).In(bounds) {
					img.SetNRGBA(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
