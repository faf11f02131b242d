package autocrop

import (
	"image"
	"image/color"
	"math/rand"
)

// newCanvas creates a width x height image filled with c.
func newCanvas(width, height int, c RGBColor) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	fillRect(img, image.Rect(0, 0, width, height), c)
	return img
}

// fillRect paints r with c.
func fillRect(img *image.NRGBA, r image.Rectangle, c RGBColor) {
	nc := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, nc)
		}
	}
}

// fillNoise paints r with uniformly random colours from a fixed seed.
func fillNoise(img *image.NRGBA, r image.Rectangle, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
}

// marginImage builds a width x height content image with a margin band of
// the given thickness on side.
func marginImage(width, height int, side Side, thickness int, margin, content RGBColor) *image.NRGBA {
	img := newCanvas(width, height, content)
	var r image.Rectangle
	switch side {
	case SideLeft:
		r = image.Rect(0, 0, thickness, height)
	case SideRight:
		r = image.Rect(width-thickness, 0, width, height)
	case SideTop:
		r = image.Rect(0, 0, width, thickness)
	case SideBottom:
		r = image.Rect(0, height-thickness, width, height)
	}
	fillRect(img, r, margin)
	return img
}

// trimmedBy returns how many pixels rect removes from side of a
// width x height image.
func trimmedBy(rect CropRect, side Side, width, height int) int {
	switch side {
	case SideLeft:
		return rect.Left
	case SideRight:
		return width - rect.Right
	case SideTop:
		return rect.Top
	default:
		return height - rect.Bottom
	}
}

var allSides = []Side{SideLeft, SideRight, SideTop, SideBottom}

var (
	lightGrey = RGBColor{R: 235, G: 235, B: 235}
	scanGrey  = RGBColor{R: 220, G: 220, B: 220}
	ink       = RGBColor{R: 30, G: 30, B: 30}
	black     = RGBColor{}
	white     = RGBColor{R: 255, G: 255, B: 255}
)
