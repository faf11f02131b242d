package autocrop

import (
	"image"

	"github.com/disintegration/imaging"
)

// Image is an immutable view over decoded pixels.
//
// Cropping an Image never copies pixel data: the returned view shares the
// backing buffer and only narrows the visible rectangle. Nothing in this
// package writes to the buffer, and callers must not mutate the source image
// passed to NewImage afterwards.
type Image struct {
	pix  *image.NRGBA
	rect image.Rectangle // visible area in pix coordinates
}

// NewImage wraps img for scanning. Zero-origin *image.NRGBA values are used
// as-is; every other type (RGBA, Gray, YCbCr, paletted...) is converted once.
// Alpha is ignored by the scanners, so transparent inputs should be
// flattened by the caller first.
func NewImage(img image.Image) *Image {
	var pix *image.NRGBA
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		pix = n
	} else {
		pix = imaging.Clone(img)
	}
	return &Image{pix: pix, rect: pix.Rect}
}

// Width returns the width of the view in pixels.
func (im *Image) Width() int { return im.rect.Dx() }

// Height returns the height of the view in pixels.
func (im *Image) Height() int { return im.rect.Dy() }

// Empty reports whether the view has no pixels.
func (im *Image) Empty() bool { return im.rect.Empty() }

// Bounds returns the full rectangle of the view, (0,0)-(Width,Height).
func (im *Image) Bounds() CropRect {
	return CropRect{Right: im.Width(), Bottom: im.Height()}
}

// At returns the colour at (x, y) relative to the view's top-left corner.
// The caller guarantees 0 <= x < Width and 0 <= y < Height.
func (im *Image) At(x, y int) RGBColor {
	i := im.pix.PixOffset(im.rect.Min.X+x, im.rect.Min.Y+y)
	p := im.pix.Pix[i : i+3 : i+3]
	return RGBColor{R: p[0], G: p[1], B: p[2]}
}

// Luma returns the ITU-R 601-2 luminance of the pixel at (x, y), rounded to
// the nearest integer: (299R + 587G + 114B) / 1000.
func (im *Image) Luma(x, y int) uint8 {
	i := im.pix.PixOffset(im.rect.Min.X+x, im.rect.Min.Y+y)
	p := im.pix.Pix[i : i+3 : i+3]
	return uint8((299*uint32(p[0]) + 587*uint32(p[1]) + 114*uint32(p[2]) + 500) / 1000)
}

// Crop returns a view of r, which must lie within Bounds. An invalid or
// empty rectangle yields the receiver unchanged.
func (im *Image) Crop(r CropRect) *Image {
	if !r.Valid() || !r.In(im.Width(), im.Height()) {
		return im
	}
	if r == im.Bounds() {
		return im
	}
	return &Image{
		pix:  im.pix,
		rect: image.Rect(im.rect.Min.X+r.Left, im.rect.Min.Y+r.Top, im.rect.Min.X+r.Right, im.rect.Min.Y+r.Bottom),
	}
}

// Origin returns the top-left of the view inside the buffer it was cut from.
// Views produced by successive Crop calls share an origin space, so two
// views' rectangles can be related through it.
func (im *Image) Origin() image.Point { return im.rect.Min }

// NRGBA copies the visible pixels into a new zero-origin image suitable for
// encoding.
func (im *Image) NRGBA() *image.NRGBA {
	if im.rect == im.pix.Rect {
		return imaging.Clone(im.pix)
	}
	return imaging.Crop(im.pix, im.rect)
}
