package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Rotation is a clockwise quarter turn applied to a card for display.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// ParseRotation validates degrees. Negative and full-turn values are
// normalised (-90 is 270, 450 is 90); anything that is not a multiple of 90
// is rejected.
func ParseRotation(degrees int) (Rotation, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("rotation must be a multiple of 90 degrees, got %d", degrees)
	}
	d := ((degrees % 360) + 360) % 360
	return Rotation(d), nil
}

// Rotate returns img turned clockwise by r.
func Rotate(img image.Image, r Rotation) (*image.NRGBA, error) {
	// imaging's Rotate* helpers turn counter-clockwise.
	switch r {
	case Rotate0:
		return imaging.Clone(img), nil
	case Rotate90:
		return imaging.Rotate270(img), nil
	case Rotate180:
		return imaging.Rotate180(img), nil
	case Rotate270:
		return imaging.Rotate90(img), nil
	}
	return nil, fmt.Errorf("unsupported rotation %d", int(r))
}
