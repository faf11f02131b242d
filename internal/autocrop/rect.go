package autocrop

import (
	"fmt"
	"image"
	"strings"
)

// CropRect is a crop rectangle in pixel coordinates. Left and Top are
// inclusive, Right and Bottom exclusive.
type CropRect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns Right - Left.
func (r CropRect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r CropRect) Height() int { return r.Bottom - r.Top }

// Valid reports whether r has positive area. Degenerate rectangles are
// never returned by this package.
func (r CropRect) Valid() bool {
	return r.Left >= 0 && r.Top >= 0 && r.Left < r.Right && r.Top < r.Bottom
}

// In reports whether r lies within a width x height image.
func (r CropRect) In(width, height int) bool {
	return r.Left >= 0 && r.Top >= 0 && r.Right <= width && r.Bottom <= height
}

// Offset translates r by (dx, dy).
func (r CropRect) Offset(dx, dy int) CropRect {
	return CropRect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersect returns the largest rectangle contained by both r and s. The
// result may be degenerate; check Valid.
func (r CropRect) Intersect(s CropRect) CropRect {
	return CropRect{
		Left:   max(r.Left, s.Left),
		Top:    max(r.Top, s.Top),
		Right:  min(r.Right, s.Right),
		Bottom: min(r.Bottom, s.Bottom),
	}
}

// Rectangle converts r to an image.Rectangle.
func (r CropRect) Rectangle() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func (r CropRect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Side names the image edge a grey-margin pass works from.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

var sideNames = [...]string{"left", "right", "top", "bottom"}

// Valid reports whether s is one of the four named sides.
func (s Side) Valid() bool { return s >= SideLeft && s <= SideBottom }

func (s Side) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	v, ok := ParseSide(string(text))
	if !ok {
		return fmt.Errorf("unknown side %q", text)
	}
	*s = v
	return nil
}

// ParseSide parses "left", "right", "top" or "bottom", case-insensitively.
func ParseSide(name string) (Side, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range sideNames {
		if n == name {
			return Side(i), true
		}
	}
	return 0, false
}
