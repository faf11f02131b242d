package autocrop

// axis maps a side onto scan coordinates so one routine serves all four
// edges. depth counts lines inward from the edge (0 is the outermost line);
// pos runs along the line.
type axis struct {
	img   *Image
	side  Side
	depth int // number of lines along the scan direction
	span  int // length of each line
}

func newAxis(img *Image, side Side) axis {
	a := axis{img: img, side: side}
	switch side {
	case SideLeft, SideRight:
		a.depth, a.span = img.Width(), img.Height()
	default:
		a.depth, a.span = img.Height(), img.Width()
	}
	return a
}

func (a axis) at(depth, pos int) RGBColor {
	switch a.side {
	case SideLeft:
		return a.img.At(depth, pos)
	case SideRight:
		return a.img.At(a.depth-1-depth, pos)
	case SideTop:
		return a.img.At(pos, depth)
	default:
		return a.img.At(pos, a.depth-1-depth)
	}
}

// trim returns the rectangle that removes n lines from the side's edge and
// leaves the other three edges untouched.
func (a axis) trim(n int) CropRect {
	r := a.img.Bounds()
	switch a.side {
	case SideLeft:
		r.Left = n
	case SideRight:
		r.Right -= n
	case SideTop:
		r.Top = n
	default:
		r.Bottom -= n
	}
	return r
}
