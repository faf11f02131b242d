package autocrop

import (
	"image"
	"image/color"
	"testing"
)

func TestNewImage_Dimensions(t *testing.T) {
	im := NewImage(newCanvas(30, 20, lightGrey))
	if im.Width() != 30 || im.Height() != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", im.Width(), im.Height())
	}
	if im.Bounds() != (CropRect{0, 0, 30, 20}) {
		t.Errorf("Bounds() = %v", im.Bounds())
	}
}

func TestNewImage_NonZeroOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 15))
	src.Set(5, 5, color.RGBA{255, 0, 0, 255})

	im := NewImage(src)
	if im.Width() != 10 || im.Height() != 10 {
		t.Fatalf("dimensions: got %dx%d, want 10x10", im.Width(), im.Height())
	}
	if got := im.At(0, 0); got != (RGBColor{255, 0, 0}) {
		t.Errorf("At(0,0) = %v, want red", got)
	}
}

func TestNewImage_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(1, 2, color.Gray{Y: 90})

	im := NewImage(src)
	if got := im.At(1, 2); got != (RGBColor{90, 90, 90}) {
		t.Errorf("At(1,2) = %v, want rgb(90,90,90)", got)
	}
}

func TestImage_Crop(t *testing.T) {
	src := newCanvas(20, 20, white)
	src.SetNRGBA(12, 7, color.NRGBA{1, 2, 3, 255})
	im := NewImage(src)

	view := im.Crop(CropRect{Left: 10, Top: 5, Right: 20, Bottom: 15})
	if view.Width() != 10 || view.Height() != 10 {
		t.Fatalf("view dimensions: got %dx%d, want 10x10", view.Width(), view.Height())
	}
	if got := view.At(2, 2); got != (RGBColor{1, 2, 3}) {
		t.Errorf("view.At(2,2) = %v, want rgb(1,2,3)", got)
	}

	nested := view.Crop(CropRect{Left: 2, Top: 2, Right: 3, Bottom: 3})
	if got := nested.At(0, 0); got != (RGBColor{1, 2, 3}) {
		t.Errorf("nested.At(0,0) = %v, want rgb(1,2,3)", got)
	}
	if nested.Origin() != (image.Point{X: 12, Y: 7}) {
		t.Errorf("nested.Origin() = %v, want (12,7)", nested.Origin())
	}
}

func TestImage_CropInvalid(t *testing.T) {
	im := NewImage(newCanvas(10, 10, white))

	tests := []struct {
		name string
		r    CropRect
	}{
		{"degenerate width", CropRect{5, 0, 5, 10}},
		{"degenerate height", CropRect{0, 5, 10, 5}},
		{"inverted", CropRect{8, 0, 2, 10}},
		{"out of bounds", CropRect{0, 0, 11, 10}},
		{"negative", CropRect{-1, 0, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := im.Crop(tt.r); got != im {
				t.Errorf("Crop(%v) should return the receiver unchanged", tt.r)
			}
		})
	}
}

func TestImage_Luma(t *testing.T) {
	src := newCanvas(3, 1, white)
	src.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	src.SetNRGBA(2, 0, color.NRGBA{0, 0, 0, 255})
	im := NewImage(src)

	tests := []struct {
		x    int
		want uint8
	}{
		{0, 255},
		{1, 76}, // 299*255/1000 = 76.245
		{2, 0},
	}
	for _, tt := range tests {
		if got := im.Luma(tt.x, 0); got != tt.want {
			t.Errorf("Luma(%d,0) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestImage_NRGBA(t *testing.T) {
	src := newCanvas(10, 10, white)
	src.SetNRGBA(4, 4, color.NRGBA{9, 9, 9, 255})
	view := NewImage(src).Crop(CropRect{Left: 4, Top: 4, Right: 8, Bottom: 6})

	out := view.NRGBA()
	if out.Rect != image.Rect(0, 0, 4, 2) {
		t.Fatalf("NRGBA bounds = %v, want (0,0)-(4,2)", out.Rect)
	}
	if got := FromColor(out.At(0, 0)); got != (RGBColor{9, 9, 9}) {
		t.Errorf("NRGBA At(0,0) = %v, want rgb(9,9,9)", got)
	}

	out.SetNRGBA(0, 0, color.NRGBA{1, 1, 1, 255})
	if src.NRGBAAt(4, 4).R != 9 {
		t.Error("NRGBA must copy pixels, not alias the source")
	}
}

func TestCropRect(t *testing.T) {
	r := CropRect{Left: 2, Top: 3, Right: 10, Bottom: 8}
	if r.Width() != 8 || r.Height() != 5 {
		t.Errorf("size: got %dx%d, want 8x5", r.Width(), r.Height())
	}
	if !r.Valid() {
		t.Error("rect should be valid")
	}
	if !r.In(10, 8) || r.In(9, 8) {
		t.Error("In() bounds check wrong")
	}
	if got := r.Intersect(CropRect{0, 0, 5, 5}); got != (CropRect{2, 3, 5, 5}) {
		t.Errorf("Intersect = %v", got)
	}
	if got := r.Offset(1, -1); got != (CropRect{3, 2, 11, 7}) {
		t.Errorf("Offset = %v", got)
	}
	if (CropRect{4, 0, 4, 9}).Valid() {
		t.Error("zero-width rect must be invalid")
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
		ok   bool
	}{
		{"left", SideLeft, true},
		{"Right", SideRight, true},
		{" top ", SideTop, true},
		{"BOTTOM", SideBottom, true},
		{"middle", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseSide(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseSide(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	for _, s := range allSides {
		if s.Opposite().Opposite() != s {
			t.Errorf("%v: Opposite is not an involution", s)
		}
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var back Side
		if err := back.UnmarshalText(text); err != nil || back != s {
			t.Errorf("text round trip for %v: got %v, %v", s, back, err)
		}
	}
}
