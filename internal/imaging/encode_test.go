package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestEncodeBase64(t *testing.T) {
	img := createPatternImage(100, 60)

	result, err := EncodeBase64(img, 1.0)
	if err != nil {
		t.Fatalf("EncodeBase64 failed: %v", err)
	}

	if result.Width != 100 || result.Height != 60 {
		t.Errorf("dimensions: got %dx%d, want 100x60", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("payload is not a PNG: %v", err)
	}
	if r, _, _, _ := decoded.At(10, 10).RGBA(); r>>8 != 255 {
		t.Errorf("top-left quadrant should be red")
	}
}

func TestEncodeBase64_Scale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		name  string
		scale float64
		want  int
	}{
		{"double", 2.0, 200},
		{"half", 0.5, 50},
		{"zero ignored", 0, 100},
		{"negative ignored", -1, 100},
		{"tiny clamps to one pixel", 0.001, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EncodeBase64(img, tt.scale)
			if err != nil {
				t.Fatalf("EncodeBase64 failed: %v", err)
			}
			if result.Width != tt.want || result.Height != tt.want {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.want, tt.want)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	img := createPatternImage(40, 40)

	for _, name := range []string{"card.png", "card.jpg"} {
		path := filepath.Join(dir, name)
		if err := Save(img, path); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}
		back, err := imaging.Open(path)
		if err != nil {
			t.Fatalf("reopen %s: %v", name, err)
		}
		if back.Bounds().Dx() != 40 {
			t.Errorf("%s: width %d, want 40", name, back.Bounds().Dx())
		}
	}

	if err := Save(img, filepath.Join(dir, "card.webp")); err == nil {
		t.Error("Save should fail for a format the encoder cannot write")
	}
}

func TestSavePath(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{"/in/card_page1.jpg", "/out/card_page1.jpg"},
		{"/in/scan.TIFF", "/out/scan.TIFF"},
		{"/in/photo.webp", "/out/photo.png"},
	}
	for _, tt := range tests {
		if got := SavePath("/out", tt.src); got != tt.want {
			t.Errorf("SavePath(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestUniquePaths(t *testing.T) {
	tests := []struct {
		name string
		srcs []string
		want []string
	}{
		{
			name: "distinct",
			srcs: []string{"/in/a.png", "/in/b.jpg"},
			want: []string{"/out/a.png", "/out/b.jpg"},
		},
		{
			name: "webp renamed onto png",
			srcs: []string{"/in/a.png", "/in/a.webp"},
			want: []string{"/out/a.png", "/out/a_2.png"},
		},
		{
			name: "suffix already taken",
			srcs: []string{"/in/a.png", "/in/a_2.png", "/in/a.webp"},
			want: []string{"/out/a.png", "/out/a_2.png", "/out/a_3.png"},
		},
		{
			name: "same name in two folders",
			srcs: []string{"/x/card.jpg", "/y/card.jpg", "/z/card.jpg"},
			want: []string{"/out/card.jpg", "/out/card_2.jpg", "/out/card_3.jpg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniquePaths("/out", tt.srcs)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("UniquePaths[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
