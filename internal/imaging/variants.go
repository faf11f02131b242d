package imaging

import (
	"crypto/sha256"
	"encoding/hex"
	"image"

	"github.com/disintegration/imaging"
)

// Default variant sizes: the longest side of each derived image.
const (
	DefaultMediumSize    = 800
	DefaultThumbnailSize = 200
)

// Variant is one encoded rendition of a cropped card.
type Variant struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	SHA256 string `json:"sha256"`
	Size   int    `json:"size"`
	PNG    []byte `json:"-"`
}

// MakeVariant scales img to fit within maxSize x maxSize, preserving aspect
// ratio, and encodes it as PNG. Images already small enough are never
// enlarged. A maxSize of 0 keeps the full resolution.
func MakeVariant(name string, img image.Image, maxSize int) (*Variant, error) {
	b := img.Bounds()
	if maxSize > 0 && (b.Dx() > maxSize || b.Dy() > maxSize) {
		img = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	}

	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &Variant{
		Name:   name,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		SHA256: SHA256Hex(data),
		Size:   len(data),
		PNG:    data,
	}, nil
}

// Variants holds the full, medium and thumbnail renditions of one card.
type Variants struct {
	Full      *Variant `json:"full"`
	Medium    *Variant `json:"medium"`
	Thumbnail *Variant `json:"thumbnail"`
}

// MakeVariants renders all three variants of img.
func MakeVariants(img image.Image, mediumSize, thumbnailSize int) (*Variants, error) {
	full, err := MakeVariant("full", img, 0)
	if err != nil {
		return nil, err
	}
	medium, err := MakeVariant("medium", img, mediumSize)
	if err != nil {
		return nil, err
	}
	thumb, err := MakeVariant("thumbnail", img, thumbnailSize)
	if err != nil {
		return nil, err
	}
	return &Variants{Full: full, Medium: medium, Thumbnail: thumb}, nil
}

// SHA256Hex returns the hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
