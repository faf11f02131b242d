package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strings"
	"unicode"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/otiai10/gosseract/v2"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a word or line with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the complete results of text extraction from an image.
type OCRResult struct {
	// FullText is all recognized text with original spacing/newlines.
	FullText string `json:"full_text"`

	// Lines contains each recognised text line, top to bottom.
	Lines []TextRegion `json:"lines"`

	// Words contains individual words with their bounding boxes.
	// May be empty if bounding box extraction fails.
	Words []TextRegion `json:"words"`
}

// Options configures a Recognizer.
type Options struct {
	// Language is the Tesseract language code, "eng" by default.
	Language string

	// TessdataPrefix overrides the language data directory.
	TessdataPrefix string

	// Contrast is the contrast boost applied before recognition, as a
	// percentage change (-100 to 100). Handwritten cards benefit from 20-40.
	Contrast float64

	// MinConfidence is the minimum line confidence (0.0 to 1.0) for a title
	// suggestion.
	MinConfidence float64
}

// DefaultOptions returns the options used for title suggestion.
func DefaultOptions() Options {
	return Options{Language: "eng", Contrast: 30, MinConfidence: 0.6}
}

// Recognizer runs Tesseract with fixed options. A Recognizer holds no
// Tesseract state; each call creates its own client, so it is safe for
// concurrent use.
type Recognizer struct {
	opts Options
}

// NewRecognizer returns a recognizer for opts.
func NewRecognizer(opts Options) *Recognizer {
	if opts.Language == "" {
		opts.Language = "eng"
	}
	return &Recognizer{opts: opts}
}

// Preprocess prepares a card for recognition: contrast is boosted by
// contrast percent and the result is converted to greyscale.
func Preprocess(img image.Image, contrast float64) *image.Gray {
	if contrast != 0 {
		img = adjust.Contrast(img, contrast/100)
	}
	return effect.Grayscale(img)
}

// Recognize performs OCR on img and returns its text, lines and words.
//
// # Error Handling
//
// If word-level bounding box extraction fails (which can happen with some
// Tesseract configurations), the function still returns the full text with
// empty Lines and Words.
func (r *Recognizer) Recognize(img image.Image) (*OCRResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Preprocess(img, r.opts.Contrast)); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if r.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.opts.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(r.opts.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	result := &OCRResult{FullText: text, Lines: []TextRegion{}, Words: []TextRegion{}}

	lines, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return result, nil
	}
	result.Lines = regions(lines)

	words, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}
	result.Words = regions(words)

	return result, nil
}

func regions(boxes []gosseract.BoundingBox) []TextRegion {
	out := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		out = append(out, TextRegion{
			Text:       text,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	return out
}

// TitleSuggestion is a proposed recipe title.
type TitleSuggestion struct {
	Title      string  `json:"title"`
	Confidence float64 `json:"confidence"`
	Bounds     Bounds  `json:"bounds"`
	Found      bool    `json:"found"`
}

// SuggestTitle recognises img and proposes its title line.
func (r *Recognizer) SuggestTitle(img image.Image) (*TitleSuggestion, error) {
	result, err := r.Recognize(img)
	if err != nil {
		return nil, err
	}
	s := PickTitle(result.Lines, r.opts.MinConfidence)
	return &s, nil
}

// PickTitle chooses the topmost line that reads like a title: at least
// minConfidence, at least three letters, and mostly letters rather than
// digits or punctuation (which rules out "1 cup flour" style ingredient
// lines and scanner noise).
func PickTitle(lines []TextRegion, minConfidence float64) TitleSuggestion {
	sorted := make([]TextRegion, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Bounds.Y1 < sorted[j].Bounds.Y1 })

	for _, l := range sorted {
		if l.Confidence < minConfidence {
			continue
		}
		title := cleanTitle(l.Text)
		if !looksLikeTitle(title) {
			continue
		}
		return TitleSuggestion{Title: title, Confidence: l.Confidence, Bounds: l.Bounds, Found: true}
	}
	return TitleSuggestion{}
}

func cleanTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func looksLikeTitle(s string) bool {
	var letters, other int
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsSpace(r):
		default:
			other++
		}
	}
	return letters >= 3 && letters > 2*other
}

// Info describes the OCR subsystem.
type Info struct {
	Available bool     `json:"available"`
	Version   string   `json:"version,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Available reports whether Tesseract can be used, with its version and
// installed languages.
func Available() Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	if version == "" {
		return Info{Error: "tesseract not available"}
	}
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return Info{Available: true, Version: version, Error: err.Error()}
	}
	return Info{Available: true, Version: version, Languages: langs}
}
