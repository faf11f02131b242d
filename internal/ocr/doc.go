// Package ocr reads text from cropped notecards using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Its main
// job is suggesting a recipe title for a freshly cropped card: the card is
// converted to a high-contrast greyscale image, recognised line by line,
// and the topmost confident line of real words is offered as the title.
// Full-card text with word boxes is available for the diagnostics tools.
//
// # Prerequisites
//
// Tesseract and its English language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng libtesseract-dev
//   - macOS: brew install tesseract
//
// OCR is optional. Callers check Available before enabling it and treat a
// failed recognition as "no suggestion", never as a failed card.
//
// # Confidence
//
// Tesseract reports confidence as 0-100; this package normalises it to
// 0.0-1.0.
package ocr
