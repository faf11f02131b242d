// Package autocrop removes non-content margins from scanned notecard images.
//
// The package is a pure computation: every function consumes an immutable
// *Image plus explicit parameters and returns a new view and a crop
// rectangle. Nothing here performs I/O, logs, or keeps package-level state,
// so any number of images can be processed concurrently.
//
// # Passes
//
// Two kinds of margin are handled:
//
//   - White border: a global pass (WhiteBorder) that converts every pixel to
//     luminance and keeps the tight bounding box of all pixels darker than a
//     threshold.
//   - Grey margin: a per-side pass (GreyMargin) that estimates the margin
//     colour near one edge and walks lines inward until a line no longer
//     matches that colour.
//
// Pipeline sequences them in the canonical order: white, left, right, with
// top and bottom available when configured.
//
// # Coordinate System
//
// Coordinates are 0-based with the origin at the top-left pixel of the
// current view. CropRect uses inclusive Left/Top and exclusive Right/Bottom.
//
// # Outcomes
//
// No pass returns an error. Ambiguous or degenerate inputs resolve to the
// input unchanged, and the Result carries an Outcome saying why. The one
// outcome worth surfacing to an operator is OutcomeScanLimit: the scanner
// walked its whole scan range without finding content, so the crop is a
// guess (see Outcome.Uncertain).
package autocrop
