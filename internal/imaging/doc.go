// Package imaging is the codec side of the autocrop engine.
//
// The engine in package autocrop works on already decoded pixels and never
// touches the filesystem. This package supplies everything around it:
// decoding scans from disk (PNG, JPEG, GIF, BMP, TIFF and WebP), flattening
// transparency onto white, encoding results, building the medium and
// thumbnail variants that are archived next to each cropped card, quarter
// turn rotation, colour sampling for the diagnostics tools, and an overlay
// that draws detected crop boundaries onto a scan.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. For
// regions, the top-left corner is inclusive and the bottom-right corner is
// exclusive, matching autocrop.CropRect.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The values it returns are
// immutable autocrop.Image views and may be shared between goroutines. All
// other functions are stateless.
//
// # Color Representation
//
// Colors are reported as hex "#rrggbb", 8-bit RGB components and HSL (hue
// 0-360, saturation and lightness 0-100).
//
// # Error Handling
//
// Functions return errors for unreadable or undecodable files, coordinates
// outside the image and encoding failures. Errors are wrapped with the
// operation that failed.
package imaging
