// Package imaging provides the pixel-level building blocks of chart digitizing.
//
// This package loads annotated chart images, materializes them into immutable
// pixel grids, resolves colors, and locates every pixel that exactly matches a
// given color. It also offers small inspection helpers (color sampling,
// palette extraction and magnified crops) that help a user check how a chart
// has been annotated before calibrating it.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: column (0 = leftmost pixel)
//   - Y: row (0 = topmost pixel)
//
// Chart y-axes grow upward, so callers that need value space must flip rows
// themselves (see the datathief package).
//
// # Color Matching
//
// Matching is exact equality on the 8-bit R, G and B channels. Alpha is kept
// in the grid but never compared. 16-bit sources are reduced to their high
// byte when the grid is built, the same reduction SampleColor applies.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A Grid is never mutated
// after construction, so any number of goroutines may scan the same grid.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Malformed color strings or out-of-range float channels
//   - File I/O and decoding errors during image loading
//   - Encoding errors during image output
package imaging
