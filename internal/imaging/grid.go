package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Grid is an immutable pixel grid with row 0 at the top of the image.
//
// A Grid always starts at (0,0) regardless of the source image bounds and
// stores non-premultiplied 8-bit R, G, B and A channels. Build one with
// NewGrid; the zero value is an empty 0x0 grid.
type Grid struct {
	pix *image.NRGBA
}

// NewGrid copies img into a new Grid.
//
// The source image may be released or mutated by the caller afterwards.
// Premultiplied sources (*image.RGBA, *image.RGBA64, *image.Paletted and
// friends) are converted to straight alpha, so a fully transparent pixel in
// such an image has no recoverable RGB and reads as black. Decoded PNG files
// are already straight alpha and keep their color at any alpha.
func NewGrid(img image.Image) *Grid {
	return &Grid{pix: imaging.Clone(img)}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	if g.pix == nil {
		return 0
	}
	return g.pix.Rect.Dx()
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	if g.pix == nil {
		return 0
	}
	return g.pix.Rect.Dy()
}

// Channels is the number of channels stored per pixel.
func (g *Grid) Channels() int { return 4 }

// Shape returns (height, width, channels), the layout of the grid.
func (g *Grid) Shape() (height, width, channels int) {
	return g.Height(), g.Width(), g.Channels()
}

// At returns the RGB color of the pixel at column x, row y.
//
// At panics if (x, y) lies outside the grid, like slice indexing does.
func (g *Grid) At(x, y int) Color {
	i := g.pix.PixOffset(x, y)
	p := g.pix.Pix[i : i+3 : i+3]
	return Color{R: p[0], G: p[1], B: p[2]}
}

// Image returns the grid as an image. The returned image shares memory with
// the grid and must not be modified.
func (g *Grid) Image() image.Image {
	if g.pix == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return g.pix
}

// String describes the grid shape, e.g. "grid(480x640x4)".
func (g *Grid) String() string {
	h, w, c := g.Shape()
	return fmt.Sprintf("grid(%dx%dx%d)", h, w, c)
}
