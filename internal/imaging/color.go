package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an exact 8-bit RGB color used for pixel matching.
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Pure colors used as the default annotation palette.
var (
	Blue  = Color{R: 0, G: 0, B: 255}
	Red   = Color{R: 255, G: 0, B: 0}
	Green = Color{R: 0, G: 255, B: 0}
)

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// ParseColor resolves a hex color string of the form "#rrggbb" or "#rgb".
// The leading '#' is optional and case is ignored.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return Color{}, fmt.Errorf("invalid hex color %q: want #rgb or #rrggbb", s)
	}

	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// ColorFromFloats converts channels in the 0-1 range to an 8-bit Color.
func ColorFromFloats(r, g, b float64) (Color, error) {
	for _, v := range []float64{r, g, b} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return Color{}, fmt.Errorf("color channel %v outside [0, 1]", v)
		}
	}
	r8, g8, b8 := colorful.Color{R: r, G: g, B: b}.RGB255()
	return Color{R: r8, G: g8, B: b8}, nil
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 = fully transparent, 255 = fully opaque
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a sampled color in several representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  Color     `json:"rgb"`  // RGB components, usable directly for matching
	RGBA RGBAColor `json:"rgba"` // Straight (non-premultiplied) RGBA
	HSL  HSLColor  `json:"hsl"`
}

// Point represents a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SampleColor returns the color of the grid pixel at (x, y).
//
// The RGB field is exactly the value FindPixels compares against, so a
// sampled annotation pixel can be fed straight back as a match color.
func SampleColor(g *Grid, x, y int) (*ColorResult, error) {
	if x < 0 || x >= g.Width() || y < 0 || y >= g.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := g.At(x, y)
	a := g.pix.Pix[g.pix.PixOffset(x, y)+3]

	return &ColorResult{
		Hex:  c.Hex(),
		RGB:  c,
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: a},
		HSL:  toHSL(c),
	}, nil
}

// Region represents a rectangular region within an image.
//
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string  `json:"hex"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // 0-100
	RGB        Color   `json:"rgb"`
}

// DominantColorsResult contains the most frequent colors, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors returns up to count of the most frequent colors in g.
//
// With exact set, colors are counted as-is, which is what is needed to find
// single-pixel annotation colors and confirm they appear exactly twice. When
// exact is false each channel is quantized to a multiple of 16 to group
// similar shades. A nil region analyzes the whole grid; a region is clipped to
// the grid bounds.
//
// Ties are broken by hex value so the result is deterministic.
func DominantColors(g *Grid, count int, region *Region, exact bool) (*DominantColorsResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	bounds := image.Rect(0, 0, g.Width(), g.Height())
	if region != nil {
		bounds = image.Rect(region.X1, region.Y1, region.X2, region.Y2).Intersect(bounds)
	}

	counts := make(map[Color]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := g.At(x, y)
			if !exact {
				c = Color{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}
			}
			counts[c]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Count:      n,
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Count != colors[j].Count {
			return colors[i].Count > colors[j].Count
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

func toHSL(c Color) HSLColor {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
