package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// ZoomResult contains a magnified crop encoded as base64 PNG.
type ZoomResult struct {
	X1          int    `json:"x1"`
	Y1          int    `json:"y1"`
	X2          int    `json:"x2"`
	Y2          int    `json:"y2"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Scale       int    `json:"scale"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Zoom crops the square of the given radius around center and magnifies it
// by an integer scale.
//
// The crop is clipped to the grid bounds. Magnification uses nearest-neighbor
// sampling so each source pixel becomes a crisp scale x scale block and single
// annotation pixels keep their exact color.
func Zoom(g *Grid, center Point, radius, scale int) (*ZoomResult, error) {
	if center.X < 0 || center.X >= g.Width() || center.Y < 0 || center.Y >= g.Height() {
		return nil, fmt.Errorf("center (%d,%d) outside image bounds", center.X, center.Y)
	}
	if radius < 0 {
		return nil, fmt.Errorf("radius must not be negative, got %d", radius)
	}
	if scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1, got %d", scale)
	}

	rect := image.Rect(center.X-radius, center.Y-radius, center.X+radius+1, center.Y+radius+1).
		Intersect(image.Rect(0, 0, g.Width(), g.Height()))

	cropped := imaging.Crop(g.Image(), rect)
	if scale > 1 {
		cropped = imaging.Resize(cropped, rect.Dx()*scale, rect.Dy()*scale, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode zoomed image: %w", err)
	}

	return &ZoomResult{
		X1:          rect.Min.X,
		Y1:          rect.Min.Y,
		X2:          rect.Max.X,
		Y2:          rect.Max.Y,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		Scale:       scale,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
