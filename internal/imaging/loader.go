package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache provides thread-safe caching of decoded images and their grids.
//
// Images are keyed by the exact path string passed to Load. The grid built
// from an image is cached alongside it, so a chart that is calibrated several
// times with different limits or colors is decoded and cloned only once.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	grid, err := cache.LoadGrid("/path/to/annotated.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/annotated.png") // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
	grids  map[string]*Grid
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
		grids:  make(map[string]*Grid),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. Lossy formats
// rarely preserve annotation colors exactly, so PNG is the practical choice
// for annotated charts.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// LoadGrid returns the pixel grid for the image at path, building and caching
// it on first use.
func (c *ImageCache) LoadGrid(path string) (*Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	g := NewGrid(img)

	c.mu.Lock()
	c.grids[path] = g
	c.mu.Unlock()

	return g, nil
}

// Clear removes all images and grids from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.grids = make(map[string]*Grid)
	c.mu.Unlock()
}

// Evict removes a specific image and its grid from the cache.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.grids, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format guessed from the file extension, or "unknown".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	// Grids always hold 8-bit channels regardless of this value.
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// Lossy is true for formats that usually alter annotation colors.
	Lossy bool `json:"lossy"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// # Format Detection
//
// The format is determined by file extension:
//   - ".png" -> "png"
//   - ".jpg", ".jpeg" -> "jpeg" (lossy)
//   - ".gif" -> "gif"
//   - ".bmp" -> "bmp"
//   - ".tif", ".tiff" -> "tiff"
//   - ".webp" -> "webp" (lossy)
//   - Other extensions -> "unknown"
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format, lossy := formatFromExt(filepath.Ext(path))

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		Lossy:         lossy,
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(ext string) (format string, lossy bool) {
	switch strings.ToLower(ext) {
	case ".png":
		return "png", false
	case ".jpg", ".jpeg":
		return "jpeg", true
	case ".gif":
		return "gif", false
	case ".bmp":
		return "bmp", false
	case ".tif", ".tiff":
		return "tiff", false
	case ".webp":
		return "webp", true
	}
	return "unknown", false
}
