package datathief

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/ironsheep/datathief-mcp/internal/imaging"
)

// Axis names a chart axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// AxisLimits are the axis values represented by the two reference pixels of
// one axis: Lo at the first reference pixel, Hi at the second.
type AxisLimits struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Validate rejects NaN and infinite limits.
func (l AxisLimits) Validate() error {
	for _, v := range []float64{l.Lo, l.Hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("axis limits must be finite, got [%v, %v]", l.Lo, l.Hi)
		}
	}
	return nil
}

// ReferenceSort selects which reference pairs are put in ascending pixel
// order before the transform is derived.
type ReferenceSort int

const (
	// SortYOnly sorts the y pair after the flip and keeps the x pair in scan
	// order. Annotations must then place the x pixel for XLimits.Lo first in
	// row-major order, usually by putting both x pixels on the same row.
	SortYOnly ReferenceSort = iota
	// SortBoth sorts both pairs ascending.
	SortBoth
	// SortNone keeps both pairs in the order they were found.
	SortNone
)

func (s ReferenceSort) String() string {
	switch s {
	case SortYOnly:
		return "y"
	case SortBoth:
		return "both"
	case SortNone:
		return "none"
	}
	return fmt.Sprintf("ReferenceSort(%d)", int(s))
}

// ParseReferenceSort accepts "y", "both" or "none". An empty string selects
// SortYOnly.
func ParseReferenceSort(s string) (ReferenceSort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "y", "y-only", "yonly":
		return SortYOnly, nil
	case "both":
		return SortBoth, nil
	case "none":
		return SortNone, nil
	}
	return SortYOnly, fmt.Errorf("unknown reference sort %q: want y, both or none", s)
}

// Options configures one calibration.
type Options struct {
	XLimits AxisLimits
	YLimits AxisLimits

	XColor    imaging.Color // x-axis reference pixels
	YColor    imaging.Color // y-axis reference pixels
	DataColor imaging.Color // one pixel per data point

	ReferenceSort ReferenceSort

	// Debug reports every intermediate stage to Logger. It never changes
	// the result.
	Debug bool
	// Logger receives debug output. Nil means the standard logger.
	Logger *log.Logger
}

// DefaultOptions returns unit limits on both axes, blue x references, red y
// references, green data points and SortYOnly.
func DefaultOptions() Options {
	return Options{
		XLimits:   AxisLimits{Lo: 0, Hi: 1},
		YLimits:   AxisLimits{Lo: 0, Hi: 1},
		XColor:    imaging.Blue,
		YColor:    imaging.Red,
		DataColor: imaging.Green,
	}
}

func (o Options) logf(format string, args ...interface{}) {
	if !o.Debug {
		return
	}
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// ReferencePixels holds the reference pixel coordinates of both axes after
// the flip and reference ordering.
type ReferencePixels struct {
	X []int `json:"x"`
	Y []int `json:"y"`
}

// DataPixels holds the data pixel coordinates after the flip, index-aligned.
type DataPixels struct {
	X []int `json:"x"`
	Y []int `json:"y"`
}

// Len returns the number of data points.
func (d DataPixels) Len() int { return len(d.X) }

func (d DataPixels) Less(i, j int) bool { return d.X[i] < d.X[j] }

func (d DataPixels) Swap(i, j int) {
	d.X[i], d.X[j] = d.X[j], d.X[i]
	d.Y[i], d.Y[j] = d.Y[j], d.Y[i]
}

// Result holds the recovered data points, index-aligned and ordered by
// non-decreasing X.
//
// Result satisfies the XYer shape used by gonum plotting (Len and XY).
type Result struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Len returns the number of data points.
func (r *Result) Len() int { return len(r.X) }

// XY returns the i'th data point.
func (r *Result) XY(i int) (x, y float64) { return r.X[i], r.Y[i] }
