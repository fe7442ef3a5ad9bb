package datathief

import (
	"image"
	"sort"

	"github.com/ironsheep/datathief-mcp/internal/imaging"
)

// Calibration is the full outcome of one calibration, including the
// intermediate stages that led to the result.
type Calibration struct {
	Height, Width int
	Reference     ReferencePixels
	Data          DataPixels // flipped and ordered by x
	X, Y          AxisTransform
	Result        *Result
}

// Calibrate recovers the data points annotated on grid.
//
// It returns a *ReferenceCountError when either reference color does not
// match exactly two pixels (x is checked first), and a
// *DegenerateCalibrationError when the two reference pixels of an axis share
// a coordinate. No data pixels is not an error: the result is then empty.
func Calibrate(grid *imaging.Grid, opts Options) (*Result, error) {
	c, err := Run(grid, opts)
	if err != nil {
		return nil, err
	}
	return c.Result, nil
}

// CalibrateImage builds a grid from img and calibrates it. Annotation pixels
// must be opaque when img stores premultiplied color (see imaging.NewGrid).
func CalibrateImage(img image.Image, opts Options) (*Result, error) {
	return Calibrate(imaging.NewGrid(img), opts)
}

// CalibrateFile loads path through cache and calibrates it.
func CalibrateFile(cache *imaging.ImageCache, path string, opts Options) (*Result, error) {
	grid, err := cache.LoadGrid(path)
	if err != nil {
		return nil, err
	}
	return Calibrate(grid, opts)
}

// Run performs a calibration and returns every stage along with the result.
func Run(grid *imaging.Grid, opts Options) (*Calibration, error) {
	height, width, channels := grid.Shape()

	xRef := imaging.FindPixels(grid, opts.XColor)
	yRef := imaging.FindPixels(grid, opts.YColor)
	data := imaging.FindPixels(grid, opts.DataColor)

	ref := ReferencePixels{
		X: append([]int{}, xRef.Xs...),
		Y: flip(yRef.Ys, height),
	}
	if opts.ReferenceSort != SortNone {
		sort.Ints(ref.Y)
	}
	if opts.ReferenceSort == SortBoth {
		sort.Ints(ref.X)
	}

	if len(ref.X) != 2 {
		return nil, &ReferenceCountError{Axis: AxisX, Found: len(ref.X), Color: opts.XColor}
	}
	if len(ref.Y) != 2 {
		return nil, &ReferenceCountError{Axis: AxisY, Found: len(ref.Y), Color: opts.YColor}
	}

	d := DataPixels{
		X: append([]int{}, data.Xs...),
		Y: flip(data.Ys, height),
	}

	opts.logf("Image shape: (%d, %d, %d)", height, width, channels)
	opts.logf("Reference pixels: x=%v y=%v", ref.X, ref.Y)
	opts.logf("Data pixels: x=%v y=%v", d.X, d.Y)

	sort.Stable(d)

	xt, err := NewAxisTransform(AxisX, [2]int{ref.X[0], ref.X[1]}, opts.XLimits)
	if err != nil {
		return nil, err
	}
	yt, err := NewAxisTransform(AxisY, [2]int{ref.Y[0], ref.Y[1]}, opts.YLimits)
	if err != nil {
		return nil, err
	}

	xs := xt.ApplyStages(d.X)
	ys := yt.ApplyStages(d.Y)
	for _, st := range []struct {
		t AxisTransform
		s Stages
	}{{xt, xs}, {yt, ys}} {
		opts.logf("For variable %s:", st.t.Axis)
		opts.logf("  pixels-per-value: %v; pixel ratio: %v", st.t.PixelsPerValue(), st.t.Scale)
		opts.logf("  original: %v", st.s.Original)
		opts.logf("  removing reference: %v", st.s.Relative)
		opts.logf("  by pixel: %v", st.s.Scaled)
		opts.logf("  adding limit: %v", st.s.Values)
	}

	return &Calibration{
		Height:    height,
		Width:     width,
		Reference: ref,
		Data:      d,
		X:         xt,
		Y:         yt,
		Result:    &Result{X: xs.Values, Y: ys.Values},
	}, nil
}

// flip converts rows to heights above the bottom edge: py becomes height - py.
func flip(rows []int, height int) []int {
	out := make([]int, len(rows))
	for i, py := range rows {
		out[i] = height - py
	}
	return out
}
