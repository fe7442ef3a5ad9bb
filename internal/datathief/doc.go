// Package datathief recovers data values from annotated chart images.
//
// A chart is annotated by hand with single pixels of three colors: two pixels
// marking known positions on the x-axis (pure blue by default), two marking
// known positions on the y-axis (pure red by default) and one pixel per data
// point (pure green by default). Given the axis values those reference pixels
// stand for, Calibrate maps every data pixel to chart coordinates:
//
//	grid, _ := cache.LoadGrid("figure_annotated.png")
//	opts := datathief.DefaultOptions()
//	opts.XLimits = datathief.AxisLimits{Lo: -10, Hi: 20}
//	opts.YLimits = datathief.AxisLimits{Lo: 0, Hi: 15}
//	res, err := datathief.Calibrate(grid, opts)
//
// # Pipeline
//
//  1. Locate the x reference, y reference and data pixels by exact color.
//  2. Flip rows so y grows upward: py becomes height - py.
//  3. Order the reference pixels (see ReferenceSort).
//  4. Require exactly two reference pixels per axis.
//  5. Stable-sort the data points by pixel x.
//  6. Map each axis independently: (p - ref[0]) * scale + lo, with
//     scale = (hi - lo) / (ref[1] - ref[0]).
//
// The x reference pixels only contribute their columns and the y reference
// pixels only their rows, so each pair can sit anywhere along the other axis.
//
// Calibrate is a pure function of its inputs and keeps no state between
// calls.
package datathief
