package datathief

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// AxisTransform is the affine map from pixel coordinates to axis values for
// one axis.
type AxisTransform struct {
	Axis   Axis       `json:"axis"`
	Ref    [2]int     `json:"ref"`    // pixel positions of Limits.Lo and Limits.Hi
	Limits AxisLimits `json:"limits"` // axis values at Ref[0] and Ref[1]
	Scale  float64    `json:"scale"`  // axis units per pixel
}

// NewAxisTransform derives the transform that maps ref[0] to limits.Lo and
// ref[1] to limits.Hi.
//
// The reference pixels may be in either order; a descending pair simply gives
// a negative scale. Equal reference pixels return a
// *DegenerateCalibrationError. Non-finite limits are rejected.
func NewAxisTransform(axis Axis, ref [2]int, limits AxisLimits) (AxisTransform, error) {
	if err := limits.Validate(); err != nil {
		return AxisTransform{}, fmt.Errorf("%s: %w", axis, err)
	}
	if ref[1] == ref[0] {
		return AxisTransform{}, &DegenerateCalibrationError{Axis: axis, Pixel: ref[0]}
	}
	return AxisTransform{
		Axis:   axis,
		Ref:    ref,
		Limits: limits,
		Scale:  (limits.Hi - limits.Lo) / float64(ref[1]-ref[0]),
	}, nil
}

// PixelsPerValue is the reciprocal of Scale.
func (t AxisTransform) PixelsPerValue() float64 { return 1 / t.Scale }

// Value maps a single pixel coordinate.
func (t AxisTransform) Value(p int) float64 {
	return float64(p-t.Ref[0])*t.Scale + t.Limits.Lo
}

// Stages records each step of Apply for diagnostics.
type Stages struct {
	Original []float64 // pixel coordinates
	Relative []float64 // minus the first reference pixel
	Scaled   []float64 // times the scale
	Values   []float64 // plus the low limit
}

// Apply maps pixel coordinates to axis values. The input is not modified.
func (t AxisTransform) Apply(pixels []int) []float64 {
	return t.ApplyStages(pixels).Values
}

// ApplyStages maps pixel coordinates to axis values and keeps every
// intermediate sequence.
func (t AxisTransform) ApplyStages(pixels []int) Stages {
	var s Stages
	s.Original = make([]float64, len(pixels))
	for i, p := range pixels {
		s.Original[i] = float64(p)
	}

	s.Relative = clone(s.Original)
	floats.AddConst(-float64(t.Ref[0]), s.Relative)

	s.Scaled = clone(s.Relative)
	floats.Scale(t.Scale, s.Scaled)

	s.Values = clone(s.Scaled)
	floats.AddConst(t.Limits.Lo, s.Values)

	return s
}

func clone(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
