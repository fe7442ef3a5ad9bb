package datathief

import (
	"errors"
	"fmt"

	"github.com/ironsheep/datathief-mcp/internal/imaging"
)

var (
	// ErrReferenceCount is matched by errors.Is for every *ReferenceCountError.
	ErrReferenceCount = errors.New("wrong number of reference pixels")

	// ErrDegenerateCalibration is matched by errors.Is for every
	// *DegenerateCalibrationError.
	ErrDegenerateCalibration = errors.New("degenerate calibration")
)

// ReferenceCountError reports an axis whose reference color did not match
// exactly two pixels. The annotated image has to be fixed; retrying with the
// same image always fails the same way.
type ReferenceCountError struct {
	Axis  Axis
	Found int
	Color imaging.Color
}

func (e *ReferenceCountError) Error() string {
	return fmt.Sprintf("wrong number of %s coordinates found (%d): please ensure exactly 2 pixels have color %s",
		e.Axis, e.Found, e.Color)
}

func (e *ReferenceCountError) Is(target error) bool { return target == ErrReferenceCount }

// DegenerateCalibrationError reports an axis whose two reference pixels share
// the same pixel coordinate, which leaves the scale undefined.
type DegenerateCalibrationError struct {
	Axis  Axis
	Pixel int
}

func (e *DegenerateCalibrationError) Error() string {
	return fmt.Sprintf("both %s reference pixels are at pixel coordinate %d: scale is undefined", e.Axis, e.Pixel)
}

func (e *DegenerateCalibrationError) Is(target error) bool { return target == ErrDegenerateCalibration }
