// Package axisrange derives the axis bounds used to frame trajectory plots.
package axisrange

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptyRange is returned when bounds are requested over no values.
	ErrEmptyRange = errors.New("axisrange: empty range")

	// ErrNegativeMargin is returned by Margin for margin < 0.
	ErrNegativeMargin = errors.New("axisrange: negative margin")
)

// DefaultMargin is the margin used for the 3D pose and animation views.
const DefaultMargin = 1.0

// Range is an inclusive bound pair with Min <= Max.
type Range struct {
	Min float64
	Max float64
}

// Width returns Max - Min.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Degenerate reports whether the range has zero width.
func (r Range) Degenerate() bool {
	return r.Min == r.Max
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Padded returns (lo + lo/4, hi + hi/4) where lo and hi are the extremes of
// values. The padding follows the sign of each bound: a negative minimum
// moves further down, a positive minimum moves up. A zero bound gets no
// padding. Both bounds are scaled by 5/4, so Min <= Max still holds.
func Padded(values []float64) (Range, error) {
	lo, hi, err := extremes(values)
	if err != nil {
		return Range{}, err
	}
	return Range{Min: lo + lo/4, Max: hi + hi/4}, nil
}

// Margin returns (lo - margin, hi + margin).
func Margin(values []float64, margin float64) (Range, error) {
	if margin < 0 {
		return Range{}, fmt.Errorf("%w: %g", ErrNegativeMargin, margin)
	}
	lo, hi, err := extremes(values)
	if err != nil {
		return Range{}, err
	}
	return Range{Min: lo - margin, Max: hi + margin}, nil
}

// Raw returns the plain (min, max) of values.
func Raw(values []float64) (Range, error) {
	return Margin(values, 0)
}

// Span returns the literal bounds between a first and last value, such as
// t[0] and t[n-1]. The pair is ordered so a reversed series still yields
// Min <= Max.
func Span(first, last float64) Range {
	if last < first {
		first, last = last, first
	}
	return Range{Min: first, Max: last}
}

func extremes(values []float64) (lo, hi float64, err error) {
	if len(values) == 0 {
		return 0, 0, ErrEmptyRange
	}
	return floats.Min(values), floats.Max(values), nil
}
