// Package geometry maps series data and normalized range selections into
// device space and back.
package geometry

import (
	"errors"
	"fmt"
)

// ErrRangeOutOfBounds is returned when a host-supplied normalized range
// does not fit the configured scale.
var ErrRangeOutOfBounds = errors.New("normalized range out of bounds")

// LongRange is an inclusive range of timestamps in milliseconds.
type LongRange struct {
	Start, End int64
}

// Span returns End-Start.
func (r LongRange) Span() int64 {
	return r.End - r.Start
}

// Contains reports whether t lies within the inclusive range.
func (r LongRange) Contains(t int64) bool {
	return t >= r.Start && t <= r.End
}

func (r LongRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Scale describes the fixed-point units a NormalizedRange is expressed in.
type Scale struct {
	// Max is the number of units representing the full time extent.
	Max int
	// MinLength is the smallest permitted End-Start.
	MinLength int
}

// DefaultScale is the 0..1000 scale with a 10% minimum window.
var DefaultScale = Scale{Max: 1000, MinLength: 100}

// Full returns the range covering the whole extent.
func (s Scale) Full() NormalizedRange {
	return NormalizedRange{Start: 0, End: s.Max}
}

// NormalizedRange is a selection expressed as fixed-point fractions of the
// full time extent.
type NormalizedRange struct {
	Start, End int
}

// Len returns End-Start.
func (r NormalizedRange) Len() int {
	return r.End - r.Start
}

func (r NormalizedRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// Validate rejects ranges outside [0, s.Max] or shorter than s.MinLength.
// It never adjusts the range.
func (r NormalizedRange) Validate(s Scale) error {
	switch {
	case r.Start < 0 || r.End > s.Max:
		return fmt.Errorf("%w: %v outside [0,%d]", ErrRangeOutOfBounds, r, s.Max)
	case r.Start >= r.End:
		return fmt.Errorf("%w: %v is empty or inverted", ErrRangeOutOfBounds, r)
	case r.Len() < s.MinLength:
		return fmt.Errorf("%w: %v shorter than minimum length %d", ErrRangeOutOfBounds, r, s.MinLength)
	}
	return nil
}
