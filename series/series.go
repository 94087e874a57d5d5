// Package series holds the chart data model: named, colored sequences of
// integer samples over a shared millisecond time axis.
package series

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
)

// ErrInvariant reports a data set that violates the chart's structural
// requirements. It indicates a programming error in the host, not a
// transient condition.
var ErrInvariant = errors.New("series invariant violated")

// Point is one sample of a series.
type Point struct {
	// Time is a timestamp in milliseconds.
	Time  int64
	Value int64
}

// Series represents one line in a chart. A Series must not be modified
// after it has been handed to a chart; replace it wholesale instead.
type Series struct {
	ID     string
	Name   string
	Color  color.NRGBA
	Points []Point
}

// First returns the earliest sample. It panics on an empty series.
func (s Series) First() Point {
	return s.Points[0]
}

// Last returns the latest sample. It panics on an empty series.
func (s Series) Last() Point {
	return s.Points[len(s.Points)-1]
}

// Domain returns the timestamps of the first and last samples, or zeroes
// for an empty series.
func (s Series) Domain() (min int64, max int64) {
	if len(s.Points) == 0 {
		return 0, 0
	}
	return s.First().Time, s.Last().Time
}

// Search returns the index of the first sample whose timestamp is at or after
// t, or len(s.Points) if there is none.
func (s Series) Search(t int64) int {
	return sort.Search(len(s.Points), func(i int) bool {
		return s.Points[i].Time >= t
	})
}

// Validate checks that the provided series can be drawn together: every series
// has at least two samples, timestamps strictly increase, all series share
// exactly the same timestamps, and ids are unique. An empty list is valid.
func Validate(all []Series) error {
	if len(all) == 0 {
		return nil
	}
	var errs []error
	ids := make(map[string]struct{}, len(all))
	ref := all[0]
	for i, s := range all {
		if _, dup := ids[s.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate series id %q", ErrInvariant, s.ID))
		}
		ids[s.ID] = struct{}{}
		if len(s.Points) < 2 {
			errs = append(errs, fmt.Errorf("%w: series %q has %d points, need at least 2", ErrInvariant, s.ID, len(s.Points)))
			continue
		}
		if len(s.Points) != len(ref.Points) {
			errs = append(errs, fmt.Errorf("%w: series %q has %d points, series %q has %d", ErrInvariant, s.ID, len(s.Points), ref.ID, len(ref.Points)))
			continue
		}
		for j, p := range s.Points {
			if j > 0 && p.Time <= s.Points[j-1].Time {
				errs = append(errs, fmt.Errorf("%w: series %q timestamps not strictly increasing at index %d", ErrInvariant, s.ID, j))
				break
			}
			if i > 0 && p.Time != ref.Points[j].Time {
				errs = append(errs, fmt.Errorf("%w: series %q timestamp %d at index %d differs from series %q", ErrInvariant, s.ID, p.Time, j, ref.ID))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// FromColumns builds a series from parallel timestamp and value columns.
func FromColumns(id, name string, c color.NRGBA, times, values []int64) (Series, error) {
	if len(times) != len(values) {
		return Series{}, fmt.Errorf("%w: series %q has %d values for %d timestamps", ErrInvariant, id, len(values), len(times))
	}
	points := make([]Point, len(times))
	for i := range times {
		points[i] = Point{Time: times[i], Value: values[i]}
	}
	return Series{ID: id, Name: name, Color: c, Points: points}, nil
}
