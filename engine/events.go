package engine

import (
	"git.sr.ht/~whereswaldon/zoomchart/geometry"
	"git.sr.ht/~whereswaldon/zoomchart/pointer"
)

// Phase is the stage of a pointer gesture.
type Phase uint8

const (
	Press Phase = iota
	Move
	Release
	Cancel
)

func (p Phase) String() string {
	switch p {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is a notification produced by a Chart method. Hosts switch on the
// concrete type.
type Event interface {
	isEvent()
}

// RangeChanged reports a new selection and the time window it covers.
type RangeChanged struct {
	Range  geometry.NormalizedRange
	Window geometry.LongRange
}

// PointerResolved carries the crosshair readings for the pointer position.
type PointerResolved struct {
	pointer.Resolution
}

// PointerCleared reports that the crosshair was removed.
type PointerCleared struct{}

func (RangeChanged) isEvent()    {}
func (PointerResolved) isEvent() {}
func (PointerCleared) isEvent()  {}
