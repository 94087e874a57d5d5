package pointer

// Tracker follows a crosshair gesture. A gesture that strays vertically
// further than the cancel distance from where it began is treated as a
// scroll and stops tracking.
type Tracker struct {
	cancelDistance float32
	active         bool
	startY         float32
}

// NewTracker returns an idle Tracker. A non-positive cancelDistance never
// cancels.
func NewTracker(cancelDistance float32) *Tracker {
	return &Tracker{cancelDistance: cancelDistance}
}

// Active reports whether a gesture is being tracked.
func (t *Tracker) Active() bool {
	return t.active
}

// Press begins tracking at y.
func (t *Tracker) Press(y float32) {
	t.active = true
	t.startY = y
}

// Move reports whether the gesture is still tracked at y and whether this
// move cancelled it.
func (t *Tracker) Move(y float32) (tracking, cancelled bool) {
	if !t.active {
		return false, false
	}
	d := y - t.startY
	if d < 0 {
		d = -d
	}
	if t.cancelDistance > 0 && d > t.cancelDistance {
		t.active = false
		return false, true
	}
	return true, false
}

// Release ends the gesture and reports whether one was being tracked.
func (t *Tracker) Release() bool {
	was := t.active
	t.active = false
	return was
}
