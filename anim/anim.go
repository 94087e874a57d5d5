// Package anim tracks animation progress for series visibility and scalar
// values such as the chart's maximum Y value. Progress only advances when
// the host calls Tick with the time elapsed since the previous frame.
package anim

import (
	"time"
)

// DefaultDuration is the length of every animation unless configured
// otherwise.
const DefaultDuration = 300 * time.Millisecond

// progressFor converts elapsed into a fraction of d. A non-positive d
// completes immediately.
func progressFor(elapsed, d time.Duration) float32 {
	if d <= 0 {
		return 1
	}
	return float32(elapsed) / float32(d)
}

// Value animates linearly between two float64 values.
type Value struct {
	duration time.Duration
	from, to float64
	progress float32
}

// NewValue returns a settled Value at initial.
func NewValue(d time.Duration, initial float64) *Value {
	return &Value{
		duration: d,
		from:     initial,
		to:       initial,
		progress: 1,
	}
}

// Current returns the interpolated value.
func (v *Value) Current() float64 {
	return v.from + (v.to-v.from)*float64(v.progress)
}

// Target returns the value being animated toward.
func (v *Value) Target() float64 {
	return v.to
}

// Progress returns the fraction of the current animation completed.
func (v *Value) Progress() float32 {
	return v.progress
}

// Animating reports whether the value has yet to reach its target.
func (v *Value) Animating() bool {
	return v.progress < 1
}

// SetTarget starts an animation from the current value toward target,
// replacing any animation in flight. It reports whether the target changed.
func (v *Value) SetTarget(target float64) bool {
	if target == v.to {
		return false
	}
	v.from = v.Current()
	v.to = target
	v.progress = 0
	if v.duration <= 0 {
		v.progress = 1
	}
	return true
}

// Snap jumps to target without animating.
func (v *Value) Snap(target float64) {
	v.from, v.to, v.progress = target, target, 1
}

// Tick advances the animation and reports whether it is still running.
func (v *Value) Tick(elapsed time.Duration) bool {
	if !v.Animating() {
		return false
	}
	v.progress = min(v.progress+progressFor(elapsed, v.duration), 1)
	if v.progress >= 1 {
		v.from = v.to
	}
	return v.Animating()
}
