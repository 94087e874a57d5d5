package anim

import (
	"sort"
	"time"
)

// Phase is a series' position in its show/hide lifecycle.
type Phase uint8

const (
	Hidden Phase = iota
	Appearing
	Visible
	Disappearing
)

func (p Phase) String() string {
	switch p {
	case Hidden:
		return "hidden"
	case Appearing:
		return "appearing"
	case Visible:
		return "visible"
	case Disappearing:
		return "disappearing"
	default:
		return "unknown"
	}
}

type entry struct {
	phase    Phase
	progress float32
}

// Visibility tracks the appear/disappear animations of a set of series
// keyed by id.
type Visibility struct {
	duration time.Duration
	entries  map[string]*entry
}

// NewVisibility returns an empty tracker whose transitions last d.
func NewVisibility(d time.Duration) *Visibility {
	return &Visibility{
		duration: d,
		entries:  make(map[string]*entry),
	}
}

// Reset forgets every series and registers ids as fully visible.
func (v *Visibility) Reset(ids ...string) {
	clear(v.entries)
	for _, id := range ids {
		v.entries[id] = &entry{phase: Visible, progress: 1}
	}
}

// Phase returns the lifecycle phase of id. Unknown ids are Hidden.
func (v *Visibility) Phase(id string) Phase {
	e, ok := v.entries[id]
	if !ok {
		return Hidden
	}
	return e.phase
}

// Target reports whether id is visible or on its way to becoming visible.
func (v *Visibility) Target(id string) bool {
	p := v.Phase(id)
	return p == Visible || p == Appearing
}

// Opacity returns the current opacity of id in [0, 1].
func (v *Visibility) Opacity(id string) float32 {
	e, ok := v.entries[id]
	if !ok {
		return 0
	}
	switch e.phase {
	case Appearing:
		return e.progress
	case Visible:
		return 1
	case Disappearing:
		return 1 - e.progress
	default:
		return 0
	}
}

// Drawn reports whether id contributes anything to a frame.
func (v *Visibility) Drawn(id string) bool {
	return v.Opacity(id) > 0
}

// Set requests that id become visible or hidden and reports whether that
// started or reversed an animation. Reversing an animation in flight keeps
// the current opacity.
func (v *Visibility) Set(id string, visible bool) bool {
	e, ok := v.entries[id]
	if !ok {
		e = &entry{phase: Hidden, progress: 1}
		v.entries[id] = e
	}
	switch {
	case visible && e.phase == Hidden:
		e.phase, e.progress = Appearing, 0
	case !visible && e.phase == Visible:
		e.phase, e.progress = Disappearing, 0
	case visible && e.phase == Disappearing:
		e.phase, e.progress = Appearing, 1-e.progress
	case !visible && e.phase == Appearing:
		e.phase, e.progress = Disappearing, 1-e.progress
	default:
		return false
	}
	if v.duration <= 0 {
		v.settle(e)
	}
	return true
}

// Toggle flips the target visibility of id and returns the new target.
func (v *Visibility) Toggle(id string) bool {
	target := !v.Target(id)
	v.Set(id, target)
	return target
}

// Animating reports whether any series is mid-transition.
func (v *Visibility) Animating() bool {
	for _, e := range v.entries {
		if e.phase == Appearing || e.phase == Disappearing {
			return true
		}
	}
	return false
}

// Tick advances every transition in flight and reports whether any are
// still running.
func (v *Visibility) Tick(elapsed time.Duration) bool {
	step := progressFor(elapsed, v.duration)
	running := false
	for _, e := range v.entries {
		if e.phase != Appearing && e.phase != Disappearing {
			continue
		}
		e.progress = min(e.progress+step, 1)
		if e.progress >= 1 {
			v.settle(e)
			continue
		}
		running = true
	}
	return running
}

func (v *Visibility) settle(e *entry) {
	switch e.phase {
	case Appearing:
		e.phase = Visible
	case Disappearing:
		e.phase = Hidden
	}
	e.progress = 1
}

// Visible returns the sorted ids whose target is visible.
func (v *Visibility) Visible() []string {
	var ids []string
	for id := range v.entries {
		if v.Target(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
