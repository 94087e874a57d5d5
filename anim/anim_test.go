package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 30 * time.Millisecond

func TestValueInterpolates(t *testing.T) {
	v := NewValue(300*time.Millisecond, 100)
	assert.False(t, v.Animating())
	assert.Equal(t, 100.0, v.Current())

	require.True(t, v.SetTarget(200))
	assert.False(t, v.SetTarget(200))
	assert.Equal(t, 100.0, v.Current())

	assert.True(t, v.Tick(150*time.Millisecond))
	assert.InDelta(t, 150.0, v.Current(), 1e-6)

	assert.False(t, v.Tick(200*time.Millisecond))
	assert.Equal(t, 200.0, v.Current())
	assert.False(t, v.Tick(tick))
}

func TestValueRetargetCarriesOver(t *testing.T) {
	v := NewValue(300*time.Millisecond, 0)
	v.SetTarget(100)
	v.Tick(150 * time.Millisecond)
	before := v.Current()

	v.SetTarget(-100)
	assert.InDelta(t, before, v.Current(), 1e-9)
	assert.Equal(t, float32(0), v.Progress())

	v.Tick(150 * time.Millisecond)
	assert.InDelta(t, (before-100)/2, v.Current(), 1e-6)
}

func TestValueZeroDuration(t *testing.T) {
	v := NewValue(0, 1)
	v.SetTarget(5)
	assert.False(t, v.Animating())
	assert.Equal(t, 5.0, v.Current())
}

func TestVisibilityLifecycle(t *testing.T) {
	v := NewVisibility(300 * time.Millisecond)
	v.Reset("a", "b")
	assert.Equal(t, Visible, v.Phase("a"))
	assert.Equal(t, Hidden, v.Phase("missing"))
	assert.Equal(t, []string{"a", "b"}, v.Visible())

	assert.True(t, v.Set("a", false))
	assert.False(t, v.Set("a", false))
	assert.Equal(t, Disappearing, v.Phase("a"))
	assert.Equal(t, float32(1), v.Opacity("a"))
	assert.Equal(t, []string{"b"}, v.Visible())

	assert.True(t, v.Tick(150*time.Millisecond))
	assert.InDelta(t, 0.5, v.Opacity("a"), 1e-6)
	assert.False(t, v.Tick(150*time.Millisecond))
	assert.Equal(t, Hidden, v.Phase("a"))
	assert.Zero(t, v.Opacity("a"))
	assert.False(t, v.Drawn("a"))

	assert.True(t, v.Toggle("a"))
	assert.Equal(t, Appearing, v.Phase("a"))
	v.Tick(300 * time.Millisecond)
	assert.Equal(t, Visible, v.Phase("a"))
	assert.False(t, v.Animating())
}

func TestVisibilityReversalIsContinuous(t *testing.T) {
	v := NewVisibility(300 * time.Millisecond)
	v.Reset("a")
	v.Set("a", false)

	maxStep := float64(progressFor(tick, 300*time.Millisecond))
	prev := float64(v.Opacity("a"))
	var curve []float64
	for i := 0; i < 30; i++ {
		switch i {
		case 4:
			v.Set("a", true)
		case 7:
			v.Set("a", false)
		case 9:
			v.Set("a", true)
		}
		v.Tick(tick)
		cur := float64(v.Opacity("a"))
		assert.InDelta(t, prev, cur, maxStep+1e-6, "step %d", i)
		curve = append(curve, cur)
		prev = cur
	}
	assert.Equal(t, 1.0, curve[len(curve)-1])
	assert.Equal(t, Visible, v.Phase("a"))
}

func TestVisibilityZeroDuration(t *testing.T) {
	v := NewVisibility(0)
	v.Reset("a")
	v.Set("a", false)
	assert.Equal(t, Hidden, v.Phase("a"))
	v.Set("new", true)
	assert.Equal(t, Visible, v.Phase("new"))
}
