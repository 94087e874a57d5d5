package sensors

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitRoundTrip(t *testing.T) {
	for u := Joules; u < Unknown; u++ {
		parsed, err := ParseUnit(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, parsed)
	}
	_, err := ParseUnit("furlongs")
	assert.Error(t, err)
}

func TestWave(t *testing.T) {
	w := &Wave{Label: "w", Units: Watts, Base: 10, Amplitude: 5, Period: 4 * time.Second}
	at := func(d time.Duration) float64 {
		v, err := w.Read(time.Unix(0, 0).Add(d))
		require.NoError(t, err)
		return v
	}
	assert.InDelta(t, 10, at(0), 1e-9)
	assert.InDelta(t, 15, at(time.Second), 1e-9)
	assert.InDelta(t, 5, at(3*time.Second), 1e-9)
	assert.InDelta(t, 10, at(4*time.Second), 1e-9)
	assert.Equal(t, "w (W)", Heading(w))

	_, err := (&Wave{Label: "broken"}).Read(time.Now())
	assert.Error(t, err)
}

func TestWalkStaysNonNegative(t *testing.T) {
	w := &Walk{Label: "walk", Start: 1, Step: 10, Rand: rand.New(rand.NewSource(1))}
	first, err := w.Read(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, first)
	for i := 0; i < 100; i++ {
		v, err := w.Read(time.Time{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestDefaultsAreDeterministic(t *testing.T) {
	read := func() []float64 {
		var out []float64
		for _, s := range Defaults(7) {
			v, err := s.Read(time.UnixMilli(1542412800000))
			require.NoError(t, err)
			out = append(out, v)
		}
		return out
	}
	assert.Equal(t, read(), read())
}
