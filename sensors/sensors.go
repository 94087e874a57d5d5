// Package sensors provides synthetic signal sources used to produce chart
// traces without real hardware.
package sensors

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

type Unit uint8

func (u Unit) String() string {
	switch u {
	case Joules:
		return "J"
	case Watts:
		return "W"
	case Amps:
		return "A"
	case Volts:
		return "V"
	case Count:
		return "n"
	default:
		return "?"
	}
}

const (
	Joules Unit = iota
	Watts
	Amps
	Volts
	Count
	Unknown
)

// ParseUnit parses the abbreviation produced by Unit.String.
func ParseUnit(s string) (Unit, error) {
	for u := Joules; u < Unknown; u++ {
		if u.String() == s {
			return u, nil
		}
	}
	return Unknown, fmt.Errorf("unknown unit %q", s)
}

// Sensor is a named source of readings. Read is called once per sample at
// the sample's timestamp.
type Sensor interface {
	Name() string
	Unit() Unit
	Read(at time.Time) (float64, error)
}

// Heading formats the trace column heading for s.
func Heading(s Sensor) string {
	return fmt.Sprintf("%s (%s)", s.Name(), s.Unit())
}

// Wave oscillates around Base with the given Amplitude and Period, plus
// uniform noise of up to Noise in either direction.
type Wave struct {
	Label     string
	Units     Unit
	Base      float64
	Amplitude float64
	Period    time.Duration
	Noise     float64
	Rand      *rand.Rand
}

var _ Sensor = (*Wave)(nil)

func (w *Wave) Name() string { return w.Label }
func (w *Wave) Unit() Unit   { return w.Units }

func (w *Wave) Read(at time.Time) (float64, error) {
	if w.Period <= 0 {
		return 0, fmt.Errorf("sensor %q: period must be positive", w.Label)
	}
	phase := float64(at.UnixNano()%int64(w.Period)) / float64(w.Period)
	v := w.Base + w.Amplitude*math.Sin(2*math.Pi*phase)
	if w.Noise > 0 && w.Rand != nil {
		v += (w.Rand.Float64()*2 - 1) * w.Noise
	}
	return math.Max(v, 0), nil
}

// Walk is a random walk that never drops below zero.
type Walk struct {
	Label string
	Units Unit
	Start float64
	Step  float64
	Rand  *rand.Rand

	current float64
	started bool
}

var _ Sensor = (*Walk)(nil)

func (w *Walk) Name() string { return w.Label }
func (w *Walk) Unit() Unit   { return w.Units }

func (w *Walk) Read(time.Time) (float64, error) {
	if w.Rand == nil {
		return 0, fmt.Errorf("sensor %q: no random source", w.Label)
	}
	if !w.started {
		w.current, w.started = w.Start, true
		return w.current, nil
	}
	w.current = math.Max(w.current+(w.Rand.Float64()*2-1)*w.Step, 0)
	return w.current, nil
}

// Defaults returns a small mixed set of sensors seeded from seed.
func Defaults(seed int64) []Sensor {
	r := rand.New(rand.NewSource(seed))
	return []Sensor{
		&Wave{Label: "joined", Units: Count, Base: 120, Amplitude: 80, Period: 7 * 24 * time.Hour, Noise: 15, Rand: r},
		&Wave{Label: "left", Units: Count, Base: 40, Amplitude: 25, Period: 3 * 24 * time.Hour, Noise: 8, Rand: r},
		&Walk{Label: "active", Units: Count, Start: 500, Step: 30, Rand: r},
	}
}
