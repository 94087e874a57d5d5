package backend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"git.sr.ht/~whereswaldon/zoomchart/series"
)

// headingPattern matches a trace column heading such as "cpu (W) [#3DC23F]".
var headingPattern = regexp.MustCompile(`^(.*?)\s*(?:\[(#[0-9a-fA-F]{6})\])?$`)

// Trace accumulates the rows of a CSV trace. The first column holds a
// timestamp in milliseconds and each further column is a series:
//
//	timestamp (ms), cpu (W) [#3DC23F], gpu (W)
//	1700000000000, 12.5, 3
//
// Values are rounded to integers. An empty cell repeats the previous value of
// its series.
type Trace struct {
	title  string
	ids    []string
	names  []string
	colors []color.NRGBA
	times  []int64
	values [][]int64
}

// NewTrace builds an empty trace from a header record.
func NewTrace(title string, header []string) (*Trace, error) {
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: %s: trace header needs a timestamp and at least one series", ErrFormat, title)
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(header[0])), "timestamp") {
		return nil, fmt.Errorf("%w: %s: first column is %q, not a timestamp", ErrFormat, title, header[0])
	}
	t := &Trace{title: title}
	seen := map[string]bool{}
	for i, h := range header[1:] {
		m := headingPattern.FindStringSubmatch(strings.TrimSpace(h))
		name := m[1]
		if name == "" {
			name = fmt.Sprintf("series %d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s: duplicate column %q", ErrFormat, title, name)
		}
		seen[name] = true
		c := PaletteColor(i)
		if m[2] != "" {
			var err error
			if c, err = ParseColor(m[2]); err != nil {
				return nil, fmt.Errorf("%s: column %q: %w", title, name, err)
			}
		}
		t.ids = append(t.ids, name)
		t.names = append(t.names, name)
		t.colors = append(t.colors, c)
		t.values = append(t.values, nil)
	}
	return t, nil
}

// Len returns the number of rows accepted so far.
func (t *Trace) Len() int {
	return len(t.times)
}

// Append adds one data row. Rows whose timestamp does not advance are
// rejected, leaving the trace unchanged.
func (t *Trace) Append(rec []string) error {
	if len(rec) != len(t.ids)+1 {
		return fmt.Errorf("%w: row has %d fields, want %d", ErrFormat, len(rec), len(t.ids)+1)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp: %w", ErrFormat, err)
	}
	if n := len(t.times); n > 0 && ts <= t.times[n-1] {
		return fmt.Errorf("%w: timestamp %d does not follow %d", ErrFormat, ts, t.times[n-1])
	}
	row := make([]int64, len(t.ids))
	for i, cell := range rec[1:] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			if n := len(t.values[i]); n > 0 {
				row[i] = t.values[i][n-1]
			}
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("%w: column %q: %w", ErrFormat, t.ids[i], err)
		}
		row[i] = int64(math.Round(v))
	}
	t.times = append(t.times, ts)
	for i, v := range row {
		t.values[i] = append(t.values[i], v)
	}
	return nil
}

// Chart snapshots the rows read so far. The snapshot shares no mutable state
// with the trace, so the trace can keep growing while the chart is drawn.
func (t *Trace) Chart() (Chart, error) {
	n := len(t.times)
	chart := Chart{Title: t.title, Series: make([]series.Series, 0, len(t.ids))}
	for i, id := range t.ids {
		s, err := series.FromColumns(id, t.names[i], t.colors[i], t.times[:n:n], t.values[i][:n:n])
		if err != nil {
			return Chart{}, err
		}
		chart.Series = append(chart.Series, s)
	}
	if err := series.Validate(chart.Series); err != nil {
		return Chart{}, err
	}
	return chart, nil
}

func newTraceReader(r io.Reader) *csv.Reader {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	return csvReader
}

// ParseTrace reads a complete CSV trace.
func ParseTrace(title string, r io.Reader) (Chart, error) {
	csvReader := newTraceReader(r)
	header, err := csvReader.Read()
	if err != nil {
		return Chart{}, fmt.Errorf("%w: %s: reading header: %w", ErrFormat, title, err)
	}
	trace, err := NewTrace(title, header)
	if err != nil {
		return Chart{}, err
	}
	for {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return Chart{}, fmt.Errorf("%w: %s: %w", ErrFormat, title, err)
		}
		if err := trace.Append(rec); err != nil {
			line, _ := csvReader.FieldPos(0)
			return Chart{}, fmt.Errorf("%s:%d: %w", title, line, err)
		}
	}
	return trace.Chart()
}
