package backend

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"git.sr.ht/~whereswaldon/zoomchart/series"
	"github.com/wandb/simplejsonext"
)

// ErrFormat reports a chart file that cannot be decoded.
var ErrFormat = errors.New("malformed chart file")

// Chart is one titled group of series sharing a time axis.
type Chart struct {
	Title  string
	Series []series.Series
}

const (
	columnTypeX    = "x"
	columnTypeLine = "line"
)

// Parse decodes a chart file, choosing the format from the file extension.
// Files ending in .csv are traces; everything else is read as JSON.
func Parse(name string, data []byte) ([]Chart, error) {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		chart, err := ParseTrace(filepath.Base(name), bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return []Chart{chart}, nil
	}
	return ParseJSON(name, data)
}

// ParseJSON decodes the column chart format. The document is either a single
// chart object or an array of them:
//
//	{
//	  "columns": [["x", 1542412800000, ...], ["y0", 37, ...]],
//	  "types":   {"x": "x", "y0": "line"},
//	  "names":   {"y0": "Joined"},
//	  "colors":  {"y0": "#3DC23F"}
//	}
//
// Each chart needs exactly one x column, and every line column must be as
// long as it.
func ParseJSON(name string, data []byte) ([]Chart, error) {
	doc, err := simplejsonext.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, name, err)
	}
	var objects []any
	switch v := doc.(type) {
	case []any:
		objects = v
	case map[string]any:
		objects = []any{v}
	default:
		return nil, fmt.Errorf("%w: %s: expected an array of charts, got %T", ErrFormat, name, doc)
	}
	charts := make([]Chart, 0, len(objects))
	for i, o := range objects {
		obj, ok := o.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: chart %d is %T, not an object", ErrFormat, name, i, o)
		}
		title := fmt.Sprintf("Chart %d", i+1)
		if t, ok := obj["title"].(string); ok && t != "" {
			title = t
		}
		chart, err := parseChart(title, obj)
		if err != nil {
			return nil, fmt.Errorf("%s: chart %d: %w", name, i, err)
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

func parseChart(title string, obj map[string]any) (Chart, error) {
	columns, ok := obj["columns"].([]any)
	if !ok {
		return Chart{}, fmt.Errorf("%w: missing columns", ErrFormat)
	}
	types, err := stringMap(obj, "types")
	if err != nil {
		return Chart{}, err
	}
	names, err := stringMap(obj, "names")
	if err != nil {
		return Chart{}, err
	}
	colors, err := stringMap(obj, "colors")
	if err != nil {
		return Chart{}, err
	}

	type column struct {
		key    string
		values []int64
	}
	var (
		xs    []int64
		haveX bool
		lines []column
	)
	for i, c := range columns {
		raw, ok := c.([]any)
		if !ok || len(raw) == 0 {
			return Chart{}, fmt.Errorf("%w: column %d is not a non-empty array", ErrFormat, i)
		}
		key, ok := raw[0].(string)
		if !ok {
			return Chart{}, fmt.Errorf("%w: column %d has no key", ErrFormat, i)
		}
		values, err := integers(raw[1:])
		if err != nil {
			return Chart{}, fmt.Errorf("%w: column %q: %w", ErrFormat, key, err)
		}
		switch types[key] {
		case columnTypeX:
			if haveX {
				return Chart{}, fmt.Errorf("%w: column %q: more than one x column", ErrFormat, key)
			}
			xs, haveX = values, true
		case columnTypeLine:
			lines = append(lines, column{key: key, values: values})
		default:
			return Chart{}, fmt.Errorf("%w: column %q: unknown type %q", ErrFormat, key, types[key])
		}
	}
	if !haveX {
		return Chart{}, fmt.Errorf("%w: no x column", ErrFormat)
	}

	chart := Chart{Title: title, Series: make([]series.Series, 0, len(lines))}
	for i, l := range lines {
		name := names[l.key]
		if name == "" {
			name = l.key
		}
		c := PaletteColor(i)
		if hex, ok := colors[l.key]; ok {
			if c, err = ParseColor(hex); err != nil {
				return Chart{}, fmt.Errorf("column %q: %w", l.key, err)
			}
		}
		s, err := series.FromColumns(l.key, name, c, xs, l.values)
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

func stringMap(obj map[string]any, field string) (map[string]string, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return map[string]string{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not an object", ErrFormat, field, raw)
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%q] is %T, not a string", ErrFormat, field, k, v)
		}
		out[k] = s
	}
	return out, nil
}

// integers converts decoded JSON numbers. Floats are accepted only when they
// hold an integral value.
func integers(raw []any) ([]int64, error) {
	out := make([]int64, len(raw))
	for i, v := range raw {
		switch n := v.(type) {
		case int64:
			out[i] = n
		case float64:
			if n != math.Trunc(n) || math.Abs(n) > math.MaxInt64 {
				return nil, fmt.Errorf("value %d (%v) is not an integer", i, n)
			}
			out[i] = int64(n)
		default:
			return nil, fmt.Errorf("value %d is %T, not a number", i, v)
		}
	}
	return out, nil
}
