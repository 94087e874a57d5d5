package backend

import (
	"image/color"
	"strings"
	"testing"

	"git.sr.ht/~whereswaldon/zoomchart/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(s series.Series) []int64 {
	out := make([]int64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

func TestParseTrace(t *testing.T) {
	chart, err := ParseTrace("power", strings.NewReader(`timestamp (ms), cpu (W) [#3DC23F], gpu (W)
0, 12.5, 3
10, , 4
20, 7,
`))
	require.NoError(t, err)
	assert.Equal(t, "power", chart.Title)
	require.Len(t, chart.Series, 2)

	cpu, gpu := chart.Series[0], chart.Series[1]
	assert.Equal(t, "cpu (W)", cpu.ID)
	assert.Equal(t, color.NRGBA{R: 0x3d, G: 0xc2, B: 0x3f, A: 0xff}, cpu.Color)
	assert.Equal(t, []int64{13, 13, 7}, values(cpu))
	assert.Equal(t, "gpu (W)", gpu.Name)
	assert.Equal(t, PaletteColor(1), gpu.Color)
	assert.Equal(t, []int64{3, 4, 4}, values(gpu))
	assert.Equal(t, int64(20), gpu.Last().Time)
}

func TestParseTraceErrors(t *testing.T) {
	for name, text := range map[string]string{
		"no series":         "timestamp (ms)\n0\n1\n",
		"no timestamp":      "cpu, gpu\n0, 1\n",
		"duplicate heading": "timestamp, a, a\n0, 1, 2\n",
		"backwards time":    "timestamp, a\n10, 1\n5, 2\n",
		"bad value":         "timestamp, a\n0, one\n",
		"short row":         "timestamp, a, b\n0, 1\n",
		"single row":        "timestamp, a\n0, 1\n",
		"empty":             "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTrace(name, strings.NewReader(text))
			assert.Error(t, err)
		})
	}
}

func TestTraceAppendKeepsSnapshots(t *testing.T) {
	trace, err := NewTrace("t", []string{"timestamp", "a"})
	require.NoError(t, err)
	require.NoError(t, trace.Append([]string{"0", "1"}))
	require.NoError(t, trace.Append([]string{"1", "2"}))
	before, err := trace.Chart()
	require.NoError(t, err)

	assert.Error(t, trace.Append([]string{"1", "9"}))
	require.NoError(t, trace.Append([]string{"2", "3"}))
	after, err := trace.Chart()
	require.NoError(t, err)

	assert.Equal(t, 3, trace.Len())
	assert.Equal(t, []int64{1, 2}, values(before.Series[0]))
	assert.Equal(t, []int64{1, 2, 3}, values(after.Series[0]))
}
