package series

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSeries(t *testing.T, id string, times, values []int64) Series {
	t.Helper()
	s, err := FromColumns(id, id, color.NRGBA{A: 0xff}, times, values)
	require.NoError(t, err)
	return s
}

func TestValidate(t *testing.T) {
	times := []int64{0, 10, 20, 30}
	for _, tc := range []struct {
		name    string
		series  []Series
		wantErr bool
	}{
		{
			name: "empty list",
		},
		{
			name: "matching series",
			series: []Series{
				mustSeries(t, "a", times, []int64{5, 15, 10, 20}),
				mustSeries(t, "b", times, []int64{1, 2, 3, 4}),
			},
		},
		{
			name: "length mismatch",
			series: []Series{
				mustSeries(t, "a", times, []int64{5, 15, 10, 20}),
				mustSeries(t, "b", times[:3], []int64{1, 2, 3}),
			},
			wantErr: true,
		},
		{
			name: "single point",
			series: []Series{
				mustSeries(t, "a", times[:1], []int64{5}),
			},
			wantErr: true,
		},
		{
			name: "timestamps differ",
			series: []Series{
				mustSeries(t, "a", times, []int64{5, 15, 10, 20}),
				mustSeries(t, "b", []int64{0, 10, 25, 30}, []int64{1, 2, 3, 4}),
			},
			wantErr: true,
		},
		{
			name: "not increasing",
			series: []Series{
				mustSeries(t, "a", []int64{0, 10, 10, 30}, []int64{5, 15, 10, 20}),
			},
			wantErr: true,
		},
		{
			name: "duplicate ids",
			series: []Series{
				mustSeries(t, "a", times, []int64{5, 15, 10, 20}),
				mustSeries(t, "a", times, []int64{1, 2, 3, 4}),
			},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.series)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvariant)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromColumnsMismatch(t *testing.T) {
	_, err := FromColumns("a", "A", color.NRGBA{}, []int64{1, 2}, []int64{1})
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestSearchAndDomain(t *testing.T) {
	s := mustSeries(t, "a", []int64{0, 10, 20, 30}, []int64{5, 15, 10, 20})
	assert.Equal(t, 0, s.Search(-5))
	assert.Equal(t, 1, s.Search(10))
	assert.Equal(t, 2, s.Search(11))
	assert.Equal(t, 4, s.Search(31))

	lo, hi := s.Domain()
	assert.Equal(t, int64(0), lo)
	assert.Equal(t, int64(30), hi)

	lo, hi = Series{}.Domain()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}
