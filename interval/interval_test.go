package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestUnionMerge(t *testing.T) {
	tests := []struct {
		name      string
		intervals []Interval
		want      []Interval
		coverage  PosType
	}{
		{
			"empty",
			nil,
			nil,
			0,
		},
		{
			"disjoint",
			[]Interval{{1, 10}, {20, 30}},
			[]Interval{{1, 10}, {20, 30}},
			19,
		},
		{
			"fullContainment",
			[]Interval{{1, 100}, {50, 80}},
			[]Interval{{1, 100}},
			99,
		},
		{
			"touching",
			[]Interval{{1, 10}, {10, 20}},
			[]Interval{{1, 20}},
			19,
		},
		{
			"chainOverlap",
			[]Interval{{1, 20}, {10, 30}, {25, 40}},
			[]Interval{{1, 40}},
			39,
		},
		{
			"duplicates",
			[]Interval{{5, 15}, {5, 15}, {5, 15}},
			[]Interval{{5, 15}},
			10,
		},
		{
			"emptyIntervalsDropped",
			[]Interval{{3, 3}, {7, 12}, {20, 20}},
			[]Interval{{7, 12}},
			5,
		},
		{
			"emptyIntervalInsideGap",
			[]Interval{{1, 5}, {6, 6}, {8, 10}},
			[]Interval{{1, 5}, {8, 10}},
			6,
		},
	}
	for _, tt := range tests {
		u, err := NewUnion(tt.intervals)
		expect.NoError(t, err, tt.name)
		expect.EQ(t, u.Intervals(), tt.want, tt.name)
		expect.EQ(t, u.Coverage(), tt.coverage, tt.name)
		expect.EQ(t, u.NumIntervals(), len(tt.want), tt.name)

		cov, err := Coverage(tt.intervals)
		expect.NoError(t, err, tt.name)
		expect.EQ(t, cov, tt.coverage, tt.name)
	}
}

func TestUnionOrderIndependence(t *testing.T) {
	intervals := []Interval{
		{100, 250}, {1, 20}, {10, 30}, {25, 40}, {240, 260}, {300, 300}, {42, 42}, {270, 280},
	}
	want, err := Merge(intervals)
	expect.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 20; iter++ {
		shuffled := append([]Interval(nil), intervals...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got, err := Merge(shuffled)
		expect.NoError(t, err)
		expect.EQ(t, got, want)
	}
}

func TestUnionMalformed(t *testing.T) {
	_, err := NewUnion([]Interval{{1, 10}, {10, 5}})
	expect.HasSubstr(t, err.Error(), "[10, 5)")
	merr, ok := err.(*MalformedIntervalError)
	expect.True(t, ok)
	expect.EQ(t, merr.Start, PosType(10))
	expect.EQ(t, merr.End, PosType(5))

	_, err = Coverage([]Interval{{10, 5}})
	expect.NotNil(t, err)
}

func TestUnionContains(t *testing.T) {
	u, err := NewUnion([]Interval{{5, 15}, {7, 17}, {20, 25}})
	expect.NoError(t, err)
	for pos := PosType(0); pos < 30; pos++ {
		want := (pos >= 5 && pos < 17) || (pos >= 20 && pos < 25)
		expect.EQ(t, u.Contains(pos), want, "pos=%d", pos)
	}
}

func TestUnionOverlaps(t *testing.T) {
	u, err := NewUnion([]Interval{{5, 17}, {20, 25}})
	expect.NoError(t, err)
	tests := []struct {
		start, end PosType
		want       bool
	}{
		{0, 5, false},
		{0, 6, true},
		{16, 17, true},
		{17, 20, false},
		{17, 21, true},
		{25, 40, false},
		{3, 40, true},
	}
	for _, tt := range tests {
		expect.EQ(t, u.Overlaps(tt.start, tt.end), tt.want, "span=[%d,%d)", tt.start, tt.end)
	}

	empty, err := NewUnion(nil)
	expect.NoError(t, err)
	expect.False(t, empty.Overlaps(0, PosTypeMax))
}

func TestUnionOverlapLen(t *testing.T) {
	u, err := NewUnion([]Interval{{5, 17}, {20, 25}})
	expect.NoError(t, err)
	tests := []struct {
		start, end PosType
		want       PosType
	}{
		{0, 30, 17},
		{0, 5, 0},
		{5, 17, 12},
		{10, 22, 9},
		{17, 20, 0},
		{24, 40, 1},
		{9, 9, 0},
	}
	for _, tt := range tests {
		expect.EQ(t, u.OverlapLen(tt.start, tt.end), tt.want, "span=[%d,%d)", tt.start, tt.end)
	}
}

func TestUnionScanner(t *testing.T) {
	u, err := NewUnion([]Interval{{5, 15}, {7, 17}, {20, 25}})
	expect.NoError(t, err)
	us := NewUnionScanner(u)
	var start, end PosType
	var got []Interval
	for us.Scan(&start, &end, 22) {
		got = append(got, Interval{start, end})
	}
	expect.EQ(t, got, []Interval{{5, 17}, {20, 22}})
	// Resuming with a larger limit picks up at position 22.
	expect.EQ(t, us.Pos(), PosType(22))
	got = nil
	for us.Scan(&start, &end, 40) {
		got = append(got, Interval{start, end})
	}
	expect.EQ(t, got, []Interval{{22, 25}})

	empty := NewUnionScanner(Union{})
	expect.False(t, empty.Scan(&start, &end, PosTypeMax))
}

func TestEndpointIndex(t *testing.T) {
	u, err := NewUnion([]Interval{{5, 17}, {20, 25}})
	expect.NoError(t, err)
	ei := NewEndpointIndex(3, u)
	expect.False(t, ei.Contained())
	ei.Update(6, u)
	expect.True(t, ei.Contained())
	ei.Update(18, u)
	expect.False(t, ei.Contained())
	expect.EQ(t, ei.Begin(), EndpointIndex(2))
	ei.Update(24, u)
	expect.True(t, ei.Contained())
	ei.Update(25, u)
	expect.True(t, ei.Finished(u.endpoints))
}
