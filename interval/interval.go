package interval

import (
	"fmt"
	"sort"
)

// Interval is a single 0-based half-open coordinate range [Start, End).
// Start == End denotes an empty interval; it covers no positions and is
// dropped during union construction.  Start > End is malformed.
type Interval struct {
	Start PosType
	End   PosType
}

// Len returns the number of positions covered by the interval.
func (i Interval) Len() PosType {
	return i.End - i.Start
}

// MalformedIntervalError reports an interval with Start > End.  Group is
// empty when the interval was not associated with a grouping key.
type MalformedIntervalError struct {
	Group string
	Start PosType
	End   PosType
}

func (e *MalformedIntervalError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("interval: malformed interval [%d, %d)", e.Start, e.End)
	}
	return fmt.Sprintf("interval: malformed interval [%d, %d) in group %q", e.Start, e.End, e.Group)
}

// Union is a merged interval set: a sorted sequence of disjoint,
// non-touching intervals covering the union of the inputs it was built
// from.
//
// It is implemented as a length-2N sequence of endpoints, where N is the
// number of intervals, the start position of interval #k (numbering from
// zero) is element [2k] and the end position is element [2k+1].
// Advantages of this representation over a length-N sequence of {start,
// end} structs include reuse of standard []int32 binary and similar search
// algorithms (which the compiler is more likely to optimize well): whether
// a position is covered is just the parity of a binary-search insertion
// point.
type Union struct {
	endpoints []PosType
}

// NewUnion merges intervals into a Union.  The input may be unsorted and
// may contain duplicates and overlapping or touching intervals; the result
// is the unique canonical union, independent of input order.  Empty
// intervals are dropped.  Touching intervals ([a,b) followed by [b,c))
// are fused.
//
// Any interval with Start > End fails the whole call with
// *MalformedIntervalError; no partial result is returned.
//
// O(n log n) time, O(n) space.  Empty input yields an empty Union, not an
// error.
func NewUnion(intervals []Interval) (Union, error) {
	sorted := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Start > iv.End {
			return Union{}, &MalformedIntervalError{Start: iv.Start, End: iv.End}
		}
		if iv.Start != iv.End {
			sorted = append(sorted, iv)
		}
	}
	// End as tie-break is not needed for correctness of the merge below,
	// but it makes the intermediate order deterministic too.
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	endpoints := make([]PosType, 0, 2*len(sorted))
	var curStart, curEnd PosType
	started := false
	for _, iv := range sorted {
		if !started {
			curStart = iv.Start
			curEnd = iv.End
			started = true
			continue
		}
		if iv.Start > curEnd {
			// New interval doesn't overlap or touch the current one, so we
			// can save the current one.
			endpoints = append(endpoints, curStart, curEnd)
			curStart = iv.Start
			curEnd = iv.End
		} else if iv.End > curEnd {
			// Intervals overlap or touch, merge them.
			curEnd = iv.End
		}
	}
	if started {
		endpoints = append(endpoints, curStart, curEnd)
	}
	return Union{endpoints: endpoints}, nil
}

// Merge is a convenience wrapper around NewUnion returning the merged
// intervals as a slice.
func Merge(intervals []Interval) ([]Interval, error) {
	u, err := NewUnion(intervals)
	if err != nil {
		return nil, err
	}
	return u.Intervals(), nil
}

// Coverage returns the total number of positions covered by the union of
// intervals, counting each position exactly once.  It returns 0 for empty
// input.
func Coverage(intervals []Interval) (PosType, error) {
	u, err := NewUnion(intervals)
	if err != nil {
		return 0, err
	}
	return u.Coverage(), nil
}

// NumIntervals returns the number of disjoint intervals in the union.
func (u Union) NumIntervals() int {
	return len(u.endpoints) / 2
}

// Intervals materializes the union as a sorted []Interval.  It returns nil
// for an empty union.
func (u Union) Intervals() []Interval {
	if len(u.endpoints) == 0 {
		return nil
	}
	intervals := make([]Interval, 0, len(u.endpoints)/2)
	for i := 0; i < len(u.endpoints); i += 2 {
		intervals = append(intervals, Interval{u.endpoints[i], u.endpoints[i+1]})
	}
	return intervals
}

// Coverage returns the total number of positions covered by the union.
func (u Union) Coverage() PosType {
	var total PosType
	for i := 0; i < len(u.endpoints); i += 2 {
		total += u.endpoints[i+1] - u.endpoints[i]
	}
	return total
}

// Contains checks whether the (0-based) interval [pos, pos+1) is contained
// within the union.
func (u Union) Contains(pos PosType) bool {
	return SearchPosTypes(u.endpoints, pos+1).Contained()
}

// Overlaps checks whether [start, end) intersects the union.  It panics if
// end <= start.
func (u Union) Overlaps(start, end PosType) bool {
	if end <= start {
		panic("interval: Union.Overlaps requires end > start")
	}
	idx := SearchPosTypes(u.endpoints, start+1)
	if idx.Contained() {
		return true
	}
	return !idx.Finished(u.endpoints) && u.endpoints[idx] < end
}

// OverlapLen returns the number of positions in [start, end) covered by the
// union.  It returns 0 when end <= start.
func (u Union) OverlapLen(start, end PosType) PosType {
	if end <= start {
		return 0
	}
	us := NewUnionScanner(u)
	var s, e PosType
	var total PosType
	for us.Scan(&s, &e, end) {
		if e <= start {
			continue
		}
		if s < start {
			s = start
		}
		total += e - s
	}
	return total
}
