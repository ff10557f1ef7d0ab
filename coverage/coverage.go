// Copyright 2021 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package coverage computes per-group covered-position totals from
// (group, start, end) records.  Groups are independent: records are
// partitioned by group key and each partition is merged in isolation, so
// overlapping coordinates in one group never affect another.  A malformed
// record skips its own group, with the reason reported in the result, and
// leaves sibling groups intact.
package coverage

import (
	"runtime"
	"sort"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/bio-pav/interval"
)

// Record associates one half-open coordinate interval [Start, End) with a
// grouping key (a gene ID, a protein accession, or whatever the caller
// partitions by).
type Record struct {
	Group string
	Start interval.PosType
	End   interval.PosType
}

// SkippedGroup names a group whose records could not be merged, and why.
type SkippedGroup struct {
	Group string
	Err   error
}

// Result is the outcome of one batch.  Coverage holds an entry for every
// group that merged cleanly; groups with no records are absent, not
// zero-valued.  Skipped lists the groups that were dropped, ordered by
// group key.
type Result struct {
	Coverage map[string]interval.PosType
	Skipped  []SkippedGroup
}

// groupIntervals partitions records by group key.  A group containing a
// malformed record is routed to skipped instead; the error identifies the
// first offending record in input order.
func groupIntervals(records []Record) (groups map[string][]interval.Interval, skipped map[string]error) {
	groups = make(map[string][]interval.Interval)
	skipped = make(map[string]error)
	for _, r := range records {
		if _, bad := skipped[r.Group]; bad {
			continue
		}
		if r.Start > r.End {
			skipped[r.Group] = &interval.MalformedIntervalError{
				Group: r.Group,
				Start: r.Start,
				End:   r.End,
			}
			delete(groups, r.Group)
			continue
		}
		groups[r.Group] = append(groups[r.Group], interval.Interval{Start: r.Start, End: r.End})
	}
	return
}

func assembleResult(groups map[string][]interval.Interval, covs map[string]interval.PosType, skipped map[string]error) Result {
	result := Result{Coverage: covs}
	for group, err := range skipped {
		result.Skipped = append(result.Skipped, SkippedGroup{Group: group, Err: err})
	}
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Group < result.Skipped[j].Group
	})
	return result
}

// ByGroup partitions records by group key and computes the covered-position
// total of each partition independently.  The result for a given group is
// identical regardless of record order, and identical to calling
// interval.Coverage on that group's intervals in isolation.
func ByGroup(records []Record) Result {
	groups, skipped := groupIntervals(records)
	covs := make(map[string]interval.PosType, len(groups))
	for group, intervals := range groups {
		// groupIntervals already rejected Start > End, so this cannot fail.
		cov, _ := interval.Coverage(intervals)
		covs[group] = cov
	}
	return assembleResult(groups, covs, skipped)
}

// ByGroupParallel is ByGroup with the per-group merges fanned out across
// parallelism goroutines (0 = runtime.NumCPU()).  Each job owns a disjoint
// slice of groups, so there is no shared mutable state; the result is
// identical to ByGroup's.
func ByGroupParallel(records []Record, parallelism int) Result {
	groups, skipped := groupIntervals(records)
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(groups) {
		parallelism = len(groups)
	}
	if parallelism <= 1 {
		covs := make(map[string]interval.PosType, len(groups))
		for group, intervals := range groups {
			cov, _ := interval.Coverage(intervals)
			covs[group] = cov
		}
		return assembleResult(groups, covs, skipped)
	}
	keys := make([]string, 0, len(groups))
	for group := range groups {
		keys = append(keys, group)
	}
	sort.Strings(keys)
	covSlice := make([]interval.PosType, len(keys))
	// The error return is always nil; malformed records were already routed
	// to skipped.
	_ = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(keys)) / parallelism
		endIdx := ((jobIdx + 1) * len(keys)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			cov, _ := interval.Coverage(groups[keys[i]])
			covSlice[i] = cov
		}
		return nil
	})
	covs := make(map[string]interval.PosType, len(keys))
	for i, group := range keys {
		covs[group] = covSlice[i]
	}
	return assembleResult(groups, covs, skipped)
}

// Total computes the ungrouped covered-position total across all records.
// Unlike ByGroup, a malformed record fails the whole call, since there is
// no sibling group to salvage.
func Total(records []Record) (interval.PosType, error) {
	intervals := make([]interval.Interval, 0, len(records))
	for _, r := range records {
		if r.Start > r.End {
			return 0, &interval.MalformedIntervalError{Group: r.Group, Start: r.Start, End: r.End}
		}
		intervals = append(intervals, interval.Interval{Start: r.Start, End: r.End})
	}
	return interval.Coverage(intervals)
}
