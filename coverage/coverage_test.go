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
package coverage

import (
	"math/rand"
	"testing"

	"github.com/grailbio/bio-pav/interval"
	"github.com/grailbio/testutil/expect"
)

func TestByGroup(t *testing.T) {
	records := []Record{
		{"geneA", 1, 10},
		{"geneA", 5, 20},
		{"geneB", 1, 10}, // same coordinates as geneA: must stay independent
		{"geneB", 100, 150},
		{"geneC", 7, 7}, // empty interval only: still present, zero coverage
	}
	result := ByGroup(records)
	expect.EQ(t, result.Coverage, map[string]interval.PosType{
		"geneA": 19,
		"geneB": 59,
		"geneC": 0,
	})
	expect.EQ(t, len(result.Skipped), 0)
}

func TestByGroupIsolation(t *testing.T) {
	// Overlap inside geneA must never merge into or reduce geneB's total.
	a := ByGroup([]Record{{"geneB", 0, 50}})
	both := ByGroup([]Record{
		{"geneA", 0, 50},
		{"geneA", 10, 40},
		{"geneB", 0, 50},
	})
	expect.EQ(t, both.Coverage["geneB"], a.Coverage["geneB"])
	expect.EQ(t, both.Coverage["geneA"], interval.PosType(50))
}

func TestByGroupOrderIndependence(t *testing.T) {
	records := []Record{
		{"g1", 1, 20}, {"g2", 10, 30}, {"g1", 10, 30}, {"g2", 100, 101},
		{"g1", 25, 40}, {"g3", 0, 1}, {"g2", 30, 35},
	}
	want := ByGroup(records)
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 10; iter++ {
		shuffled := append([]Record(nil), records...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		expect.EQ(t, ByGroup(shuffled).Coverage, want.Coverage)
	}
}

func TestByGroupMalformed(t *testing.T) {
	records := []Record{
		{"good", 1, 10},
		{"bad", 10, 5},
		{"bad", 20, 30}, // well-formed record can't resurrect a skipped group
		{"alsoGood", 3, 4},
	}
	result := ByGroup(records)
	expect.EQ(t, result.Coverage, map[string]interval.PosType{
		"good":     9,
		"alsoGood": 1,
	})
	expect.EQ(t, len(result.Skipped), 1)
	expect.EQ(t, result.Skipped[0].Group, "bad")
	expect.HasSubstr(t, result.Skipped[0].Err.Error(), "[10, 5)")
	expect.HasSubstr(t, result.Skipped[0].Err.Error(), "bad")
}

func TestByGroupMalformedBeforeRecords(t *testing.T) {
	// Malformed record first, then well-formed ones: group still skipped.
	result := ByGroup([]Record{
		{"bad", 9, 2},
		{"bad", 0, 100},
		{"good", 0, 100},
	})
	expect.EQ(t, result.Coverage, map[string]interval.PosType{"good": 100})
	expect.EQ(t, len(result.Skipped), 1)
	expect.EQ(t, result.Skipped[0].Group, "bad")
}

func TestByGroupEmpty(t *testing.T) {
	result := ByGroup(nil)
	expect.EQ(t, len(result.Coverage), 0)
	expect.EQ(t, len(result.Skipped), 0)
}

func TestByGroupParallel(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	var records []Record
	groupNames := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i := 0; i < 500; i++ {
		start := interval.PosType(rng.Intn(10000))
		records = append(records, Record{
			Group: groupNames[rng.Intn(len(groupNames))],
			Start: start,
			End:   start + interval.PosType(rng.Intn(300)),
		})
	}
	records = append(records, Record{"h", 50, 10})
	want := ByGroup(records)
	for _, parallelism := range []int{0, 1, 2, 7, 64} {
		got := ByGroupParallel(records, parallelism)
		expect.EQ(t, got.Coverage, want.Coverage, "parallelism=%d", parallelism)
		expect.EQ(t, len(got.Skipped), len(want.Skipped), "parallelism=%d", parallelism)
	}
}

func TestTotal(t *testing.T) {
	total, err := Total([]Record{
		{"chr1", 1, 10},
		{"chr1", 5, 20},
		{"chr2", 1, 10},
	})
	expect.NoError(t, err)
	// Ungrouped: chr2's records merge with chr1's coordinate-identical span.
	expect.EQ(t, total, interval.PosType(19))

	total, err = Total(nil)
	expect.NoError(t, err)
	expect.EQ(t, total, interval.PosType(0))

	_, err = Total([]Record{{"chr1", 10, 5}})
	expect.NotNil(t, err)
}
