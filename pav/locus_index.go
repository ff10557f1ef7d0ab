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
package pav

import (
	biogointerval "github.com/biogo/store/interval"
	"github.com/grailbio/bio-pav/interval"
)

// Span is a half-open genomic interval on a named chromosome.  It is used
// for both assembled query loci and reference gene bodies.
type Span struct {
	Chrom string
	Start interval.PosType
	End   interval.PosType
}

// locusInterval adapts Span to biogo's interval-tree element interface.
type locusInterval struct {
	start, end int
	id         uintptr
}

func (i locusInterval) Overlap(b biogointerval.IntRange) bool {
	// Half-open interval indexing.
	return i.end > b.Start && i.start < b.End
}

func (i locusInterval) ID() uintptr { return i.id }

func (i locusInterval) Range() biogointerval.IntRange {
	return biogointerval.IntRange{Start: i.start, End: i.end}
}

// locusIndex answers "which fraction of this gene body do assembled query
// loci cover?" queries.  One interval tree per chromosome.
type locusIndex struct {
	trees map[string]*biogointerval.IntTree
}

// newLocusIndex builds a locusIndex from the query loci.  Empty and
// malformed spans are ignored; the index is a fallback evidence source, so
// dropping them is safe.
func newLocusIndex(loci []Span) *locusIndex {
	idx := &locusIndex{trees: make(map[string]*biogointerval.IntTree)}
	var nextID uintptr
	for _, locus := range loci {
		if locus.End <= locus.Start {
			continue
		}
		tree := idx.trees[locus.Chrom]
		if tree == nil {
			tree = &biogointerval.IntTree{}
			idx.trees[locus.Chrom] = tree
		}
		_ = tree.Insert(locusInterval{
			start: int(locus.Start),
			end:   int(locus.End),
			id:    nextID,
		}, true)
		nextID++
	}
	for _, tree := range idx.trees {
		tree.AdjustRanges()
	}
	return idx
}

// overlapFraction returns the fraction of [gene.Start, gene.End) covered
// by the union of overlapping query loci, in [0, 1].  Overlapping loci are
// counted once, via the interval-union engine.
func (idx *locusIndex) overlapFraction(gene Span) float64 {
	if gene.End <= gene.Start {
		return 0
	}
	tree := idx.trees[gene.Chrom]
	if tree == nil {
		return 0
	}
	hits := tree.Get(locusInterval{start: int(gene.Start), end: int(gene.End)})
	if len(hits) == 0 {
		return 0
	}
	intervals := make([]interval.Interval, 0, len(hits))
	for _, hit := range hits {
		r := hit.Range()
		intervals = append(intervals, interval.Interval{
			Start: interval.PosType(r.Start),
			End:   interval.PosType(r.End),
		})
	}
	// Cannot fail: tree ranges always have Start < End.
	u, _ := interval.NewUnion(intervals)
	covered := u.OverlapLen(gene.Start, gene.End)
	return float64(covered) / float64(gene.End-gene.Start)
}
