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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const similarityInput = `GeneA.p1	qA.p1	98.20	450	8	0	1	450	1	450	1.2e-250	880.0
GeneA.p1	qZ.p9	60.00	300	120	3	1	300	5	304	4.0e-80	310.5
GeneB.p1	qB.p1	91.00	200	18	0	1	200	1	200	3.3e-120	420.0
`

func TestReadSimilarities(t *testing.T) {
	sims, err := ReadSimilarities(strings.NewReader(similarityInput))
	require.NoError(t, err)
	require.Len(t, sims, 3)
	assert.Equal(t, Similarity{
		Query:    "GeneA.p1",
		Target:   "qA.p1",
		Identity: 98.20,
		AlignLen: 450,
		Mismatch: 8,
		GapOpen:  0,
		QStart:   1,
		QEnd:     450,
		SStart:   1,
		SEnd:     450,
		EValue:   1.2e-250,
		BitScore: 880.0,
	}, sims[0])
}

func TestReadSimilaritiesStrict(t *testing.T) {
	_, err := ReadSimilarities(strings.NewReader("GeneA.p1\tqA.p1\tnot-a-number\t1\t1\t1\t1\t1\t1\t1\t1\t1\n"))
	assert.Error(t, err)
}

func TestBestByQuery(t *testing.T) {
	sims, err := ReadSimilarities(strings.NewReader(similarityInput))
	require.NoError(t, err)
	best := BestByQuery(sims)
	require.Len(t, best, 2)
	assert.Equal(t, "qA.p1", best["GeneA.p1"].Target)
	assert.Equal(t, "qB.p1", best["GeneB.p1"].Target)

	// Bit-score ties break toward higher identity, then smaller target.
	best = BestByQuery([]Similarity{
		{Query: "g", Target: "t2", Identity: 80, BitScore: 100},
		{Query: "g", Target: "t1", Identity: 80, BitScore: 100},
		{Query: "g", Target: "t3", Identity: 90, BitScore: 100},
	})
	assert.Equal(t, "t3", best["g"].Target)
}

func TestReadGeneMap(t *testing.T) {
	in := `gene	protein
GeneA	GeneA.p1
GeneA	GeneA.p2
GeneB	GeneB.p1
`
	geneProteins, err := ReadGeneMap(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"GeneA": {"GeneA.p1", "GeneA.p2"},
		"GeneB": {"GeneB.p1"},
	}, geneProteins)
}

func TestLocusIndex(t *testing.T) {
	idx := newLocusIndex([]Span{
		{Chrom: "chr1", Start: 0, End: 100},
		{Chrom: "chr1", Start: 50, End: 150},
		{Chrom: "chr2", Start: 0, End: 1000},
		{Chrom: "chr1", Start: 400, End: 400}, // empty, ignored
	})
	assert.InDelta(t, 1.0, idx.overlapFraction(Span{Chrom: "chr1", Start: 0, End: 150}), 1e-9)
	assert.InDelta(t, 0.75, idx.overlapFraction(Span{Chrom: "chr1", Start: 0, End: 200}), 1e-9)
	assert.InDelta(t, 0.0, idx.overlapFraction(Span{Chrom: "chr1", Start: 200, End: 300}), 1e-9)
	assert.InDelta(t, 0.0, idx.overlapFraction(Span{Chrom: "chr3", Start: 0, End: 100}), 1e-9)
	// Same coordinates on another chromosome stay independent.
	assert.InDelta(t, 1.0, idx.overlapFraction(Span{Chrom: "chr2", Start: 100, End: 200}), 1e-9)
}
