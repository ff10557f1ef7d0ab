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
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
)

// Similarity is one pairwise protein alignment row in the 12-column
// tabular format emitted by diamond blastp / BLAST+ with the default
// outfmt 6: qseqid sseqid pident length mismatch gapopen qstart qend
// sstart send evalue bitscore.  Query is the reference protein, Target the
// query-genome protein, per this pipeline's alignment direction.
type Similarity struct {
	Query    string
	Target   string
	Identity float64 // percent identity, 0-100
	AlignLen int
	Mismatch int
	GapOpen  int
	QStart   int
	QEnd     int
	SStart   int
	SEnd     int
	EValue   float64
	BitScore float64
}

// ReadSimilarities reads alignment rows from reader.  The input is
// machine-generated, so unlike the annotation readers this one is strict:
// the first broken row fails the whole call.
func ReadSimilarities(reader io.Reader) (sims []Similarity, err error) {
	r := tsv.NewReader(reader)
	var row Similarity
	for {
		if err = r.Read(&row); err != nil {
			if err == io.EOF {
				err = nil
			}
			return
		}
		sims = append(sims, row)
	}
}

// ReadSimilaritiesFromPath is a wrapper for ReadSimilarities that takes a
// path instead of an io.Reader.  Compressed inputs are transparently
// decompressed based on the path extension.
func ReadSimilaritiesFromPath(path string) (sims []Similarity, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	if u := compress.NewReaderPath(reader, infile.Name()); u != nil {
		reader = u
	}
	return ReadSimilarities(reader)
}

// BestByQuery keeps, for each query (reference) protein, the alignment
// with the highest bit score; ties break toward higher identity, then
// lexicographically smaller target so the choice is deterministic.
func BestByQuery(sims []Similarity) map[string]Similarity {
	best := make(map[string]Similarity)
	for _, s := range sims {
		prev, ok := best[s.Query]
		if !ok || s.BitScore > prev.BitScore ||
			(s.BitScore == prev.BitScore && s.Identity > prev.Identity) ||
			(s.BitScore == prev.BitScore && s.Identity == prev.Identity && s.Target < prev.Target) {
			best[s.Query] = s
		}
	}
	return best
}
