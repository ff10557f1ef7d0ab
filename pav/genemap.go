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

// ReadGeneMap reads the reference gene-to-protein table: a headered
// two-column TSV of gene ID and protein (transcript) accession, one row
// per protein.  The result is suitable for Input.GeneProteins.
func ReadGeneMap(reader io.Reader) (map[string][]string, error) {
	r := tsv.NewReader(reader)
	r.HasHeaderRow = true
	geneProteins := make(map[string][]string)
	row := struct{ Gene, Protein string }{}
	for {
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				return geneProteins, nil
			}
			return nil, err
		}
		geneProteins[row.Gene] = append(geneProteins[row.Gene], row.Protein)
	}
}

// ReadGeneMapFromPath is a wrapper for ReadGeneMap that takes a path
// instead of an io.Reader.  Compressed inputs are transparently
// decompressed based on the path extension.
func ReadGeneMapFromPath(path string) (geneProteins map[string][]string, err error) {
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
	return ReadGeneMap(reader)
}
