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

// Package interproscan reads InterProScan protein-domain annotation TSVs.
//
// The format is headerless and tab-separated.  Columns 1-11 are always
// present (protein accession, sequence MD5, sequence length, analysis,
// signature accession, signature description, start, stop, score, status,
// date); columns 12+ (InterPro accession/description, GO terms, pathways)
// appear only when the corresponding lookups were enabled, so rows within
// one file may have differing column counts.  Domain start/stop are
// 1-based inclusive; Records normalizes them to the 0-based half-open
// convention used everywhere else in this repository.
package interproscan

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio-pav/coverage"
	"github.com/grailbio/bio-pav/interval"
	"github.com/pkg/errors"
)

// Domain is one InterProScan annotation row: one signature match on one
// protein.
type Domain struct {
	// Protein is the query protein accession (column 1).
	Protein string
	// SeqLen is the query sequence length in residues (column 3).
	SeqLen int
	// Analysis is the member database, e.g. "Pfam" or "PANTHER" (column 4).
	Analysis string
	// Signature is the matched signature accession, e.g. "PF00069"
	// (column 5).
	Signature string
	// Description is the signature description (column 6); may be "-".
	Description string
	// Start and Stop are the match coordinates on the protein, 1-based
	// inclusive as InterProScan reports them (columns 7 and 8).
	Start int
	Stop  int
	// InterPro is the integrated InterPro entry accession (column 12), empty
	// when lookup was disabled or no entry exists.
	InterPro string
}

// RowError describes a single unusable input row.
type RowError struct {
	Line int // 1-based line number
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// minColumns is the number of leading columns every InterProScan row must
// have; we only need through column 8 (stop), but status/score/date are
// unconditionally emitted too.
const minColumns = 11

// ReadDomains scans InterProScan TSV rows from reader.  Structurally
// broken rows (too few columns, non-numeric fields, start < 1) are
// collected in rowErrs and skipped; they never abort the batch.  Rows with
// stop < start are kept: the coverage engine applies the uniform
// malformed-interval policy after normalization.
func ReadDomains(reader io.Reader) (domains []Domain, rowErrs []RowError, err error) {
	scanner := bufio.NewScanner(reader)
	// GO-term and pathway columns can make rows long; the default 64KiB
	// Scanner cap is not always enough.
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if len(curLine) == 0 {
			continue
		}
		cols := bytes.Split(curLine, []byte{'\t'})
		if len(cols) < minColumns {
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  errors.Errorf("interproscan.ReadDomains: %d column(s), need at least %d", len(cols), minColumns),
			})
			continue
		}
		seqLen, e := strconv.Atoi(string(cols[2]))
		if e != nil {
			rowErrs = append(rowErrs, RowError{Line: lineIdx, Err: errors.Wrap(e, "sequence length")})
			continue
		}
		start, e := strconv.Atoi(string(cols[6]))
		if e != nil {
			rowErrs = append(rowErrs, RowError{Line: lineIdx, Err: errors.Wrap(e, "domain start")})
			continue
		}
		stop, e := strconv.Atoi(string(cols[7]))
		if e != nil {
			rowErrs = append(rowErrs, RowError{Line: lineIdx, Err: errors.Wrap(e, "domain stop")})
			continue
		}
		if start < 1 || start >= interval.PosTypeMax || stop >= interval.PosTypeMax {
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  errors.Errorf("interproscan.ReadDomains: coordinate pair (%d, %d) out of range", start, stop),
			})
			continue
		}
		d := Domain{
			Protein:     string(cols[0]),
			SeqLen:      seqLen,
			Analysis:    string(cols[3]),
			Signature:   string(cols[4]),
			Description: string(cols[5]),
			Start:       start,
			Stop:        stop,
		}
		if len(cols) > 11 {
			if ip := string(cols[11]); ip != "-" {
				d.InterPro = ip
			}
		}
		domains = append(domains, d)
	}
	err = scanner.Err()
	return
}

// ReadDomainsFromPath is a wrapper for ReadDomains that takes a path
// instead of an io.Reader.  Compressed inputs are transparently
// decompressed based on the path extension.
func ReadDomainsFromPath(path string) (domains []Domain, rowErrs []RowError, err error) {
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
	return ReadDomains(reader)
}

// Records converts domains to coverage.Records keyed by protein accession,
// normalizing the 1-based inclusive coordinates to 0-based half-open:
// (start, stop) -> [start-1, stop).
func Records(domains []Domain) []coverage.Record {
	records := make([]coverage.Record, 0, len(domains))
	for _, d := range domains {
		records = append(records, coverage.Record{
			Group: d.Protein,
			Start: interval.PosType(d.Start - 1),
			End:   interval.PosType(d.Stop),
		})
	}
	return records
}

// DomainCoverage computes, per protein, the number of residues covered by
// at least one domain annotation, counting overlapping signatures once.
func DomainCoverage(domains []Domain) coverage.Result {
	return coverage.ByGroup(Records(domains))
}
