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

// Package gffcompare reads gffcompare output files, currently just the
// .tracking table that records how query transfrags correspond to
// reference transcripts.
//
// A .tracking row has four fixed columns (query transfrag ID, locus ID,
// reference gene|transcript or "-", class code) followed by one column per
// input sample of the form
//   qJ:<gene_id>|<transcript_id>|<num_exons>|<FPKM>|<TPM>|<cov>|<len>
// or "-" when the sample does not express the transfrag.
package gffcompare

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

// Class codes assigned by gffcompare to describe how a query transfrag
// relates to the closest reference transcript.  Only the codes the PAV
// caller branches on get names; the full alphabet passes through in
// Match.ClassCode.
const (
	// ClassComplete ('=') is a complete, exact match of the intron chain.
	ClassComplete = '='
	// ClassContained ('c') is a query fully contained in the reference.
	ClassContained = 'c'
	// ClassJunctionMatch ('j') shares at least one splice junction.
	ClassJunctionMatch = 'j'
	// ClassUnknown ('u') is an unknown, intergenic transfrag with no
	// reference counterpart.
	ClassUnknown = 'u'
)

// Match is one .tracking row: the correspondence between one query
// transfrag and (at most) one reference transcript.
type Match struct {
	// QueryID is the TCONS-style transfrag ID.
	QueryID string
	// Locus is the XLOC-style locus ID.
	Locus string
	// RefGene and RefTranscript are parsed from column 3; both are empty for
	// class codes with no reference counterpart (column 3 == "-").
	RefGene       string
	RefTranscript string
	// ClassCode is the gffcompare class code (column 4).
	ClassCode byte
	// QueryGene and QueryTranscript come from the first expressed sample
	// column.
	QueryGene       string
	QueryTranscript string
}

// RowError describes a single unusable input row.
type RowError struct {
	Line int // 1-based line number
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ReadTracking scans .tracking rows from reader.  Broken rows are
// collected in rowErrs and skipped; the returned error is non-nil only for
// read failures.
func ReadTracking(reader io.Reader) (matches []Match, rowErrs []RowError, err error) {
	scanner := bufio.NewScanner(reader)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if len(curLine) == 0 {
			continue
		}
		cols := bytes.Split(curLine, []byte{'\t'})
		if len(cols) < 5 {
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  fmt.Errorf("gffcompare.ReadTracking: %d column(s), need at least 5", len(cols)),
			})
			continue
		}
		if len(cols[3]) != 1 {
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  fmt.Errorf("gffcompare.ReadTracking: bad class code %q", cols[3]),
			})
			continue
		}
		m := Match{
			QueryID:   string(cols[0]),
			Locus:     string(cols[1]),
			ClassCode: cols[3][0],
		}
		if ref := string(cols[2]); ref != "-" {
			sep := strings.IndexByte(ref, '|')
			if sep < 0 {
				rowErrs = append(rowErrs, RowError{
					Line: lineIdx,
					Err:  fmt.Errorf("gffcompare.ReadTracking: expected gene|transcript in column 3, found %q", ref),
				})
				continue
			}
			m.RefGene = ref[:sep]
			m.RefTranscript = ref[sep+1:]
		}
		badSample := false
		for _, sample := range cols[4:] {
			if len(sample) == 1 && sample[0] == '-' {
				continue
			}
			// Strip the leading "qJ:" sample tag if present.
			q := string(sample)
			if colon := strings.IndexByte(q, ':'); colon >= 0 {
				q = q[colon+1:]
			}
			fields := strings.Split(q, "|")
			if len(fields) < 2 {
				rowErrs = append(rowErrs, RowError{
					Line: lineIdx,
					Err:  fmt.Errorf("gffcompare.ReadTracking: expected gene|transcript|... in sample column, found %q", sample),
				})
				badSample = true
				break
			}
			m.QueryGene = fields[0]
			m.QueryTranscript = fields[1]
			break
		}
		if badSample {
			continue
		}
		matches = append(matches, m)
	}
	err = scanner.Err()
	return
}

// ReadTrackingFromPath is a wrapper for ReadTracking that takes a path
// instead of an io.Reader.  Compressed inputs are transparently
// decompressed based on the path extension.
func ReadTrackingFromPath(path string) (matches []Match, rowErrs []RowError, err error) {
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
	if matches, rowErrs, err = ReadTracking(reader); err != nil {
		return
	}
	log.Printf("%s: %d correspondence row(s), %d skipped\n", path, len(matches), len(rowErrs))
	return
}

// ByRefGene indexes matches by reference gene ID, dropping matches with no
// reference counterpart.
func ByRefGene(matches []Match) map[string][]Match {
	byGene := make(map[string][]Match)
	for _, m := range matches {
		if m.RefGene == "" {
			continue
		}
		byGene[m.RefGene] = append(byGene[m.RefGene], m)
	}
	return byGene
}
