// Package bed reads BED-like interval tables: whitespace-separated rows
// whose first three columns are a grouping key (usually a chromosome or
// gene ID) and a 0-based half-open coordinate pair.  Rows are converted to
// coverage.Records; columns past the third are ignored.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio-pav/coverage"
	"github.com/grailbio/bio-pav/interval"
	"github.com/klauspost/compress/gzip"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' '
// is treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		// These simple loops are better than the standard library
		// string-split functions when <20 tokens are expected.
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// Opts defines behavior of this package's BED-loading function(s).
type Opts struct {
	// OneBased interprets the interval boundaries as one-based [start, end]
	// instead of the usual zero-based [start, end).
	OneBased bool
}

// RowError describes a single unusable input row.  Rows with these defects
// are reported and skipped; they never abort the batch.
type RowError struct {
	Line int // 1-based line number
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ReadRecords scans BED rows from reader into coverage.Records.
//
// Structural row defects (fewer than three columns, non-numeric or
// out-of-range coordinates) are collected in the returned []RowError.
// Coordinate pairs with start > end are NOT row errors: they pass through
// so the coverage engine can apply its uniform malformed-interval policy.
// Input need not be sorted.  The returned error is non-nil only for read
// failures.
func ReadRecords(reader io.Reader, opts Opts) (records []coverage.Record, rowErrs []RowError, err error) {
	// Note that Scanner does not handle very long lines unless we specify an
	// adequate buffer size in advance; it does not auto-resize.
	// Shouldn't matter for BED files, though.
	scanner := bufio.NewScanner(reader)

	var startSubtract int
	if opts.OneBased {
		startSubtract++
	}

	var tokens [3][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		// scanner.Text() allocates and Bytes() does not, so stick with Bytes()
		// and narrowly-scoped gunsafe.BytesToString conversions.
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken != 3 {
			if nToken == 0 {
				continue
			}
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  fmt.Errorf("bed.ReadRecords: fewer tokens than expected"),
			})
			continue
		}

		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			rowErrs = append(rowErrs, RowError{Line: lineIdx, Err: err})
			err = nil
			continue
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  fmt.Errorf("bed.ReadRecords: negative start coordinate %s", tokens[1]),
			})
			continue
		}

		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			rowErrs = append(rowErrs, RowError{Line: lineIdx, Err: err})
			err = nil
			continue
		}
		// Both bounds must fit in a PosType; a plain conversion would wrap.
		if parsedStart >= interval.PosTypeMax || parsedEnd >= interval.PosTypeMax {
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  fmt.Errorf("bed.ReadRecords: coordinate pair (%s, %s) out of range", tokens[1], tokens[2]),
			})
			continue
		}

		records = append(records, coverage.Record{
			// Must be a copy: tokens[0] refers to bytes on curLine that will
			// be overwritten by the next Scan.
			Group: string(tokens[0]),
			Start: interval.PosType(parsedStart),
			End:   interval.PosType(parsedEnd),
		})
	}
	err = scanner.Err()
	return
}

// Entry represents a single BED4 row: a named 0-based half-open interval.
type Entry struct {
	Chrom string
	Start interval.PosType
	End   interval.PosType
	Name  string
}

// ReadEntries scans BED4 rows (chrom, start, end, name) from reader.  Row
// defects are handled the same way as in ReadRecords.
func ReadEntries(reader io.Reader, opts Opts) (entries []Entry, rowErrs []RowError, err error) {
	scanner := bufio.NewScanner(reader)

	var startSubtract int
	if opts.OneBased {
		startSubtract++
	}

	var tokens [4][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken != 4 {
			if nToken == 0 {
				continue
			}
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  fmt.Errorf("bed.ReadEntries: fewer tokens than expected"),
			})
			continue
		}

		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			rowErrs = append(rowErrs, RowError{Line: lineIdx, Err: err})
			err = nil
			continue
		}
		parsedStart -= startSubtract
		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			rowErrs = append(rowErrs, RowError{Line: lineIdx, Err: err})
			err = nil
			continue
		}
		if parsedStart < 0 || parsedStart >= interval.PosTypeMax || parsedEnd >= interval.PosTypeMax {
			rowErrs = append(rowErrs, RowError{
				Line: lineIdx,
				Err:  fmt.Errorf("bed.ReadEntries: coordinate pair (%s, %s) out of range", tokens[1], tokens[2]),
			})
			continue
		}

		entries = append(entries, Entry{
			Chrom: string(tokens[0]),
			Start: interval.PosType(parsedStart),
			End:   interval.PosType(parsedEnd),
			Name:  string(tokens[3]),
		})
	}
	err = scanner.Err()
	return
}

// ReadEntriesFromPath is a wrapper for ReadEntries that takes a path
// instead of an io.Reader.  Gzipped inputs are transparently decompressed.
func ReadEntriesFromPath(path string, opts Opts) (entries []Entry, rowErrs []RowError, err error) {
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
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return ReadEntries(reader, opts)
}

// ReadRecordsFromPath is a wrapper for ReadRecords that takes a path
// instead of an io.Reader.  Gzipped inputs are transparently decompressed.
func ReadRecordsFromPath(path string, opts Opts) (records []coverage.Record, rowErrs []RowError, err error) {
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
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return ReadRecords(reader, opts)
}
