package bed

import (
	"strings"
	"testing"

	"github.com/grailbio/bio-pav/coverage"
	"github.com/grailbio/bio-pav/interval"
	"github.com/grailbio/testutil/expect"
)

func TestReadRecords(t *testing.T) {
	in := `chr1	100	200
chr1	150	250	name	960	+
chr2	0	50

chr1	300	300
`
	records, rowErrs, err := ReadRecords(strings.NewReader(in), Opts{})
	expect.NoError(t, err)
	expect.EQ(t, len(rowErrs), 0)
	expect.EQ(t, records, []coverage.Record{
		{Group: "chr1", Start: 100, End: 200},
		{Group: "chr1", Start: 150, End: 250},
		{Group: "chr2", Start: 0, End: 50},
		{Group: "chr1", Start: 300, End: 300},
	})

	result := coverage.ByGroup(records)
	expect.EQ(t, result.Coverage, map[string]interval.PosType{
		"chr1": 150,
		"chr2": 50,
	})
}

func TestReadRecordsOneBased(t *testing.T) {
	in := "chr1\t1\t10\n"
	records, rowErrs, err := ReadRecords(strings.NewReader(in), Opts{OneBased: true})
	expect.NoError(t, err)
	expect.EQ(t, len(rowErrs), 0)
	expect.EQ(t, records, []coverage.Record{{Group: "chr1", Start: 0, End: 10}})
}

func TestReadRecordsRowErrors(t *testing.T) {
	in := `chr1	100	200
chr1	100
chr1	abc	200
chr1	-5	200
chr2	10	5
chr3	2147483648	100
chr3	100	3000000000
`
	records, rowErrs, err := ReadRecords(strings.NewReader(in), Opts{})
	expect.NoError(t, err)
	// Bad rows are reported and skipped; the start > end row passes through
	// for the engine's malformed-interval policy.  The start past PosTypeMax
	// must be a row error, not an int32 wraparound into a "valid" interval.
	expect.EQ(t, records, []coverage.Record{
		{Group: "chr1", Start: 100, End: 200},
		{Group: "chr2", Start: 10, End: 5},
	})
	expect.EQ(t, len(rowErrs), 5)
	expect.EQ(t, rowErrs[0].Line, 2)
	expect.HasSubstr(t, rowErrs[0].Error(), "fewer tokens")
	expect.EQ(t, rowErrs[1].Line, 3)
	expect.EQ(t, rowErrs[2].Line, 4)
	expect.HasSubstr(t, rowErrs[2].Error(), "negative start")
	expect.EQ(t, rowErrs[3].Line, 6)
	expect.HasSubstr(t, rowErrs[3].Error(), "out of range")
	expect.EQ(t, rowErrs[4].Line, 7)
	expect.HasSubstr(t, rowErrs[4].Error(), "out of range")

	result := coverage.ByGroup(records)
	expect.EQ(t, result.Coverage, map[string]interval.PosType{"chr1": 100})
	expect.EQ(t, len(result.Skipped), 1)
	expect.EQ(t, result.Skipped[0].Group, "chr2")
}

func TestReadEntries(t *testing.T) {
	in := `chr1	1000	2000	GeneA	0	+
chr2	500	800	GeneB
chr2	bad	800	GeneC
chr2	2147483648	800	GeneD
`
	entries, rowErrs, err := ReadEntries(strings.NewReader(in), Opts{})
	expect.NoError(t, err)
	expect.EQ(t, entries, []Entry{
		{"chr1", 1000, 2000, "GeneA"},
		{"chr2", 500, 800, "GeneB"},
	})
	expect.EQ(t, len(rowErrs), 2)
	expect.EQ(t, rowErrs[0].Line, 3)
	expect.EQ(t, rowErrs[1].Line, 4)
	expect.HasSubstr(t, rowErrs[1].Error(), "out of range")
}

func TestReadRecordsEmpty(t *testing.T) {
	records, rowErrs, err := ReadRecords(strings.NewReader(""), Opts{})
	expect.NoError(t, err)
	expect.EQ(t, len(records), 0)
	expect.EQ(t, len(rowErrs), 0)
}
