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

/*
bio-coverage reports, per group key (first BED column), the number of
positions covered by the union of a BED-like file's intervals, counting
overlapping and touching intervals once.  With -domains it instead reads
an InterProScan TSV and reports per-protein domain coverage.

Sample usage:
bio-coverage --out coverage.tsv my-regions.bed
bio-coverage --domains --out domcov.tsv my-proteins.iprscan.tsv
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio-pav/coverage"
	"github.com/grailbio/bio-pav/encoding/bed"
	"github.com/grailbio/bio-pav/encoding/interproscan"
)

var (
	domains     = flag.Bool("domains", false, "Input is an InterProScan TSV instead of a BED")
	oneBased    = flag.Bool("one-based", false, "Interpret BED intervals as one-based [start, end]")
	outPath     = flag.String("out", "", "Output TSV path; default is stdout")
	parallelism = flag.Int("parallelism", 0, "Maximum number of simultaneous coverage jobs; 0 = runtime.NumCPU()")
	total       = flag.Bool("total", false, "Report a single ungrouped total instead of per-group coverage")
)

func bioCoverageUsage() {
	fmt.Printf("Usage: %s [OPTIONS] inputpath\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func readRecords(path string) []coverage.Record {
	if *domains {
		ds, rowErrs, err := interproscan.ReadDomainsFromPath(path)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		for _, re := range rowErrs {
			log.Error.Printf("%s: %v", path, re)
		}
		return interproscan.Records(ds)
	}
	records, rowErrs, err := bed.ReadRecordsFromPath(path, bed.Opts{OneBased: *oneBased})
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	for _, re := range rowErrs {
		log.Error.Printf("%s: %v", path, re)
	}
	return records
}

func main() {
	flag.Usage = bioCoverageUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument (inputpath) expected; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	records := readRecords(flag.Arg(0))

	ctx := vcontext.Background()
	out := os.Stdout
	if *outPath != "" {
		dst, err := file.Create(ctx, *outPath)
		if err != nil {
			log.Fatalf("%s: %v", *outPath, err)
		}
		defer func() {
			if err := dst.Close(ctx); err != nil {
				log.Error.Printf("%s: %v", *outPath, err)
			}
		}()
		writeResult(dst.Writer(ctx), records)
		return
	}
	writeResult(out, records)
}

func writeResult(w io.Writer, records []coverage.Record) {
	tsvw := tsv.NewWriter(w)
	if *total {
		tot, err := coverage.Total(records)
		if err != nil {
			log.Fatalf("%v", err)
		}
		tsvw.WriteString("total")
		tsvw.WriteInt64(int64(tot))
		if err := tsvw.EndLine(); err != nil {
			log.Fatalf("%v", err)
		}
		if err := tsvw.Flush(); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	result := coverage.ByGroupParallel(records, *parallelism)
	for _, skipped := range result.Skipped {
		log.Error.Printf("skipped group %s: %v", skipped.Group, skipped.Err)
	}
	groups := make([]string, 0, len(result.Coverage))
	for group := range result.Coverage {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	for _, group := range groups {
		tsvw.WriteString(group)
		tsvw.WriteInt64(int64(result.Coverage[group]))
		if err := tsvw.EndLine(); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if err := tsvw.Flush(); err != nil {
		log.Fatalf("%v", err)
	}
}
