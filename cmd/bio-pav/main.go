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
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio-pav/encoding/bed"
	"github.com/grailbio/bio-pav/encoding/gffcompare"
	"github.com/grailbio/bio-pav/encoding/interproscan"
	"github.com/grailbio/bio-pav/pav"
)

var (
	genemapPath      = flag.String("genemap", "", "Reference gene-to-protein TSV (headered, columns gene and protein); required")
	trackingPath     = flag.String("tracking", "", "gffcompare .tracking path")
	similarityPath   = flag.String("similarity", "", "diamond/BLAST outfmt-6 protein alignment path, reference proteins as queries")
	refDomainsPath   = flag.String("ref-domains", "", "InterProScan TSV for the reference proteome")
	queryDomainsPath = flag.String("query-domains", "", "InterProScan TSV for the query proteome")
	genesPath        = flag.String("genes", "", "Reference gene bodies as BED4 (chrom, start, end, gene); enables the locus-overlap fallback together with -loci")
	lociPath         = flag.String("loci", "", "Assembled query loci as BED3")
	outPath          = flag.String("out", "bio-pav-calls.tsv", "Output TSV path")
	minIdentity      = flag.Float64("min-identity", pav.DefaultOpts.MinIdentity, "Percent identity for a best protein hit to count as similarity evidence")
	minDomainRatio   = flag.Float64("min-domain-ratio", pav.DefaultOpts.MinDomainRatio, "Query/reference domain-coverage ratio required, with similarity, for a present call")
	minPartialRatio  = flag.Float64("min-partial-domain-ratio", pav.DefaultOpts.MinPartialDomainRatio, "Domain-coverage ratio required for a partial call on its own")
	minLocusOverlap  = flag.Float64("min-locus-overlap", pav.DefaultOpts.MinLocusOverlap, "Gene-body fraction query loci must cover for the fallback to fire")
	parallelism      = flag.Int("parallelism", 0, "Maximum number of simultaneous coverage jobs; 0 = runtime.NumCPU()")
)

func bioPAVUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func logRowErrs(path, kind string, n int) {
	if n > 0 {
		log.Error.Printf("%s: skipped %d unusable %s row(s)", path, n, kind)
	}
}

func main() {
	flag.Usage = bioPAVUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 0 {
		log.Fatalf("No positional arguments expected; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	if *genemapPath == "" {
		log.Fatalf("-genemap is required")
	}
	if *trackingPath == "" && *similarityPath == "" && *lociPath == "" {
		log.Fatalf("at least one of -tracking, -similarity, or -loci is required")
	}
	if (*genesPath == "") != (*lociPath == "") {
		log.Fatalf("-genes and -loci must be given together")
	}

	in := pav.Input{}
	var err error
	if in.GeneProteins, err = pav.ReadGeneMapFromPath(*genemapPath); err != nil {
		log.Fatalf("%s: %v", *genemapPath, err)
	}
	if *trackingPath != "" {
		matches, rowErrs, err := gffcompare.ReadTrackingFromPath(*trackingPath)
		if err != nil {
			log.Fatalf("%s: %v", *trackingPath, err)
		}
		logRowErrs(*trackingPath, "tracking", len(rowErrs))
		in.Matches = matches
	}
	if *similarityPath != "" {
		if in.Similarities, err = pav.ReadSimilaritiesFromPath(*similarityPath); err != nil {
			log.Fatalf("%s: %v", *similarityPath, err)
		}
	}
	if *refDomainsPath != "" {
		domains, rowErrs, err := interproscan.ReadDomainsFromPath(*refDomainsPath)
		if err != nil {
			log.Fatalf("%s: %v", *refDomainsPath, err)
		}
		logRowErrs(*refDomainsPath, "domain", len(rowErrs))
		in.RefDomains = domains
	}
	if *queryDomainsPath != "" {
		domains, rowErrs, err := interproscan.ReadDomainsFromPath(*queryDomainsPath)
		if err != nil {
			log.Fatalf("%s: %v", *queryDomainsPath, err)
		}
		logRowErrs(*queryDomainsPath, "domain", len(rowErrs))
		in.QueryDomains = domains
	}
	if *genesPath != "" {
		entries, rowErrs, err := bed.ReadEntriesFromPath(*genesPath, bed.Opts{})
		if err != nil {
			log.Fatalf("%s: %v", *genesPath, err)
		}
		logRowErrs(*genesPath, "BED", len(rowErrs))
		in.GeneSpans = make(map[string]pav.Span, len(entries))
		for _, e := range entries {
			in.GeneSpans[e.Name] = pav.Span{Chrom: e.Chrom, Start: e.Start, End: e.End}
		}
	}
	if *lociPath != "" {
		records, rowErrs, err := bed.ReadRecordsFromPath(*lociPath, bed.Opts{})
		if err != nil {
			log.Fatalf("%s: %v", *lociPath, err)
		}
		logRowErrs(*lociPath, "BED", len(rowErrs))
		in.QueryLoci = make([]pav.Span, 0, len(records))
		for _, r := range records {
			in.QueryLoci = append(in.QueryLoci, pav.Span{Chrom: r.Group, Start: r.Start, End: r.End})
		}
	}

	opts := pav.Opts{
		MinIdentity:           *minIdentity,
		MinDomainRatio:        *minDomainRatio,
		MinPartialDomainRatio: *minPartialRatio,
		MinLocusOverlap:       *minLocusOverlap,
		Parallelism:           *parallelism,
	}
	calls := pav.Classify(in, opts)

	ctx := vcontext.Background()
	if err := pav.WriteCallsToPath(ctx, *outPath, calls); err != nil {
		log.Fatalf("%s: %v", *outPath, err)
	}
	counts := pav.Summary(calls)
	log.Printf("%d gene(s): %d present, %d partial, %d absent\n",
		len(calls), counts[pav.Present], counts[pav.PartiallyPresent], counts[pav.Absent])
}
