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
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bio-pav/coverage"
	"github.com/grailbio/bio-pav/encoding/gffcompare"
	"github.com/grailbio/bio-pav/encoding/interproscan"
)

// State is the presence/absence call for one reference gene in the query
// genome.
type State int

const (
	// Absent means no evidence source supports the gene in the query.
	Absent State = iota
	// PartiallyPresent means at least one weak evidence source supports the
	// gene: a partial transcript correspondence, protein similarity alone,
	// partial domain retention, or raw locus overlap.
	PartiallyPresent
	// Present means the gene is supported by a complete transcript
	// correspondence, or by protein similarity together with retained domain
	// coverage.
	Present
)

func (s State) String() string {
	switch s {
	case Present:
		return "present"
	case PartiallyPresent:
		return "partial"
	default:
		return "absent"
	}
}

// Opts holds the evidence thresholds.
type Opts struct {
	// MinIdentity is the percent identity a best protein hit needs to count
	// as similarity evidence.
	MinIdentity float64
	// MinDomainRatio is the query/reference domain-coverage ratio needed,
	// together with similarity evidence, for a Present call.
	MinDomainRatio float64
	// MinPartialDomainRatio is the domain-coverage ratio needed for a
	// PartiallyPresent call on its own.
	MinPartialDomainRatio float64
	// MinLocusOverlap is the fraction of the gene body that assembled query
	// loci must cover for the locus-overlap fallback to fire.
	MinLocusOverlap float64
	// Parallelism bounds the goroutines used for the domain-coverage
	// batches; 0 = runtime.NumCPU().
	Parallelism int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MinIdentity:           90.0,
	MinDomainRatio:        0.9,
	MinPartialDomainRatio: 0.5,
	MinLocusOverlap:       0.5,
	Parallelism:           0,
}

// Evidence records what each source contributed to a call.  Zero-valued
// fields mean the source had nothing to say: ClassCode 0, empty Target,
// and DomainRatio/LocusOverlap of -1 denote missing evidence rather than a
// measured zero.
type Evidence struct {
	// ClassCode is the strongest gffcompare class code seen for the gene.
	ClassCode byte
	// Target is the query protein backing Identity and DomainRatio.
	Target string
	// Identity is the percent identity of the best protein hit.
	Identity float64
	// DomainRatio is query domain coverage / reference domain coverage for
	// the best-supported protein of the gene, capped at 1.
	DomainRatio float64
	// LocusOverlap is the fraction of the gene body covered by assembled
	// query loci.
	LocusOverlap float64
}

// Call is the per-gene result.
type Call struct {
	Gene     string
	State    State
	Evidence Evidence
}

// Input bundles the evidence sources for one Classify run.  All of it is
// treated as an immutable snapshot for the duration of the call; Classify
// keeps no state between runs.
type Input struct {
	// GeneProteins maps each reference gene ID to its protein accessions.
	// This is the authoritative reference gene set: every key gets a Call.
	GeneProteins map[string][]string
	// GeneSpans optionally maps reference gene IDs to their genomic spans,
	// enabling the locus-overlap fallback.
	GeneSpans map[string]Span
	// Matches is the gffcompare transcript correspondence table.
	Matches []gffcompare.Match
	// Similarities is the pairwise protein alignment table, reference
	// proteins as queries.
	Similarities []Similarity
	// RefDomains and QueryDomains are the InterProScan annotations of the
	// reference and query proteomes.
	RefDomains   []interproscan.Domain
	QueryDomains []interproscan.Domain
	// QueryLoci are the assembled query transcript loci, for the fallback.
	QueryLoci []Span
}

// classRank orders gffcompare class codes by strength of correspondence.
func classRank(code byte) int {
	switch code {
	case gffcompare.ClassComplete:
		return 3
	case gffcompare.ClassContained:
		return 2
	case gffcompare.ClassJunctionMatch:
		return 1
	case 0, gffcompare.ClassUnknown:
		return 0
	default:
		// Remaining codes (m, n, e, o, ...) overlap the reference somehow.
		return 1
	}
}

// Classify computes a presence/absence call for every gene in
// in.GeneProteins, in lexicographic gene order.
func Classify(in Input, opts Opts) []Call {
	refCov := coverage.ByGroupParallel(interproscan.Records(in.RefDomains), opts.Parallelism)
	queryCov := coverage.ByGroupParallel(interproscan.Records(in.QueryDomains), opts.Parallelism)
	for _, skipped := range refCov.Skipped {
		log.Error.Printf("pav.Classify: reference domains: skipped %s: %v", skipped.Group, skipped.Err)
	}
	for _, skipped := range queryCov.Skipped {
		log.Error.Printf("pav.Classify: query domains: skipped %s: %v", skipped.Group, skipped.Err)
	}
	best := BestByQuery(in.Similarities)
	byGene := gffcompare.ByRefGene(in.Matches)
	var loci *locusIndex
	if len(in.QueryLoci) > 0 && len(in.GeneSpans) > 0 {
		loci = newLocusIndex(in.QueryLoci)
	}

	genes := make([]string, 0, len(in.GeneProteins))
	for gene := range in.GeneProteins {
		genes = append(genes, gene)
	}
	sort.Strings(genes)

	calls := make([]Call, 0, len(genes))
	for _, gene := range genes {
		ev := Evidence{DomainRatio: -1, LocusOverlap: -1}
		for _, m := range byGene[gene] {
			if classRank(m.ClassCode) > classRank(ev.ClassCode) {
				ev.ClassCode = m.ClassCode
			}
		}
		for _, protein := range in.GeneProteins[gene] {
			hit, ok := best[protein]
			if !ok {
				continue
			}
			if hit.Identity > ev.Identity {
				ev.Identity = hit.Identity
				ev.Target = hit.Target
			}
			if rc, ok := refCov.Coverage[protein]; ok && rc > 0 {
				ratio := float64(queryCov.Coverage[hit.Target]) / float64(rc)
				if ratio > 1 {
					ratio = 1
				}
				if ratio > ev.DomainRatio {
					ev.DomainRatio = ratio
				}
			}
		}
		if loci != nil {
			if span, ok := in.GeneSpans[gene]; ok {
				ev.LocusOverlap = loci.overlapFraction(span)
			}
		}
		calls = append(calls, Call{Gene: gene, State: decide(ev, opts), Evidence: ev})
	}
	return calls
}

func decide(ev Evidence, opts Opts) State {
	simOK := ev.Identity >= opts.MinIdentity && ev.Target != ""
	switch {
	case classRank(ev.ClassCode) >= 2:
		return Present
	case simOK && ev.DomainRatio >= opts.MinDomainRatio:
		return Present
	case classRank(ev.ClassCode) == 1,
		simOK,
		ev.DomainRatio >= opts.MinPartialDomainRatio,
		ev.LocusOverlap >= opts.MinLocusOverlap:
		return PartiallyPresent
	}
	return Absent
}

// Summary counts calls by state.
func Summary(calls []Call) map[State]int {
	counts := make(map[State]int, 3)
	for _, c := range calls {
		counts[c.State]++
	}
	return counts
}
