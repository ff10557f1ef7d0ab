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
Given a gffcompare .tracking table, a diamond/BLAST tabular protein
alignment, and InterProScan domain annotations for the reference and query
proteomes, bio-pav calls each reference gene present, partially present,
or absent in the query genome.

Sample usage:
bio-pav \
    --genemap ref-gene2protein.tsv \
    --tracking gffcmp.tracking \
    --similarity diamond.tsv \
    --ref-domains ref.iprscan.tsv \
    --query-domains query.iprscan.tsv \
    --genes ref-genes.bed \
    --loci query-loci.bed \
    --out pav-calls.tsv
*/
package main
