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
Package pav calls presence/absence variation of protein-coding genes
between a reference and a query genome annotation.  Each reference gene is
classified as present, partially present, or absent in the query by
combining three evidence sources:

 1. transcript correspondence, from a gffcompare .tracking table;
 2. pairwise protein similarity, from a diamond/BLAST tabular report;
 3. protein-domain retention, the ratio of InterProScan domain coverage
    between the corresponding query and reference proteins, computed with
    the coverage engine so overlapping domains count once.

A fourth, fallback source (raw overlap between the gene body and
assembled query loci) rescues genes whose annotations were too fragmented
for the first three.
*/
package pav
