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
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// writeFraction renders a fraction column, with '.' for missing evidence
// (negative values).
func writeFraction(tsvw *tsv.Writer, v float64) {
	if v < 0 {
		tsvw.WriteString(".")
		return
	}
	tsvw.WriteString(strconv.FormatFloat(v, 'f', 4, 64))
}

// WriteCalls writes calls as a TSV report, one row per reference gene.
func WriteCalls(w io.Writer, calls []Call) error {
	tsvw := tsv.NewWriter(w)
	tsvw.WriteString("#gene\tstate\tclass_code\ttarget\tidentity\tdomain_ratio\tlocus_overlap")
	if err := tsvw.EndLine(); err != nil {
		return err
	}
	for _, c := range calls {
		tsvw.WriteString(c.Gene)
		tsvw.WriteString(c.State.String())
		if c.Evidence.ClassCode == 0 {
			tsvw.WriteString(".")
		} else {
			tsvw.WriteByte(c.Evidence.ClassCode)
		}
		if c.Evidence.Target == "" {
			tsvw.WriteString(".")
			tsvw.WriteString(".")
		} else {
			tsvw.WriteString(c.Evidence.Target)
			writeFraction(tsvw, c.Evidence.Identity)
		}
		writeFraction(tsvw, c.Evidence.DomainRatio)
		writeFraction(tsvw, c.Evidence.LocusOverlap)
		if err := tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}

// WriteCallsToPath is a wrapper for WriteCalls that takes a path instead
// of an io.Writer.
func WriteCallsToPath(ctx context.Context, path string, calls []Call) (err error) {
	var dst file.File
	if dst, err = file.Create(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, dst, &err)
	return WriteCalls(dst.Writer(ctx), calls)
}
