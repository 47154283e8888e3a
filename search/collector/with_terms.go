// Copyright 2024 The Kelp Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collector

import (
	"context"

	"github.com/kelpsearch/kelp/search"
)

// annotatingSearcher runs annotate on every hit before passing it
// through, shared by WithTermsCollector and WithSpansCollector.
type annotatingSearcher struct {
	inner    search.Searcher
	annotate func(*search.DocumentMatch)
}

func newAnnotatingSearcher(inner search.Searcher, annotate func(*search.DocumentMatch)) search.Searcher {
	return &annotatingSearcher{inner: inner, annotate: annotate}
}

func (a *annotatingSearcher) apply(dm *search.DocumentMatch) *search.DocumentMatch {
	if dm != nil {
		a.annotate(dm)
	}
	return dm
}

func (a *annotatingSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	dm, err := a.inner.Next(ctx)
	if err != nil {
		return nil, err
	}
	return a.apply(dm), nil
}

func (a *annotatingSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	dm, err := a.inner.Advance(ctx, number)
	if err != nil {
		return nil, err
	}
	return a.apply(dm), nil
}

func (a *annotatingSearcher) Count() uint64              { return a.inner.Count() }
func (a *annotatingSearcher) Min() int                   { return a.inner.Min() }
func (a *annotatingSearcher) DocumentMatchPoolSize() int { return a.inner.DocumentMatchPoolSize() }
func (a *annotatingSearcher) Close() error               { return a.inner.Close() }

var _ search.Searcher = (*annotatingSearcher)(nil)

func wantsField(fields []string, field string) bool {
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// WithTermsCollector populates DocumentMatch.Locations from
// FieldTermLocations for every hit, spec §4.5's with_terms(fields?).
// The matcher tree must have IncludeTermVectors set (the query layer's
// responsibility, mirroring spec's note that with_terms "requires
// disabling block-max skipping") or FieldTermLocations is empty and
// Locations ends up empty too.
type WithTermsCollector struct {
	inner  search.Collector
	fields []string
}

// NewWithTermsCollector builds a WithTermsCollector recording matching
// terms restricted to fields (all fields when fields is empty).
func NewWithTermsCollector(inner search.Collector, fields []string) *WithTermsCollector {
	return &WithTermsCollector{inner: inner, fields: fields}
}

func (w *WithTermsCollector) Collect(ctx context.Context, aggs search.Aggregations,
	searcher search.Collectible) (search.DocumentMatchIterator, error) {
	annotate := func(dm *search.DocumentMatch) {
		for _, ftl := range dm.FieldTermLocations {
			if !wantsField(w.fields, ftl.Field) {
				continue
			}
			if dm.Locations == nil {
				dm.Locations = make(search.FieldTermLocationMap)
			}
			byTerm := dm.Locations[ftl.Field]
			if byTerm == nil {
				byTerm = make(search.TermLocationMap)
				dm.Locations[ftl.Field] = byTerm
			}
			loc := ftl.Location
			byTerm[ftl.Term] = append(byTerm[ftl.Term], &loc)
		}
	}
	return w.inner.Collect(ctx, aggs, newAnnotatingSearcher(searcher, annotate))
}

func (w *WithTermsCollector) Size() int        { return w.inner.Size() }
func (w *WithTermsCollector) BackingSize() int { return w.inner.BackingSize() }

var _ search.Collector = (*WithTermsCollector)(nil)
