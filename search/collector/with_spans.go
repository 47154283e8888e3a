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

// WithSpansCollector populates DocumentMatch.Spans from
// FieldTermLocations for every hit, spec §4.5's with_spans(fields?).
// Each recorded location becomes a single-position span (Start==End);
// a query built from search/searcher's SpanExpr tree (Near/Or/Not/...)
// has already resolved its own combined spans by the time a hit
// reaches the collector, so this wrapper's job is just exposing the
// leaf positions for callers that want them (e.g. snippet generation)
// rather than recomputing the query's own span predicate.
type WithSpansCollector struct {
	inner  search.Collector
	fields []string
}

// NewWithSpansCollector builds a WithSpansCollector recording span
// lists restricted to fields (all fields when fields is empty).
func NewWithSpansCollector(inner search.Collector, fields []string) *WithSpansCollector {
	return &WithSpansCollector{inner: inner, fields: fields}
}

func (w *WithSpansCollector) Collect(ctx context.Context, aggs search.Aggregations,
	searcher search.Collectible) (search.DocumentMatchIterator, error) {
	annotate := func(dm *search.DocumentMatch) {
		for _, ftl := range dm.FieldTermLocations {
			if !wantsField(w.fields, ftl.Field) {
				continue
			}
			dm.Spans = append(dm.Spans, search.Span{
				Field: ftl.Field,
				Start: ftl.Location.Pos,
				End:   ftl.Location.Pos,
			})
		}
	}
	return w.inner.Collect(ctx, aggs, newAnnotatingSearcher(searcher, annotate))
}

func (w *WithSpansCollector) Size() int        { return w.inner.Size() }
func (w *WithSpansCollector) BackingSize() int { return w.inner.BackingSize() }

var _ search.Collector = (*WithSpansCollector)(nil)
