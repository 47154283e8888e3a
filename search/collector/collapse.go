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

// CollapseCollector keeps at most limit hits per collapse key, ranked by
// order (score when order is empty), spec §4.5's
// collapse(facet, limit, order). Per the collector priority decision
// (SPEC_FULL.md §5, open question 3) collapse sits inside sort_by/top_K
// but outside filter/group_by — "must be outside top_K" in the spec's
// own words, since top_K's min-score eviction must act on the
// already-collapsed stream, not the raw one.
type CollapseCollector struct {
	inner search.Collector
	key   search.TextValueSource
	limit int
	order search.SortOrder
}

// NewCollapseCollector builds a CollapseCollector. A nil order falls
// back to descending score, matching TopNCollector's default.
func NewCollapseCollector(inner search.Collector, key search.TextValueSource, limit int, order search.SortOrder) *CollapseCollector {
	return &CollapseCollector{inner: inner, key: key, limit: limit, order: order}
}

func (c *CollapseCollector) Collect(ctx context.Context, aggs search.Aggregations,
	searcher search.Collectible) (search.DocumentMatchIterator, error) {
	keyOf := func(dm *search.DocumentMatch) string { return string(c.key.Value(dm)) }
	loadFields := append(append([]string{}, c.key.Fields()...), c.order.Fields()...)
	wrapped := newBucketCappedSearcher(searcher, keyOf, c.limit, c.order, loadFields)
	return c.inner.Collect(ctx, aggs, wrapped)
}

func (c *CollapseCollector) Size() int        { return c.inner.Size() }
func (c *CollapseCollector) BackingSize() int { return c.inner.BackingSize() }

var _ search.Collector = (*CollapseCollector)(nil)
