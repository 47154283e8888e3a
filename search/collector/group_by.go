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

// GroupMapType selects how GroupByCollector stores the hits of one
// bucket, spec §4.5's group_by(facet, map_type).
type GroupMapType int

const (
	// GroupList keeps every hit in its bucket; the bucket is a plain list.
	GroupList GroupMapType = iota
	// GroupCount keeps no hits at all, only the per-bucket count a paired
	// terms aggregation (search/aggregations.TermsAggregation) computes
	// from the same facet source over the pre-grouping hit stream.
	GroupCount
	// GroupTopN keeps at most N hits per bucket, ranked by order.
	GroupTopN
)

// GroupByCollector buckets hits by a facet value and caps how many of
// each bucket's hits flow on to sort_by/top_K, per map_type. Building
// the bucket counts/sub-aggregations callers actually read back is a
// separate concern handled by pairing a search/aggregations.
// TermsAggregation into the same Collect call's Aggregations — this
// collector only shapes which hits survive into the ranked result set.
type GroupByCollector struct {
	inner   search.Collector
	key     search.TextValueSource
	mapType GroupMapType
	topN    int
	order   search.SortOrder
}

// NewGroupByCollector builds a GroupByCollector. topN/order are only
// consulted when mapType is GroupTopN.
func NewGroupByCollector(inner search.Collector, key search.TextValueSource,
	mapType GroupMapType, topN int, order search.SortOrder) *GroupByCollector {
	return &GroupByCollector{inner: inner, key: key, mapType: mapType, topN: topN, order: order}
}

func (g *GroupByCollector) Collect(ctx context.Context, aggs search.Aggregations,
	searcher search.Collectible) (search.DocumentMatchIterator, error) {
	keyOf := func(dm *search.DocumentMatch) string { return string(g.key.Value(dm)) }
	loadFields := append(append([]string{}, g.key.Fields()...), g.order.Fields()...)

	var limit int
	switch g.mapType {
	case GroupCount:
		limit = 0
	case GroupTopN:
		limit = g.topN
	default: // GroupList
		limit = -1
	}

	wrapped := newBucketCappedSearcher(searcher, keyOf, limit, g.order, loadFields)
	return g.inner.Collect(ctx, aggs, wrapped)
}

func (g *GroupByCollector) Size() int        { return g.inner.Size() }
func (g *GroupByCollector) BackingSize() int { return g.inner.BackingSize() }

var _ search.Collector = (*GroupByCollector)(nil)
