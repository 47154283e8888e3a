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

package search

import "context"

// DocumentMatchIterator is what a query's search call returns: a
// pull-based stream of hits already subjected to a collector's
// filter/sort/top_K/page pipeline (spec §5.3).
//
// Not ported from a retrieved file: the teacher's reader.go and
// collector/{topn,all}.go only ever consume this type, never define it
// (a retrieval gap, like search/collector's missing store_heap.go/
// store_slice.go — see collector package's DESIGN.md entry). Shaped here
// to match exactly what TopNIterator/AllIterator in collector/ implement.
type DocumentMatchIterator interface {
	Next() (*DocumentMatch, error)
	Aggregations() *Bucket
}

// Collector drives a Searcher tree to completion and reduces its hits
// to one DocumentMatchIterator, per spec §5.3's fixed wrapper order.
type Collector interface {
	Collect(ctx context.Context, aggs Aggregations, searcher Collectible) (DocumentMatchIterator, error)
	Size() int
	BackingSize() int
}
