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

// Package collector implements spec §5.3's collector wrapper pipeline:
// a Collector drives a Searcher tree to completion and reduces its
// stream of hits to the top_K/page results, applying sort_by and
// running any attached aggregations along the way.
//
// Grounded on blugelabs/bluge/search/collector/topn.go and all.go.
package collector

import (
	"context"

	"github.com/kelpsearch/kelp/search"
)

// CheckDoneEvery controls how often Collect polls ctx for cancellation.
const CheckDoneEvery = 1024

// PreAllocSizeSkipCap caps the store's backing array when size+skip is
// large, trading a reslice later for bounded up-front allocation.
var PreAllocSizeSkipCap = 1000

// TopNCollector implements top_K(size).page(skip) over sort_by(order),
// the terminal stage of spec §5.3's collector wrapper chain.
type TopNCollector struct {
	size        int
	skip        int
	sort        search.SortOrder
	reverse     bool
	backingSize int

	store collectorStore

	neededFields []string

	lowestMatchOutsideResults *search.DocumentMatch
}

// NewTopNCollector builds a collector returning the best size hits
// (per sort), skipping the first skip of them.
func NewTopNCollector(size, skip int, sort search.SortOrder) *TopNCollector {
	return newTopNCollector(size, skip, sort, false)
}

// NewTopNCollectorReversed is NewTopNCollector with the final result
// order reversed after truncation, e.g. for a reversed() page wrapper.
func NewTopNCollectorReversed(size, skip int, sort search.SortOrder) *TopNCollector {
	return newTopNCollector(size, skip, sort, true)
}

func newTopNCollector(size, skip int, sort search.SortOrder, reverse bool) *TopNCollector {
	hc := &TopNCollector{
		size:    size,
		skip:    skip,
		sort:    sort,
		reverse: reverse,
	}

	hc.backingSize = size + skip + 1
	if size+skip > PreAllocSizeSkipCap {
		hc.backingSize = PreAllocSizeSkipCap + 1
	}

	hc.store = newSortedSliceStore(hc.backingSize, func(i, j *search.DocumentMatch) int {
		return hc.sort.Compare(i, j)
	})

	hc.neededFields = sort.Fields()

	return hc
}

var _ search.Collector = (*TopNCollector)(nil)

func (hc *TopNCollector) Size() int { return hc.backingSize }

func (hc *TopNCollector) BackingSize() int { return hc.backingSize }

// Collect runs searcher to exhaustion, feeding aggs and retaining only
// the top size+skip hits by sort order.
func (hc *TopNCollector) Collect(ctx context.Context, aggs search.Aggregations,
	searcher search.Collectible) (search.DocumentMatchIterator, error) {
	var err error
	var next *search.DocumentMatch

	defer func() { _ = searcher.Close() }()

	searchContext := search.NewSearchContext(hc.backingSize+searcher.DocumentMatchPoolSize(), len(hc.sort))

	if fields := aggs.Fields(); len(fields) > 0 {
		hc.neededFields = append(hc.neededFields, fields...)
	}
	bucket := search.NewBucket("", aggs)

	var hitNumber int
	next, err = searcher.Next(searchContext)
	for err == nil && next != nil {
		if hitNumber%CheckDoneEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		hitNumber++
		next.HitNumber = hitNumber

		if err = hc.collectSingle(searchContext, next, bucket); err != nil {
			return nil, err
		}

		next, err = searcher.Next(searchContext)
	}
	if err != nil {
		return nil, err
	}

	bucket.Finish()

	results, err := hc.finalizeResults()
	if err != nil {
		return nil, err
	}

	return &TopNIterator{results: results, bucket: bucket}, nil
}

func (hc *TopNCollector) collectSingle(ctx *search.Context, d *search.DocumentMatch, bucket *search.Bucket) error {
	if len(hc.neededFields) > 0 {
		if err := d.LoadDocumentValues(ctx, hc.neededFields); err != nil {
			return err
		}
	}

	hc.sort.Compute(d)
	bucket.Consume(d)

	if hc.lowestMatchOutsideResults != nil {
		if hc.sort.Compare(d, hc.lowestMatchOutsideResults) >= 0 {
			ctx.DocumentMatchPool.Put(d)
			return nil
		}
	}

	removed := hc.store.AddNotExceedingSize(d, hc.size+hc.skip)
	if removed != nil {
		if hc.lowestMatchOutsideResults == nil {
			hc.lowestMatchOutsideResults = removed
		} else if hc.sort.Compare(removed, hc.lowestMatchOutsideResults) < 0 {
			tmp := hc.lowestMatchOutsideResults
			hc.lowestMatchOutsideResults = removed
			ctx.DocumentMatchPool.Put(tmp)
		}
	}
	return nil
}

func (hc *TopNCollector) finalizeResults() (search.DocumentMatchCollection, error) {
	results, err := hc.store.Final(hc.skip, func(doc *search.DocumentMatch) error {
		doc.Complete(nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if hc.reverse {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}

	return results, nil
}
