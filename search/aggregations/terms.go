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

package aggregations

import (
	"sort"

	"github.com/kelpsearch/kelp/search"
)

// TermsAggregation buckets hits by a text facet's distinct values,
// keeping only the top size buckets by count (or by a custom lessFunc),
// spec's terms facet aggregation.
type TermsAggregation struct {
	src  search.TextValuesSource
	size int

	aggregations map[string]search.Aggregation

	desc     bool
	lessFunc func(a, b *search.Bucket) bool
	sortFunc func(p sort.Interface)
}

// NewTermsAggregation builds a TermsAggregation over src, keeping the
// size buckets with the highest hit count.
func NewTermsAggregation(src search.TextValuesSource, size int) *TermsAggregation {
	rv := &TermsAggregation{
		src:  src,
		size: size,
		desc: true,
		lessFunc: func(a, b *search.Bucket) bool {
			return a.Metric("count") < b.Metric("count")
		},
		aggregations: make(map[string]search.Aggregation),
		sortFunc:     sort.Sort,
	}
	rv.aggregations["count"] = CountMatches()
	return rv
}

// AddAggregation nests a sub-aggregation (e.g. an avg metric) inside
// every bucket this aggregation produces.
func (t *TermsAggregation) AddAggregation(name string, aggregation search.Aggregation) {
	t.aggregations[name] = aggregation
}

func (t *TermsAggregation) Fields() []string {
	rv := t.src.Fields()
	for _, agg := range t.aggregations {
		rv = append(rv, agg.Fields()...)
	}
	return rv
}

func (t *TermsAggregation) Calculator() search.Calculator {
	return &TermsCalculator{
		src:          t.src,
		size:         t.size,
		aggregations: t.aggregations,
		desc:         t.desc,
		lessFunc:     t.lessFunc,
		sortFunc:     t.sortFunc,
		bucketsMap:   make(map[string]*search.Bucket),
	}
}

// TermsCalculator is the running state of a TermsAggregation: one bucket
// per distinct value seen so far, trimmed to size and ranked on Finish.
type TermsCalculator struct {
	src  search.TextValuesSource
	size int

	aggregations map[string]search.Aggregation

	bucketsList []*search.Bucket
	bucketsMap  map[string]*search.Bucket
	total       int
	other       int

	desc     bool
	lessFunc func(a, b *search.Bucket) bool
	sortFunc func(p sort.Interface)
}

func (a *TermsCalculator) Consume(d *search.DocumentMatch) {
	a.total++
	for _, term := range a.src.Values(d) {
		termStr := string(term)
		if bucket, ok := a.bucketsMap[termStr]; ok {
			bucket.Consume(d)
			continue
		}
		newBucket := search.NewBucket(termStr, a.aggregations)
		newBucket.Consume(d)
		a.bucketsMap[termStr] = newBucket
		a.bucketsList = append(a.bucketsList, newBucket)
	}
}

func (a *TermsCalculator) Merge(other search.Calculator) {
	o, ok := other.(*TermsCalculator)
	if !ok {
		return
	}
	a.total += o.total
	for i := range o.bucketsList {
		var foundLocal bool
		for j := range a.bucketsList {
			if o.bucketsList[i].Name() == a.bucketsList[j].Name() {
				a.bucketsList[j].Merge(o.bucketsList[i])
				foundLocal = true
				break
			}
		}
		if !foundLocal {
			a.bucketsList = append(a.bucketsList, o.bucketsList[i])
		}
	}
	// Re-finish: this re-sorts and re-trims to size, recomputing other
	// against the merged total.
	a.Finish()
}

func (a *TermsCalculator) Finish() {
	if a.desc {
		a.sortFunc(sort.Reverse(a))
	} else {
		a.sortFunc(a)
	}

	trimTopN := a.size
	if trimTopN > len(a.bucketsList) {
		trimTopN = len(a.bucketsList)
	}
	a.bucketsList = a.bucketsList[:trimTopN]

	var notOther int
	for _, bucket := range a.bucketsList {
		notOther += int(bucket.Metric("count"))
	}
	a.other = a.total - notOther
}

func (a *TermsCalculator) Buckets() []*search.Bucket { return a.bucketsList }

// Other is the count of hits whose facet value fell outside the
// retained top-size buckets.
func (a *TermsCalculator) Other() int { return a.other }

func (a *TermsCalculator) Len() int { return len(a.bucketsList) }

func (a *TermsCalculator) Less(i, j int) bool {
	return a.lessFunc(a.bucketsList[i], a.bucketsList[j])
}

func (a *TermsCalculator) Swap(i, j int) {
	a.bucketsList[i], a.bucketsList[j] = a.bucketsList[j], a.bucketsList[i]
}

var (
	_ search.Aggregation      = (*TermsAggregation)(nil)
	_ search.BucketCalculator = (*TermsCalculator)(nil)
	_ sort.Interface          = (*TermsCalculator)(nil)
)
