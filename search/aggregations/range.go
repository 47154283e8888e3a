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
	"fmt"

	"github.com/kelpsearch/kelp/search"
)

// NumericRange names one [low, high) bucket of a RangeAggregation. name
// is optional; when empty the bucket takes a "[low,high)" display name.
type NumericRange struct {
	name string
	low  float64
	high float64
}

// Range builds an unnamed [low, high) bucket.
func Range(low, high float64) *NumericRange {
	return &NumericRange{low: low, high: high}
}

// NamedRange builds a [low, high) bucket with an explicit bucket name.
func NamedRange(name string, low, high float64) *NumericRange {
	return &NumericRange{name: name, low: low, high: high}
}

// RangeAggregation buckets hits by which of a fixed list of numeric
// ranges their value falls into, spec's numeric-range facet aggregation.
// A value matching more than one overlapping range is consumed by every
// matching bucket.
type RangeAggregation struct {
	src          search.NumericValuesSource
	ranges       []*NumericRange
	aggregations map[string]search.Aggregation
}

// Ranges builds a RangeAggregation over src with no buckets yet; call
// AddRange to add them.
func Ranges(src search.NumericValuesSource) *RangeAggregation {
	return &RangeAggregation{
		src:          src,
		aggregations: map[string]search.Aggregation{"count": CountMatches()},
	}
}

// AddRange appends one bucket definition, returning the aggregation for
// chaining.
func (a *RangeAggregation) AddRange(r *NumericRange) *RangeAggregation {
	a.ranges = append(a.ranges, r)
	return a
}

// AddAggregation nests a sub-aggregation inside every range bucket.
func (a *RangeAggregation) AddAggregation(name string, agg search.Aggregation) *RangeAggregation {
	a.aggregations[name] = agg
	return a
}

func (a *RangeAggregation) Fields() []string { return a.src.Fields() }

func (a *RangeAggregation) Calculator() search.Calculator {
	rv := &RangeCalculator{src: a.src, ranges: a.ranges}
	for _, r := range a.ranges {
		name := r.name
		if name == "" {
			name = fmt.Sprintf("[%g,%g)", r.low, r.high)
		}
		rv.bucketCalculators = append(rv.bucketCalculators, search.NewBucket(name, a.aggregations))
	}
	return rv
}

// RangeCalculator is the running state of a RangeAggregation: one bucket
// per range definition, in definition order.
type RangeCalculator struct {
	src               search.NumericValuesSource
	ranges            []*NumericRange
	bucketCalculators []*search.Bucket
}

func (b *RangeCalculator) Consume(d *search.DocumentMatch) {
	for _, val := range b.src.Numbers(d) {
		for i, r := range b.ranges {
			if val >= r.low && val < r.high {
				b.bucketCalculators[i].Consume(d)
			}
		}
	}
}

func (b *RangeCalculator) Merge(other search.Calculator) {
	o, ok := other.(*RangeCalculator)
	if !ok || len(b.bucketCalculators) != len(o.bucketCalculators) {
		return
	}
	for i := range b.bucketCalculators {
		b.bucketCalculators[i].Merge(o.bucketCalculators[i])
	}
}

func (b *RangeCalculator) Finish() {
	for _, bucket := range b.bucketCalculators {
		bucket.Finish()
	}
}

func (b *RangeCalculator) Buckets() []*search.Bucket { return b.bucketCalculators }

var (
	_ search.Aggregation      = (*RangeAggregation)(nil)
	_ search.BucketCalculator = (*RangeCalculator)(nil)
)
