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

// Aggregation builds a fresh Calculator for one run of a search and
// names the hit fields it needs loaded (spec's supplemented
// faceting/aggregation feature, see SPEC_FULL.md).
type Aggregation interface {
	Fields() []string
	Calculator() Calculator
}

// Aggregations is the named set of aggregations a query runs alongside
// its hits, e.g. a terms facet on "category" plus a sum metric on
// "price".
type Aggregations map[string]Aggregation

func (a Aggregations) Add(name string, aggregation Aggregation) {
	a[name] = aggregation
}

func (a Aggregations) Fields() []string {
	var rv []string
	for _, aggregation := range a {
		rv = append(rv, aggregation.Fields()...)
	}
	return rv
}

// Calculator consumes hits as a collector runs and produces a result
// once the run completes.
type Calculator interface {
	Consume(*DocumentMatch)
	Finish()
	Merge(Calculator)
}

// MetricCalculator is a Calculator reducing to a single number (sum,
// min, max, avg, count).
type MetricCalculator interface {
	Calculator
	Value() float64
}

// BucketCalculator is a Calculator that partitions hits into named
// sub-buckets, each with its own nested aggregations (a terms facet).
type BucketCalculator interface {
	Calculator
	Buckets() []*Bucket
}

// Bucket holds one group's aggregation results: the top-level bucket
// (name "") covers every hit a collector consumed, or a facet term's
// bucket holds only the hits sharing that term.
type Bucket struct {
	name         string
	aggregations map[string]Calculator
}

// NewBucket starts a bucket with a fresh Calculator per aggregation.
func NewBucket(name string, aggregations Aggregations) *Bucket {
	rv := &Bucket{
		name:         name,
		aggregations: make(map[string]Calculator, len(aggregations)),
	}
	for name, agg := range aggregations {
		rv.aggregations[name] = agg.Calculator()
	}
	return rv
}

func (b *Bucket) Name() string { return b.name }

// Consume feeds d to every aggregation in this bucket.
func (b *Bucket) Consume(d *DocumentMatch) {
	for _, calc := range b.aggregations {
		calc.Consume(d)
	}
}

// Finish tells every aggregation's calculator the run is complete.
func (b *Bucket) Finish() {
	for _, calc := range b.aggregations {
		calc.Finish()
	}
}

// Merge combines another bucket's partial results into this one, for
// multi-segment/multi-reader search (see multisearch.go).
func (b *Bucket) Merge(other *Bucket) {
	for name, calc := range other.aggregations {
		if existing, ok := b.aggregations[name]; ok {
			existing.Merge(calc)
		} else {
			b.aggregations[name] = calc
		}
	}
}

func (b *Bucket) Aggregations() map[string]Calculator { return b.aggregations }

func (b *Bucket) Aggregation(name string) Calculator { return b.aggregations[name] }

// Metric reads a named MetricCalculator's value, or 0 if absent or not
// a metric.
func (b *Bucket) Metric(name string) float64 {
	if calc, ok := b.aggregations[name].(MetricCalculator); ok {
		return calc.Value()
	}
	return 0
}

// Buckets reads a named BucketCalculator's sub-buckets, or nil if
// absent or not a bucket aggregation.
func (b *Bucket) Buckets(name string) []*Bucket {
	if calc, ok := b.aggregations[name].(BucketCalculator); ok {
		return calc.Buckets()
	}
	return nil
}
