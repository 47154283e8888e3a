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

// Package aggregations supplies concrete search.Aggregation/Calculator
// implementations: the terms and numeric-range bucket aggregations plus
// the sum/min/max/avg/count metric calculators named by spec §4 as the
// module's supplemented faceting feature.
//
// Grounded on blugelabs/bluge/search/aggregations/{metric,range,terms}.go,
// adapted to this module's own search.Aggregation/Bucket/Calculator
// contracts (search/aggregations.go).
package aggregations

import (
	"math"

	"github.com/kelpsearch/kelp/search"
)

// countMatchesAggregation is the default "count" sub-aggregation every
// bucket gets unless a caller overrides it: bluge's CountMatches is not
// part of the retrieved teacher source, so this is reconstructed
// directly as the simplest possible MetricCalculator.
type countMatchesAggregation struct{}

// CountMatches builds an Aggregation whose calculator counts the hits
// it consumes, the default bucket sub-aggregation TermsAggregation and
// Ranges attach so callers can read a bucket's size via Bucket.Metric.
func CountMatches() search.Aggregation { return countMatchesAggregation{} }

func (countMatchesAggregation) Fields() []string { return nil }

func (countMatchesAggregation) Calculator() search.Calculator { return &countCalculator{} }

type countCalculator struct{ count float64 }

func (c *countCalculator) Consume(*search.DocumentMatch) { c.count++ }
func (c *countCalculator) Finish()                       {}
func (c *countCalculator) Value() float64                { return c.count }

func (c *countCalculator) Merge(other search.Calculator) {
	if o, ok := other.(*countCalculator); ok {
		c.count += o.count
	}
}

var (
	_ search.Aggregation      = countMatchesAggregation{}
	_ search.MetricCalculator = (*countCalculator)(nil)
)

// singleValueCompute folds one more sample into a SingleValueCalculator.
type singleValueCompute func(s *singleValueCalculator, val float64)

// singleValueMetric builds Sum/Min/Max style metric aggregations, each
// differing only in its compute fold and starting value.
type singleValueMetric struct {
	src     search.NumericValuesSource
	init    float64
	compute singleValueCompute
}

// Sum builds a MetricCalculator aggregation totaling src's values.
func Sum(src search.NumericValuesSource) search.Aggregation {
	return &singleValueMetric{
		src: src,
		compute: func(s *singleValueCalculator, val float64) {
			s.val += val
		},
	}
}

// Min builds a MetricCalculator aggregation tracking src's minimum value.
func Min(src search.NumericValuesSource) search.Aggregation {
	return &singleValueMetric{
		src:  src,
		init: math.Inf(1),
		compute: func(s *singleValueCalculator, val float64) {
			if val < s.val {
				s.val = val
			}
		},
	}
}

// Max builds a MetricCalculator aggregation tracking src's maximum value.
func Max(src search.NumericValuesSource) search.Aggregation {
	return MaxStartingAt(src, math.Inf(-1))
}

// MaxStartingAt is Max with an explicit starting value instead of -Inf,
// useful when merging into a calculator that must never report below a
// known floor.
func MaxStartingAt(src search.NumericValuesSource, initial float64) search.Aggregation {
	return &singleValueMetric{
		src:  src,
		init: initial,
		compute: func(s *singleValueCalculator, val float64) {
			if val > s.val {
				s.val = val
			}
		},
	}
}

func (s *singleValueMetric) Fields() []string { return s.src.Fields() }

func (s *singleValueMetric) Calculator() search.Calculator {
	return &singleValueCalculator{val: s.init, src: s.src, compute: s.compute}
}

type singleValueCalculator struct {
	src     search.NumericValuesSource
	val     float64
	compute singleValueCompute
}

func (s *singleValueCalculator) Consume(d *search.DocumentMatch) {
	for _, val := range s.src.Numbers(d) {
		s.compute(s, val)
	}
}

func (s *singleValueCalculator) Merge(other search.Calculator) {
	if o, ok := other.(*singleValueCalculator); ok {
		s.compute(s, o.val)
	}
}

func (s *singleValueCalculator) Finish() {}

func (s *singleValueCalculator) Value() float64 { return s.val }

var (
	_ search.Aggregation      = (*singleValueMetric)(nil)
	_ search.MetricCalculator = (*singleValueCalculator)(nil)
)

// weightedAvgMetric builds the avg aggregation, optionally weighted by a
// second numeric source (weight 1 per sample when weight is nil).
type weightedAvgMetric struct {
	src    search.NumericValuesSource
	weight search.NumericValuesSource
}

// Avg builds a MetricCalculator aggregation averaging src's values.
func Avg(src search.NumericValuesSource) search.Aggregation {
	return &weightedAvgMetric{src: src}
}

// WeightedAvg is Avg with each sample scaled by weight's first value for
// that hit.
func WeightedAvg(src, weight search.NumericValuesSource) search.Aggregation {
	return &weightedAvgMetric{src: src, weight: weight}
}

func (a *weightedAvgMetric) Fields() []string {
	rv := a.src.Fields()
	if a.weight != nil {
		rv = append(rv, a.weight.Fields()...)
	}
	return rv
}

func (a *weightedAvgMetric) Calculator() search.Calculator {
	return &weightedAvgCalculator{src: a.src, weight: a.weight}
}

type weightedAvgCalculator struct {
	src     search.NumericValuesSource
	weight  search.NumericValuesSource
	val     float64
	weights float64
}

func (a *weightedAvgCalculator) Value() float64 {
	if a.weights == 0 {
		return 0
	}
	return a.val / a.weights
}

func (a *weightedAvgCalculator) Consume(d *search.DocumentMatch) {
	weight := 1.0
	if a.weight != nil {
		if values := a.weight.Numbers(d); len(values) > 0 {
			weight = values[0]
		}
	}
	for _, val := range a.src.Numbers(d) {
		a.val += val * weight
		a.weights += weight
	}
}

func (a *weightedAvgCalculator) Merge(other search.Calculator) {
	if o, ok := other.(*weightedAvgCalculator); ok {
		a.val += o.val
		a.weights += o.weights
	}
}

func (a *weightedAvgCalculator) Finish() {}

var (
	_ search.Aggregation      = (*weightedAvgMetric)(nil)
	_ search.MetricCalculator = (*weightedAvgCalculator)(nil)
)
