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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelpsearch/kelp/search"
)

// fieldTextSource and fieldNumberSource read straight out of a
// DocumentMatch.Fields map, standing in for the column-backed sources
// search/source.go provides, without needing a live index.
type fieldTextSource string

func (f fieldTextSource) Fields() []string { return []string{string(f)} }

func (f fieldTextSource) Values(d *search.DocumentMatch) [][]byte {
	if v, ok := d.Fields[string(f)]; ok {
		return [][]byte{v}
	}
	return nil
}

type fieldNumberSource string

func (f fieldNumberSource) Fields() []string { return []string{string(f)} }

func (f fieldNumberSource) Numbers(d *search.DocumentMatch) []float64 {
	v, ok := d.Fields[string(f)]
	if !ok {
		return nil
	}
	var n float64
	for _, b := range v {
		n = n*10 + float64(b-'0')
	}
	return []float64{n}
}

func docWith(field, value string) *search.DocumentMatch {
	return &search.DocumentMatch{Fields: map[string][]byte{field: []byte(value)}}
}

func TestTermsCalculatorBucketsByDistinctValue(t *testing.T) {
	calc := NewTermsAggregation(fieldTextSource("category"), 10).Calculator().(*TermsCalculator)
	calc.Consume(docWith("category", "fruit"))
	calc.Consume(docWith("category", "fruit"))
	calc.Consume(docWith("category", "veg"))
	calc.Finish()

	buckets := calc.Buckets()
	assert.Len(t, buckets, 2)
	assert.Equal(t, "fruit", buckets[0].Name())
	assert.InDelta(t, 2, buckets[0].Metric("count"), 0)
	assert.InDelta(t, 1, buckets[1].Metric("count"), 0)
	assert.Equal(t, 0, calc.Other())
}

func TestTermsCalculatorTrimsToSizeAndTracksOther(t *testing.T) {
	calc := NewTermsAggregation(fieldTextSource("category"), 1).Calculator().(*TermsCalculator)
	calc.Consume(docWith("category", "fruit"))
	calc.Consume(docWith("category", "fruit"))
	calc.Consume(docWith("category", "veg"))
	calc.Finish()

	assert.Len(t, calc.Buckets(), 1)
	assert.Equal(t, "fruit", calc.Buckets()[0].Name())
	assert.Equal(t, 1, calc.Other())
}

func TestTermsCalculatorMergeCombinesBucketsAcrossSegments(t *testing.T) {
	agg := NewTermsAggregation(fieldTextSource("category"), 10)
	a := agg.Calculator().(*TermsCalculator)
	a.Consume(docWith("category", "fruit"))
	a.Finish()

	b := agg.Calculator().(*TermsCalculator)
	b.Consume(docWith("category", "fruit"))
	b.Consume(docWith("category", "veg"))
	b.Finish()

	a.Merge(b)
	assert.Len(t, a.Buckets(), 2)
	for _, bucket := range a.Buckets() {
		if bucket.Name() == "fruit" {
			assert.InDelta(t, 2, bucket.Metric("count"), 0)
		}
	}
}

func TestRangeCalculatorBucketsByInterval(t *testing.T) {
	agg := Ranges(fieldNumberSource("price")).
		AddRange(NamedRange("cheap", 0, 10)).
		AddRange(NamedRange("pricey", 10, 100))
	calc := agg.Calculator().(*RangeCalculator)
	calc.Consume(docWith("price", "5"))
	calc.Consume(docWith("price", "50"))
	calc.Consume(docWith("price", "7"))
	calc.Finish()

	buckets := calc.Buckets()
	assert.InDelta(t, 2, buckets[0].Metric("count"), 0)
	assert.InDelta(t, 1, buckets[1].Metric("count"), 0)
}

func TestSumMinMaxAvgCalculators(t *testing.T) {
	src := fieldNumberSource("score")
	docs := []*search.DocumentMatch{docWith("score", "3"), docWith("score", "9"), docWith("score", "6")}

	sum := Sum(src).Calculator()
	min := Min(src).Calculator()
	max := Max(src).Calculator()
	avg := Avg(src).Calculator()
	for _, d := range docs {
		sum.Consume(d)
		min.Consume(d)
		max.Consume(d)
		avg.Consume(d)
	}

	assert.InDelta(t, 18, sum.(search.MetricCalculator).Value(), 0)
	assert.InDelta(t, 3, min.(search.MetricCalculator).Value(), 0)
	assert.InDelta(t, 9, max.(search.MetricCalculator).Value(), 0)
	assert.InDelta(t, 6, avg.(search.MetricCalculator).Value(), 0)
}

func TestCountMatchesCountsConsumedHits(t *testing.T) {
	calc := CountMatches().Calculator()
	calc.Consume(&search.DocumentMatch{})
	calc.Consume(&search.DocumentMatch{})
	assert.InDelta(t, 2, calc.(search.MetricCalculator).Value(), 0)
}
