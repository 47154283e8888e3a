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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelpsearch/kelp/search"
)

// facetHit is one (number, score, facet value) triple a fakeFacetSearcher
// replays, standing in for a hit whose column fields are already loaded
// (as they would be after LoadDocumentValues runs against a real reader).
type facetHit struct {
	number uint64
	score  float64
	facet  string
}

type fakeFacetSearcher struct {
	hits []facetHit
	pos  int
}

func newFakeFacetSearcher(hits ...facetHit) *fakeFacetSearcher {
	return &fakeFacetSearcher{hits: hits}
}

func (f *fakeFacetSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	if f.pos >= len(f.hits) {
		return nil, nil
	}
	h := f.hits[f.pos]
	f.pos++
	dm := ctx.DocumentMatchPool.Get()
	dm.Number = h.number
	dm.Score = h.score
	dm.Fields = map[string][]byte{"category": []byte(h.facet)}
	return dm, nil
}

func (f *fakeFacetSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	for f.pos < len(f.hits) && f.hits[f.pos].number < number {
		f.pos++
	}
	return f.Next(ctx)
}

func (f *fakeFacetSearcher) Count() uint64              { return uint64(len(f.hits)) }
func (f *fakeFacetSearcher) Min() int                   { return 0 }
func (f *fakeFacetSearcher) DocumentMatchPoolSize() int { return len(f.hits) + 1 }
func (f *fakeFacetSearcher) Close() error               { return nil }

var _ search.Searcher = (*fakeFacetSearcher)(nil)

func TestCollapseCollectorKeepsBestPerKey(t *testing.T) {
	s := newFakeFacetSearcher(
		facetHit{0, 1.0, "fruit"},
		facetHit{1, 3.0, "fruit"},
		facetHit{2, 2.0, "veg"},
	)
	c := NewCollapseCollector(NewAllCollector(), search.Field("category"), 1, search.ScoreSortOrder)

	it, err := c.Collect(context.Background(), search.Aggregations{}, s)
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2}, drain(t, it))
}

func TestCollapseCollectorKeepsUpToLimitPerKey(t *testing.T) {
	s := newFakeFacetSearcher(
		facetHit{0, 1.0, "fruit"},
		facetHit{1, 3.0, "fruit"},
		facetHit{2, 2.0, "fruit"},
	)
	c := NewCollapseCollector(NewAllCollector(), search.Field("category"), 2, search.ScoreSortOrder)

	it, err := c.Collect(context.Background(), search.Aggregations{}, s)
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2}, drain(t, it))
}
