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

func TestGroupByListKeepsEveryHit(t *testing.T) {
	s := newFakeFacetSearcher(
		facetHit{0, 1.0, "fruit"},
		facetHit{1, 3.0, "fruit"},
		facetHit{2, 2.0, "veg"},
	)
	c := NewGroupByCollector(NewAllCollector(), search.Field("category"), GroupList, 0, search.ScoreSortOrder)

	it, err := c.Collect(context.Background(), search.Aggregations{}, s)
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 1, 2}, drain(t, it))
}

func TestGroupByCountKeepsNoHits(t *testing.T) {
	s := newFakeFacetSearcher(
		facetHit{0, 1.0, "fruit"},
		facetHit{1, 3.0, "fruit"},
	)
	c := NewGroupByCollector(NewAllCollector(), search.Field("category"), GroupCount, 0, search.ScoreSortOrder)

	it, err := c.Collect(context.Background(), search.Aggregations{}, s)
	require.NoError(t, err)

	assert.Empty(t, drain(t, it))
}

func TestGroupByTopNCapsPerBucket(t *testing.T) {
	s := newFakeFacetSearcher(
		facetHit{0, 1.0, "fruit"},
		facetHit{1, 3.0, "fruit"},
		facetHit{2, 2.0, "fruit"},
	)
	c := NewGroupByCollector(NewAllCollector(), search.Field("category"), GroupTopN, 1, search.ScoreSortOrder)

	it, err := c.Collect(context.Background(), search.Aggregations{}, s)
	require.NoError(t, err)

	assert.Equal(t, []uint64{1}, drain(t, it))
}
