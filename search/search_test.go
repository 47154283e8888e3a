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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelpsearch/kelp/segment"
)

func TestDocumentMatchPoolReusesInstances(t *testing.T) {
	pool := NewDocumentMatchPool(2, 0)

	a := pool.Get()
	b := pool.Get()
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b)

	// Pool exhausted: falls back to fresh allocation.
	c := pool.Get()
	require.NotNil(t, c)

	a.Number = 42
	a.Score = 1.5
	pool.Put(a)

	reused := pool.Get()
	assert.Same(t, a, reused)
	assert.Zero(t, reused.Number)
	assert.Zero(t, reused.Score)
}

func TestDocumentMatchResetPreservesReaderAndFieldsMap(t *testing.T) {
	dm := &DocumentMatch{
		Number: 7,
		Score:  3.0,
		Fields: map[string][]byte{"title": []byte("foo")},
	}
	dm.SetReader(nil)
	dm.Fields["title"] = []byte("foo")

	dm.Reset()

	assert.Zero(t, dm.Number)
	assert.Zero(t, dm.Score)
	assert.NotNil(t, dm.Fields)
	assert.Empty(t, dm.Fields)
}

func TestDocumentMatchCompletePrependsPrealloc(t *testing.T) {
	dm := &DocumentMatch{
		FieldTermLocations: []FieldTermLocation{{Field: "b"}},
	}
	prealloc := []FieldTermLocation{{Field: "a"}}

	dm.Complete(prealloc)

	require.Len(t, dm.FieldTermLocations, 2)
	assert.Equal(t, "a", dm.FieldTermLocations[0].Field)
	assert.Equal(t, "b", dm.FieldTermLocations[1].Field)
}

func TestMergeFieldTermLocationsSkipsNilConstituents(t *testing.T) {
	c1 := &DocumentMatch{FieldTermLocations: []FieldTermLocation{{Field: "title", Term: "fox"}}}
	c2 := &DocumentMatch{FieldTermLocations: []FieldTermLocation{{Field: "title", Term: "dog"}}}

	merged := MergeFieldTermLocations(nil, []*DocumentMatch{c1, nil, c2})

	require.Len(t, merged, 2)
	assert.Equal(t, "fox", merged[0].Term)
	assert.Equal(t, "dog", merged[1].Term)
}

func TestSearcherOptionsSimilarityOrDefaultFallsBack(t *testing.T) {
	def := fakeSimilarity{}
	opts := SearcherOptions{}
	assert.Equal(t, def, opts.SimilarityOrDefault("title", def))

	opts.SimilarityForField = func(field string) Similarity { return nil }
	assert.Equal(t, def, opts.SimilarityOrDefault("title", def))

	specific := fakeSimilarity{}
	opts.SimilarityForField = func(field string) Similarity { return specific }
	assert.Equal(t, specific, opts.SimilarityOrDefault("title", def))
}

type fakeSimilarity struct{}

func (fakeSimilarity) Scorer(float64, segment.CollectionStats, segment.TermStats) Scorer {
	return nil
}

func (fakeSimilarity) ComputeNorm(int) float64 { return 1 }
