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

package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/search/similarity"
)

func mustTermSearcher(t *testing.T, r search.Reader, term, field string) search.Searcher {
	t.Helper()
	s, err := NewTermSearcher(r, term, field, 1.0, nil, defaultOptions())
	require.NoError(t, err)
	return s
}

func TestConjunctionSearcherIntersects(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "red", "fox")),
		doc(textField("title", "red", "dog")),
		doc(textField("title", "blue", "fox")),
	)

	conj, err := NewConjunctionSearcher([]search.Searcher{
		mustTermSearcher(t, r, "red", "title"),
		mustTermSearcher(t, r, "fox", "title"),
	}, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer conj.Close()

	got := docNumbers(t, newCtx(), conj)
	assert.Equal(t, []uint64{0}, got)
}

func TestDisjunctionSearcherUnions(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "red", "fox")),
		doc(textField("title", "red", "dog")),
		doc(textField("title", "blue", "cat")),
	)

	disj, err := NewDisjunctionSearcher([]search.Searcher{
		mustTermSearcher(t, r, "fox", "title"),
		mustTermSearcher(t, r, "dog", "title"),
	}, 0, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer disj.Close()

	got := docNumbers(t, newCtx(), disj)
	assert.Equal(t, []uint64{0, 1}, got)
}

func TestDisjunctionSearcherMinClauses(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "red", "fox")),
		doc(textField("title", "red", "dog")),
		doc(textField("title", "blue", "cat")),
	)

	disj, err := NewDisjunctionSearcher([]search.Searcher{
		mustTermSearcher(t, r, "red", "title"),
		mustTermSearcher(t, r, "fox", "title"),
	}, 2, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer disj.Close()

	got := docNumbers(t, newCtx(), disj)
	assert.Equal(t, []uint64{0}, got)
}

func TestBooleanSearcherMustShouldMustNot(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "red", "fox")),
		doc(textField("title", "red", "dog")),
		doc(textField("title", "blue", "fox")),
	)

	must, err := NewConjunctionSearcher([]search.Searcher{
		mustTermSearcher(t, r, "red", "title"),
	}, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)

	mustNot, err := NewDisjunctionSearcher([]search.Searcher{
		mustTermSearcher(t, r, "dog", "title"),
	}, 0, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)

	boolSearcher, err := NewBooleanSearcher(must, nil, mustNot,
		similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer boolSearcher.Close()

	got := docNumbers(t, newCtx(), boolSearcher)
	assert.Equal(t, []uint64{0}, got)
}
