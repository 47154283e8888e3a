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

	"github.com/kelpsearch/kelp/search/similarity"
)

func TestTermPrefixSearcher(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "foobar")),
		doc(textField("title", "foobaz")),
		doc(textField("title", "zebra")),
	)

	s, err := NewTermPrefixSearcher(r, "foo", "title", 1.0, nil, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	got := docNumbers(t, newCtx(), s)
	assert.Equal(t, []uint64{0, 1}, got)
}

func TestTermRangeSearcher(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "apple")),
		doc(textField("title", "banana")),
		doc(textField("title", "cherry")),
		doc(textField("title", "date")),
	)

	s, err := NewTermRangeSearcher(r, []byte("banana"), []byte("cherry"), true, true,
		"title", 1.0, nil, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	got := docNumbers(t, newCtx(), s)
	assert.Equal(t, []uint64{1, 2}, got)
}

func TestTermRangeSearcherExclusiveLow(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "banana")),
		doc(textField("title", "cherry")),
	)

	s, err := NewTermRangeSearcher(r, []byte("banana"), []byte("cherry"), false, true,
		"title", 1.0, nil, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	got := docNumbers(t, newCtx(), s)
	assert.Equal(t, []uint64{1}, got)
}

func TestNumericRangeSearcher(t *testing.T) {
	r := openTestReader(t,
		doc(numField("price", 1)),
		doc(numField("price", 3)),
		doc(numField("price", 7)),
		doc(numField("price", 9)),
	)

	s, err := NewNumericRangeSearcher(r, 2, 8, true, true, "price", 1.0, nil,
		similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	got := docNumbers(t, newCtx(), s)
	assert.Equal(t, []uint64{1, 2}, got)
}

func TestFuzzySearcherExpandsWithinEditDistance(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "cat")),  // distance 0
		doc(textField("title", "bat")),  // distance 1 (substitute c->b)
		doc(textField("title", "dogs")), // distance 4, excluded
	)

	s, err := NewFuzzySearcher(r, "cat", 0, 1, "title", 1.0, nil,
		similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	got := docNumbers(t, newCtx(), s)
	assert.Equal(t, []uint64{0, 1}, got)
}

func TestFuzzySearcherExactOnlyAtZeroFuzziness(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "cat")),
		doc(textField("title", "bat")),
	)

	s, err := NewFuzzySearcher(r, "cat", 0, 0, "title", 1.0, nil,
		similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	got := docNumbers(t, newCtx(), s)
	assert.Equal(t, []uint64{0}, got)
}

func TestRegexpSearcher(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "foo123")),
		doc(textField("title", "foo456")),
		doc(textField("title", "bar789")),
	)

	s, err := NewRegexpSearcher(r, "foo[0-9]+", "title", 1.0, nil, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	got := docNumbers(t, newCtx(), s)
	assert.Equal(t, []uint64{0, 1}, got)
}
