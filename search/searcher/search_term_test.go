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

func TestTermSearcherMatchesAndScores(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "red", "fox")),
		doc(textField("title", "blue", "fox")),
		doc(textField("title", "red", "dog")),
	)

	s, err := NewTermSearcher(r, "fox", "title", 1.0, nil, defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	assert.EqualValues(t, 2, s.Count())

	ctx := newCtx()
	got := docNumbers(t, ctx, s)
	assert.Equal(t, []uint64{0, 1}, got)
}

func TestTermSearcherAdvanceSkipsAhead(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "fox")),
		doc(textField("title", "cat")),
		doc(textField("title", "fox")),
	)

	s, err := NewTermSearcher(r, "fox", "title", 1.0, nil, defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	ctx := newCtx()
	dm, err := s.Advance(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, dm)
	assert.EqualValues(t, 2, dm.Number)

	dm, err = s.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, dm)
}

func TestTermSearcherNoMatches(t *testing.T) {
	r := openTestReader(t, doc(textField("title", "fox")))

	s, err := NewTermSearcher(r, "zebra", "title", 1.0, nil, defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	assert.EqualValues(t, 0, s.Count())
	dm, err := s.Next(newCtx())
	require.NoError(t, err)
	assert.Nil(t, dm)
}

func TestMatchAllAndMatchNone(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "fox")),
		doc(textField("title", "dog")),
	)

	all, err := NewMatchAllSearcher(r, "title", 1.0, similarity.ConstantScorer(1.0), defaultOptions())
	require.NoError(t, err)
	defer all.Close()
	assert.Equal(t, []uint64{0, 1}, docNumbers(t, newCtx(), all))

	none, err := NewMatchNoneSearcher()
	require.NoError(t, err)
	defer none.Close()
	assert.Empty(t, docNumbers(t, newCtx(), none))
	assert.EqualValues(t, 0, none.Count())
}
