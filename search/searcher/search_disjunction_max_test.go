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
)

func TestDisjunctionMaxSearcherMatchesEitherClause(t *testing.T) {
	r := openTestReader(t,
		doc(textField("title", "red", "fox")),
		doc(textField("title", "blue", "dog")),
		doc(textField("title", "green", "cat")),
	)

	dm, err := NewDisjunctionMaxSearcher([]search.Searcher{
		mustTermSearcher(t, r, "fox", "title"),
		mustTermSearcher(t, r, "dog", "title"),
	}, 0.5, 1.0, defaultOptions())
	require.NoError(t, err)
	defer dm.Close()

	assert.Equal(t, []uint64{0, 1}, docNumbers(t, newCtx(), dm))
}

func TestDisjunctionMaxSearcherZeroTiebreakScoresOnlyBestClause(t *testing.T) {
	// doc 0 matches "fox" in both fields, with different frequency in
	// each so the two clauses score differently.
	r := openTestReader(t,
		doc(
			textField("title", "fox"),
			textField("body", "fox", "fox", "fox"),
		),
	)

	titleScore, err := mustTermSearcher(t, r, "fox", "title").Next(newCtx())
	require.NoError(t, err)
	require.NotNil(t, titleScore)
	bodyScore, err := mustTermSearcher(t, r, "fox", "body").Next(newCtx())
	require.NoError(t, err)
	require.NotNil(t, bodyScore)
	want := titleScore.Score
	if bodyScore.Score > want {
		want = bodyScore.Score
	}

	dm, err := NewDisjunctionMaxSearcher([]search.Searcher{
		mustTermSearcher(t, r, "fox", "title"),
		mustTermSearcher(t, r, "fox", "body"),
	}, 0, 1.0, defaultOptions())
	require.NoError(t, err)
	defer dm.Close()

	got, err := dm.Next(newCtx())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, want, got.Score, 1e-9)
}
