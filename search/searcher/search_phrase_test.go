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

func TestPhraseSearcherRequiresExactOrderAndAdjacency(t *testing.T) {
	r := openTestReader(t,
		doc(textField("content", "alpha", "bravo", "charlie")), // 0: matches "bravo charlie"
		doc(textField("content", "charlie", "bravo", "alpha")), // 1: wrong order
		doc(textField("content", "bravo", "alpha", "charlie")), // 2: not adjacent
	)

	s, err := NewPhraseSearcher(r, []string{"bravo", "charlie"}, "content", 1.0,
		similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []uint64{0}, docNumbers(t, newCtx(), s))
}

func TestPhraseSearcherReversedTermsMatchNothing(t *testing.T) {
	r := openTestReader(t,
		doc(textField("content", "alpha", "bravo", "charlie")),
	)

	s, err := NewPhraseSearcher(r, []string{"charlie", "bravo"}, "content", 1.0,
		similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	assert.Empty(t, docNumbers(t, newCtx(), s))
}

func TestSloppyPhraseSearcherToleratesGap(t *testing.T) {
	r := openTestReader(t,
		// bravo at pos 1, charlie at pos 3: one word ("noise") between
		// them, a displacement of 1 from the exact-phrase position.
		doc(textField("content", "alpha", "bravo", "noise", "charlie")),
		// bravo at pos 1, charlie at pos 4: displacement of 2.
		doc(textField("content", "alpha", "bravo", "noise", "noise", "charlie")),
	)

	tight, err := NewSloppyPhraseSearcher(r, []string{"bravo", "charlie"}, "content", 0, 1.0,
		similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer tight.Close()
	assert.Empty(t, docNumbers(t, newCtx(), tight))

	loose, err := NewSloppyPhraseSearcher(r, []string{"bravo", "charlie"}, "content", 1, 1.0,
		similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer loose.Close()
	assert.Equal(t, []uint64{0}, docNumbers(t, newCtx(), loose))
}
