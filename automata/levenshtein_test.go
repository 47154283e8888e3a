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

package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactAutomatonMatchesOnlyItsTerm(t *testing.T) {
	a, err := New("cat", 0)
	require.NoError(t, err)

	assert.True(t, Contains(a, []byte("cat")))
	assert.False(t, Contains(a, []byte("cats")))
	assert.False(t, Contains(a, []byte("bat")))
	assert.False(t, Contains(a, []byte("ca")))
}

func TestNewRejectsNegativeEdits(t *testing.T) {
	_, err := New("cat", -1)
	assert.Error(t, err)
}

func TestNewRejectsEditsAboveMax(t *testing.T) {
	_, err := New("cat", MaxEdits+1)
	assert.Error(t, err)
}

func TestLevenshteinDfaAcceptsWithinEditDistance(t *testing.T) {
	a, err := New("cat", 1)
	require.NoError(t, err)

	assert.True(t, Contains(a, []byte("cat")))
	assert.True(t, Contains(a, []byte("bat")))
	assert.True(t, Contains(a, []byte("cats")))
	assert.False(t, Contains(a, []byte("dogs")))
}

func TestLadderIsDescendingAndEachRungIsTighter(t *testing.T) {
	ladder, err := Ladder("cat", 2)
	require.NoError(t, err)
	require.Len(t, ladder, 2)

	// "cot" (edit distance 1 from "cat") matches both rungs; "dogs"
	// (edit distance 4) matches neither.
	assert.True(t, Contains(ladder[0], []byte("cot")))
	assert.True(t, Contains(ladder[1], []byte("cot")))
	assert.False(t, Contains(ladder[0], []byte("dogs")))
	assert.False(t, Contains(ladder[1], []byte("dogs")))

	// "caats" is edit distance 2 from "cat": matches the maxEdits=2 rung
	// but not the maxEdits=1 rung, letting boostFromDistance tell them
	// apart.
	assert.True(t, Contains(ladder[0], []byte("caats")))
	assert.False(t, Contains(ladder[1], []byte("caats")))
}
