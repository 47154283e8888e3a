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

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollectionStats struct {
	docCount uint64
	sumTTF   uint64
}

func (s fakeCollectionStats) DocumentCount() uint64        { return s.docCount }
func (s fakeCollectionStats) SumTotalTermFrequency() uint64 { return s.sumTTF }

type fakeTermStats struct {
	docFreq uint64
}

func (s fakeTermStats) DocumentFrequency() uint64 { return s.docFreq }

func TestBM25ScorerHigherFrequencyScoresHigher(t *testing.T) {
	sim := NewBM25Similarity()
	collStats := fakeCollectionStats{docCount: 100, sumTTF: 1000}
	termStats := fakeTermStats{docFreq: 10}

	scorer := sim.Scorer(1.0, collStats, termStats)
	norm := sim.ComputeNorm(10)

	low := scorer.Score(1, norm)
	high := scorer.Score(5, norm)
	assert.Greater(t, high, low)
}

func TestBM25ScorerRarerTermScoresHigher(t *testing.T) {
	sim := NewBM25Similarity()
	collStats := fakeCollectionStats{docCount: 100, sumTTF: 1000}
	norm := sim.ComputeNorm(10)

	common := sim.Scorer(1.0, collStats, fakeTermStats{docFreq: 50}).Score(2, norm)
	rare := sim.Scorer(1.0, collStats, fakeTermStats{docFreq: 2}).Score(2, norm)
	assert.Greater(t, rare, common)
}

func TestBM25ScorerExplainMatchesScore(t *testing.T) {
	sim := NewBM25Similarity()
	collStats := fakeCollectionStats{docCount: 50, sumTTF: 500}
	scorer := sim.Scorer(1.0, collStats, fakeTermStats{docFreq: 5})
	norm := sim.ComputeNorm(8)

	score := scorer.Score(3, norm)
	explanation := scorer.Explain(3, norm)
	require.NotNil(t, explanation)
	assert.InDelta(t, score, explanation.Value, 1e-9)
}

func TestBM25ComputeNormIncreasesWithLength(t *testing.T) {
	sim := NewBM25Similarity()
	short := sim.ComputeNorm(3)
	long := sim.ComputeNorm(300)
	assert.Greater(t, long, short)
}

func TestBM25ZeroCollectionDoesNotPanic(t *testing.T) {
	sim := NewBM25Similarity()
	scorer := sim.Scorer(1.0, fakeCollectionStats{}, fakeTermStats{})
	assert.NotPanics(t, func() {
		scorer.Score(1, sim.ComputeNorm(1))
	})
}
