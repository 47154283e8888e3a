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
	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/segment"
)

// FrequencySimilarity scores a clause by its raw term frequency alone,
// the plain-frequency variant spec §4.4 names alongside TF-IDF and
// constant-score as "provided for completeness": no IDF weighting, no
// length normalization, score = boost * freq. Useful for debugging a
// query's matcher tree independent of corpus statistics, or for fields
// where every document's term distribution is already uniform enough
// that IDF adds nothing (e.g. a small closed tag vocabulary).
type FrequencySimilarity struct{}

// NewFrequencySimilarity builds a FrequencySimilarity.
func NewFrequencySimilarity() *FrequencySimilarity { return &FrequencySimilarity{} }

// ComputeNorm is unused by FrequencyScorer, which ignores norm entirely;
// it returns 0 rather than packing a length, matching ConstantScorer.
func (s *FrequencySimilarity) ComputeNorm(int) float64 { return 0 }

func (s *FrequencySimilarity) Scorer(boost float64, _ segment.CollectionStats, _ segment.TermStats) search.Scorer {
	return NewFrequencyScorer(boost)
}

// FrequencyScorer is the Scorer FrequencySimilarity.Scorer builds.
type FrequencyScorer struct {
	boost float64
}

// NewFrequencyScorer builds a scorer returning boost * freq.
func NewFrequencyScorer(boost float64) *FrequencyScorer {
	return &FrequencyScorer{boost: boost}
}

func (s *FrequencyScorer) Score(freq int, _ float64) float64 {
	return s.boost * float64(freq)
}

func (s *FrequencyScorer) Explain(freq int, _ float64) *search.Explanation {
	children := []*search.Explanation{
		search.NewExplanation(float64(freq), "freq, occurrences of term within document"),
	}
	if s.boost != noBoost {
		children = append(children, search.NewExplanation(s.boost, "boost"))
	}
	return search.NewExplanation(s.Score(freq, 0), "score, computed as boost * freq from:", children...)
}

var _ search.Similarity = (*FrequencySimilarity)(nil)
var _ search.Scorer = (*FrequencyScorer)(nil)
