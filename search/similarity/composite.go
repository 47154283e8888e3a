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

import "github.com/kelpsearch/kelp/search"

// CompositeSumScorer sums constituent scores, the default CompositeScorer
// for boolean/conjunction/disjunction composition (spec §4.3's "Score =
// sum of child scores").
//
// Grounded on search/similarity/composite.go.
type CompositeSumScorer struct {
	boost float64
}

// NewCompositeSumScorer builds an unboosted CompositeSumScorer.
func NewCompositeSumScorer() *CompositeSumScorer {
	return &CompositeSumScorer{boost: 1.0}
}

// NewCompositeSumScorerWithBoost builds a boosted CompositeSumScorer.
func NewCompositeSumScorerWithBoost(boost float64) *CompositeSumScorer {
	return &CompositeSumScorer{boost: boost}
}

func (c *CompositeSumScorer) ScoreComposite(constituents []*search.DocumentMatch) float64 {
	var sum float64
	for _, m := range constituents {
		if m != nil {
			sum += m.Score
		}
	}
	return sum * c.boost
}

func (c *CompositeSumScorer) ExplainComposite(constituents []*search.DocumentMatch) *search.Explanation {
	var sum float64
	var children []*search.Explanation
	for _, m := range constituents {
		if m == nil {
			continue
		}
		sum += m.Score
		children = append(children, m.Explanation)
	}
	if c.boost == 1 {
		return search.NewExplanation(sum, "sum of:", children...)
	}
	return search.NewExplanation(sum*c.boost, "computed as boost * sum",
		search.NewExplanation(c.boost, "boost"),
		search.NewExplanation(sum, "sum of:", children...))
}

var _ search.CompositeScorer = (*CompositeSumScorer)(nil)

// CompositeMaxScorer scores constituents as max(child scores) +
// tiebreak*(sum-max), the DisjunctionMax combination of spec §4.3: the
// best single clause dominates, with a small contribution from the
// other matching clauses so that a document matching more clauses at
// similar strength still out-ranks one matching a single clause.
//
// Grounded on search/similarity/composite.go's CompositeSumScorer,
// generalized for the tiebreak term (bluge has no DisjunctionMax
// scorer of its own to port; this is reconstructed directly from the
// spec's formula).
type CompositeMaxScorer struct {
	boost    float64
	tiebreak float64
}

// NewCompositeMaxScorer builds an unboosted CompositeMaxScorer with the
// given tiebreak multiplier.
func NewCompositeMaxScorer(tiebreak float64) *CompositeMaxScorer {
	return &CompositeMaxScorer{boost: 1.0, tiebreak: tiebreak}
}

// NewCompositeMaxScorerWithBoost builds a boosted CompositeMaxScorer.
func NewCompositeMaxScorerWithBoost(tiebreak, boost float64) *CompositeMaxScorer {
	return &CompositeMaxScorer{boost: boost, tiebreak: tiebreak}
}

func (c *CompositeMaxScorer) maxAndSum(constituents []*search.DocumentMatch) (max, sum float64) {
	for _, m := range constituents {
		if m == nil {
			continue
		}
		sum += m.Score
		if m.Score > max {
			max = m.Score
		}
	}
	return max, sum
}

func (c *CompositeMaxScorer) ScoreComposite(constituents []*search.DocumentMatch) float64 {
	max, sum := c.maxAndSum(constituents)
	return (max + c.tiebreak*(sum-max)) * c.boost
}

func (c *CompositeMaxScorer) ExplainComposite(constituents []*search.DocumentMatch) *search.Explanation {
	max, sum := c.maxAndSum(constituents)
	var children []*search.Explanation
	for _, m := range constituents {
		if m == nil {
			continue
		}
		children = append(children, m.Explanation)
	}
	value := (max + c.tiebreak*(sum-max)) * c.boost
	return search.NewExplanation(value, "max plus tiebreak*(sum-max) of:", children...)
}

var _ search.CompositeScorer = (*CompositeMaxScorer)(nil)
