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

// ConstantScorer always returns the same score, used by filter-only
// clauses (spec §4.3's List/Iterator leaves) and by the "constant-score
// variant... provided for completeness" named in spec §4.4.
//
// Grounded on search/similarity/constant.go.
type ConstantScorer float64

func (c ConstantScorer) Score(_ int, _ float64) float64 { return float64(c) }

func (c ConstantScorer) Explain(_ int, _ float64) *search.Explanation {
	return search.NewExplanation(float64(c), "constant")
}

func (c ConstantScorer) ScoreComposite(_ []*search.DocumentMatch) float64 { return float64(c) }

func (c ConstantScorer) ExplainComposite(_ []*search.DocumentMatch) *search.Explanation {
	return search.NewExplanation(float64(c), "constant")
}

var _ search.Scorer = ConstantScorer(0)
var _ search.CompositeScorer = ConstantScorer(0)
