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
	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/search/similarity"
)

// NewDisjunctionMaxSearcher builds the DisjunctionMax matcher of spec
// §4.3: like Union, but scored as max(child scores) +
// tiebreak*(sum-max) instead of a plain sum. Reuses DisjunctionSearcher
// verbatim (min=1, plain OR semantics) with a CompositeMaxScorer in
// place of the usual CompositeSumScorer — the two searchers differ only
// in the CompositeScorer the collector-facing buildDocumentMatch calls,
// so no new matching logic is needed, only the new scorer.
func NewDisjunctionMaxSearcher(qsearchers []search.Searcher, tiebreak, boost float64,
	options search.SearcherOptions) (search.Searcher, error) {
	scorer := similarity.NewCompositeMaxScorerWithBoost(tiebreak, boost)
	return NewDisjunctionSearcher(qsearchers, 1, scorer, options)
}
