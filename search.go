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

package kelp

import (
	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/search/collector"
)

// SearchRequest is what Reader.Search runs: a Query plus how to collect
// its matches, spec §5.3's search entry point.
//
// Grounded on bluge/search.go's SearchRequest, trimmed to this module's
// collector set (no TopNCollectorAfter/Before cursor pagination and no
// standard duration/max_score aggregation bundle: neither has a
// constructor in search/collector or search/aggregations, see
// DESIGN.md).
type SearchRequest interface {
	Collector() search.Collector
	Searcher(i search.Reader, config Config) (search.Searcher, error)
	AddAggregation(name string, aggregation search.Aggregation)
	Aggregations() search.Aggregations
}

// SearchOptions carries the per-request scoring/explain knobs every
// SearchRequest shares.
type SearchOptions struct {
	ExplainScores    bool
	IncludeLocations bool
}

// BaseSearch is the common Query/options/aggregations state every
// concrete SearchRequest embeds.
type BaseSearch struct {
	query        Query
	options      SearchOptions
	aggregations search.Aggregations
}

func (b BaseSearch) Query() Query { return b.query }

func (b BaseSearch) Options() SearchOptions { return b.options }

func (b BaseSearch) Aggregations() search.Aggregations { return b.aggregations }

func (b BaseSearch) Searcher(i search.Reader, config Config) (search.Searcher, error) {
	return b.query.Searcher(i, searchOptionsFromConfig(config, b.options))
}

func searchOptionsFromConfig(config Config, options SearchOptions) search.SearcherOptions {
	return search.SearcherOptions{
		SimilarityForField: config.SimilarityForField,
		DefaultSearchField: config.DefaultSearchField,
		Explain:            options.ExplainScores,
		IncludeTermVectors: options.IncludeLocations,
	}
}

// TopNSearch is spec §8's ranked-retrieval entry point: run q and
// return the top N matches by sort order, with optional skip for
// pagination.
//
// Grounded on bluge/search.go's TopNSearch, dropping After/Before
// (cursor pagination has no collector.NewTopNCollectorAfter in this
// module, see DESIGN.md) in favor of plain skip, which
// collector.NewTopNCollector already supports directly.
type TopNSearch struct {
	BaseSearch
	n    int
	from int
	sort search.SortOrder
}

// NewTopNSearch builds a request for the top n matches of q, sorted by
// descending score.
func NewTopNSearch(n int, q Query) *TopNSearch {
	return &TopNSearch{
		BaseSearch: BaseSearch{query: q, aggregations: make(search.Aggregations)},
		n:          n,
		sort:       search.ScoreSortOrder,
	}
}

// Size returns the number of matches this request returns.
func (s *TopNSearch) Size() int { return s.n }

// SetFrom sets the number of top-ranked matches to skip, for pagination.
func (s *TopNSearch) SetFrom(from int) *TopNSearch {
	s.from = from
	return s
}

// From returns the number of matches that will be skipped.
func (s *TopNSearch) From() int { return s.from }

// SortByCustom sets the sort order used to rank matches.
func (s *TopNSearch) SortByCustom(order search.SortOrder) *TopNSearch {
	s.sort = order
	return s
}

// SortOrder returns this request's sort order.
func (s *TopNSearch) SortOrder() search.SortOrder { return s.sort }

// ExplainScores requests a scoring Explanation on every match.
func (s *TopNSearch) ExplainScores() *TopNSearch {
	s.options.ExplainScores = true
	return s
}

// IncludeLocations requests per-match term locations (spec §3's
// highlight_matches).
func (s *TopNSearch) IncludeLocations() *TopNSearch {
	s.options.IncludeLocations = true
	return s
}

// AddAggregation attaches a named aggregation to run alongside this
// request's matches.
func (s *TopNSearch) AddAggregation(name string, aggregation search.Aggregation) {
	s.aggregations.Add(name, aggregation)
}

// Collector builds the collector this request's Reader.Search call
// drives: a TopNCollector bounded to n matches after skipping from.
func (s *TopNSearch) Collector() search.Collector {
	return collector.NewTopNCollector(s.n, s.from, s.sort)
}

// AllMatches is spec §8's unranked Boolean-retrieval entry point: every
// matching document, in whatever order the searcher tree produces them.
type AllMatches struct {
	BaseSearch
}

// NewAllMatches builds a request for every match of q.
func NewAllMatches(q Query) *AllMatches {
	return &AllMatches{BaseSearch: BaseSearch{query: q, aggregations: make(search.Aggregations)}}
}

// ExplainScores requests a scoring Explanation on every match.
func (s *AllMatches) ExplainScores() *AllMatches {
	s.options.ExplainScores = true
	return s
}

// IncludeLocations requests per-match term locations.
func (s *AllMatches) IncludeLocations() *AllMatches {
	s.options.IncludeLocations = true
	return s
}

// AddAggregation attaches a named aggregation to run alongside this
// request's matches.
func (s *AllMatches) AddAggregation(name string, aggregation search.Aggregation) {
	s.aggregations.Add(name, aggregation)
}

// Collector builds an AllCollector, which returns every match without
// sorting or limiting them.
func (s *AllMatches) Collector() search.Collector {
	return collector.NewAllCollector()
}
