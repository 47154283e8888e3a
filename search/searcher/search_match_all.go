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
	"github.com/kelpsearch/kelp/segment"
)

// MatchAllSearcher is spec §6's Every(field?) query: every document,
// via an unconstrained postings iterator over field (or the whole
// index when field is "").
//
// Grounded on search/searcher/search_match_all.go.
type MatchAllSearcher struct {
	reader      segment.PostingsIterator
	scorer      search.Scorer
	indexReader search.Reader
	options     search.SearcherOptions
}

// NewMatchAllSearcher builds a MatchAllSearcher over field.
func NewMatchAllSearcher(indexReader search.Reader, field string, boost float64,
	scorer search.Scorer, options search.SearcherOptions) (*MatchAllSearcher, error) {
	reader, err := indexReader.PostingsIterator(nil, field, false, false, false)
	if err != nil {
		return nil, err
	}
	return &MatchAllSearcher{
		indexReader: indexReader,
		reader:      reader,
		scorer:      scorer,
		options:     options,
	}, nil
}

func (s *MatchAllSearcher) Count() uint64 { return s.reader.Count() }

func (s *MatchAllSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	p, err := s.reader.Next()
	if err != nil || p == nil {
		return nil, err
	}
	return s.buildDocumentMatch(ctx, p), nil
}

func (s *MatchAllSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	p, err := s.reader.Advance(number)
	if err != nil || p == nil {
		return nil, err
	}
	return s.buildDocumentMatch(ctx, p), nil
}

func (s *MatchAllSearcher) Close() error { return s.reader.Close() }

func (s *MatchAllSearcher) Min() int { return 0 }

func (s *MatchAllSearcher) DocumentMatchPoolSize() int { return 1 }

func (s *MatchAllSearcher) buildDocumentMatch(ctx *search.Context, p segment.Posting) *search.DocumentMatch {
	rv := ctx.DocumentMatchPool.Get()
	rv.SetReader(s.indexReader)
	rv.Number = p.Number()

	if s.options.Explain {
		rv.Explanation = s.scorer.Explain(p.Frequency(), p.Norm())
		rv.Score = rv.Explanation.Value
	} else {
		rv.Score = s.scorer.Score(p.Frequency(), p.Norm())
	}
	return rv
}

var _ search.Searcher = (*MatchAllSearcher)(nil)
