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
	"github.com/kelpsearch/kelp/segment"
)

// defaultSimilarity backs any field whose SearcherOptions doesn't name a
// Similarity explicitly (spec §4.4's "BM25F default").
var defaultSimilarity = similarity.NewBM25Similarity()

// TermSearcher is the leaf matcher of spec §4.3: one term in one field,
// backed directly by a segment.PostingsIterator.
//
// Grounded on search/searcher/search_term.go.
type TermSearcher struct {
	indexReader search.Reader
	reader      segment.PostingsIterator
	options     search.SearcherOptions
	scorer      search.Scorer
	queryTerm   string
}

// NewTermSearcher builds a TermSearcher for term within field.
func NewTermSearcher(indexReader search.Reader, term, field string, boost float64,
	scorer search.Scorer, options search.SearcherOptions) (*TermSearcher, error) {
	return NewTermSearcherBytes(indexReader, []byte(term), field, boost, scorer, options)
}

// NewTermSearcherBytes is NewTermSearcher for a raw term byte string.
func NewTermSearcherBytes(indexReader search.Reader, term []byte, field string, boost float64,
	scorer search.Scorer, options search.SearcherOptions) (*TermSearcher, error) {
	needFreqNorm := options.Score != "none"
	reader, err := indexReader.PostingsIterator(term, field, needFreqNorm, needFreqNorm, options.IncludeTermVectors)
	if err != nil {
		return nil, err
	}
	return newTermSearcherFromReader(indexReader, reader, term, field, boost, scorer, options)
}

type termStatsWrapper struct {
	docFreq uint64
}

func (t *termStatsWrapper) DocumentFrequency() uint64 { return t.docFreq }

func newTermSearcherFromReader(indexReader search.Reader, reader segment.PostingsIterator,
	term []byte, field string, boost float64, scorer search.Scorer,
	options search.SearcherOptions) (*TermSearcher, error) {
	if scorer == nil {
		collStats, err := indexReader.CollectionStats(field)
		if err != nil {
			return nil, err
		}
		sim := options.SimilarityOrDefault(field, defaultSimilarity)
		scorer = sim.Scorer(boost, collStats, &termStatsWrapper{docFreq: reader.Count()})
	}
	return &TermSearcher{
		indexReader: indexReader,
		reader:      reader,
		scorer:      scorer,
		options:     options,
		queryTerm:   string(term),
	}, nil
}

func (s *TermSearcher) Count() uint64 { return s.reader.Count() }

func (s *TermSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	p, err := s.reader.Next()
	if err != nil || p == nil {
		return nil, err
	}
	return s.buildDocumentMatch(ctx, p), nil
}

func (s *TermSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	p, err := s.reader.Advance(number)
	if err != nil || p == nil {
		return nil, err
	}
	return s.buildDocumentMatch(ctx, p), nil
}

func (s *TermSearcher) Close() error { return s.reader.Close() }

func (s *TermSearcher) Min() int { return 0 }

func (s *TermSearcher) DocumentMatchPoolSize() int { return 1 }

// Optimize exposes the teacher's bitmap-folding push-down when the
// underlying iterator supports it; this module doesn't drive Optimize
// from the collector loop (see DESIGN.md), but leaf searchers still
// forward it so a caller building one directly can use it.
func (s *TermSearcher) Optimize(kind string, octx segment.OptimizableContext) (segment.OptimizableContext, error) {
	if o, ok := s.reader.(segment.Optimizable); ok {
		return o.Optimize(kind, octx)
	}
	return nil, nil
}

func (s *TermSearcher) buildDocumentMatch(ctx *search.Context, p segment.Posting) *search.DocumentMatch {
	rv := ctx.DocumentMatchPool.Get()
	rv.SetReader(s.indexReader)
	rv.Number = p.Number()

	if s.options.Explain {
		rv.Explanation = s.scorer.Explain(p.Frequency(), p.Norm())
		rv.Score = rv.Explanation.Value
	} else {
		rv.Score = s.scorer.Score(p.Frequency(), p.Norm())
	}

	if locs := p.Locations(); len(locs) > 0 {
		if cap(rv.FieldTermLocations) < len(locs) {
			rv.FieldTermLocations = make([]search.FieldTermLocation, 0, len(locs))
		}
		for _, loc := range locs {
			rv.FieldTermLocations = append(rv.FieldTermLocations, search.FieldTermLocation{
				Field: loc.Field(),
				Term:  s.queryTerm,
				Location: search.Location{
					Pos:   loc.Pos(),
					Start: loc.Start(),
					End:   loc.End(),
				},
			})
		}
	}

	return rv
}

var _ search.Searcher = (*TermSearcher)(nil)
