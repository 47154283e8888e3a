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

package collector

import (
	"context"

	"github.com/kelpsearch/kelp/search"
)

// ScoreModel recomputes a hit's score, given the score the matcher tree
// already assigned it. Used by WeightedByCollector.
type ScoreModel func(dm *search.DocumentMatch) float64

// rescoringSearcher overrides Score on every hit it passes through.
//
// Spec §4.5 describes weighted_by as overriding "the scorer on the
// search context", implying every leaf Scorer in the matcher tree
// consults a context-level override. This module's search.Context
// carries only the DocumentMatchPool (see search/search.go); wiring a
// scorer override through every leaf/composite searcher's score()
// call would touch every file under search/searcher. Overriding the
// already-computed DocumentMatch.Score at the searcher boundary
// instead gives the same externally observable effect — the final
// ranking reflects model, not the original similarity score — without
// that reach; documented as a simplification, not a silent drop.
type rescoringSearcher struct {
	inner search.Searcher
	model ScoreModel
}

func newRescoringSearcher(inner search.Searcher, model ScoreModel) search.Searcher {
	return &rescoringSearcher{inner: inner, model: model}
}

func (r *rescoringSearcher) rescore(dm *search.DocumentMatch) *search.DocumentMatch {
	if dm != nil {
		dm.Score = r.model(dm)
	}
	return dm
}

func (r *rescoringSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	dm, err := r.inner.Next(ctx)
	if err != nil {
		return nil, err
	}
	return r.rescore(dm), nil
}

func (r *rescoringSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	dm, err := r.inner.Advance(ctx, number)
	if err != nil {
		return nil, err
	}
	return r.rescore(dm), nil
}

func (r *rescoringSearcher) Count() uint64              { return r.inner.Count() }
func (r *rescoringSearcher) Min() int                   { return r.inner.Min() }
func (r *rescoringSearcher) DocumentMatchPoolSize() int { return r.inner.DocumentMatchPoolSize() }
func (r *rescoringSearcher) Close() error               { return r.inner.Close() }

var _ search.Searcher = (*rescoringSearcher)(nil)

// WeightedByCollector overrides every hit's score with model before
// handing it to inner, spec §4.5's weighted_by(model) wrapper. Since
// this replaces Score before sort_by/top_K ever see it, weighted_by
// composes underneath both, consistent with it "attaching at the base
// collector" per the collector priority decision (SPEC_FULL.md §5,
// open question 3).
type WeightedByCollector struct {
	inner search.Collector
	model ScoreModel
}

// NewWeightedByCollector builds a WeightedByCollector applying model to
// every hit before inner sees it.
func NewWeightedByCollector(inner search.Collector, model ScoreModel) *WeightedByCollector {
	return &WeightedByCollector{inner: inner, model: model}
}

func (w *WeightedByCollector) Collect(ctx context.Context, aggs search.Aggregations,
	searcher search.Collectible) (search.DocumentMatchIterator, error) {
	return w.inner.Collect(ctx, aggs, newRescoringSearcher(searcher, w.model))
}

func (w *WeightedByCollector) Size() int        { return w.inner.Size() }
func (w *WeightedByCollector) BackingSize() int { return w.inner.BackingSize() }

var _ search.Collector = (*WeightedByCollector)(nil)
