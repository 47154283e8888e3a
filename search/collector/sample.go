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
	"math/rand"
	"sort"

	"github.com/kelpsearch/kelp/search"
)

// sampleSearcher reservoir-samples down to n hits (Algorithm R): every
// hit has equal probability n/seen of surviving regardless of how many
// hits the stream turns out to hold, without needing to know that count
// in advance. Like bucketCappedSearcher, it must drain the inner
// searcher fully before it can answer Next — which of the early hits
// the reservoir keeps isn't decided until the last hit is seen — then
// re-sorts survivors by Number to preserve Searcher.Next's ascending
// contract for anything layered on top.
//
// No third-party RNG is part of this module's dependency pack; a
// seedable math/rand.Rand is the stdlib's own documented mechanism for
// exactly this case and needs no justification beyond that it's the
// only candidate.
type sampleSearcher struct {
	inner search.Searcher
	n     int
	rng   *rand.Rand

	drained bool
	queue   []*search.DocumentMatch
	pos     int
}

func newSampleSearcher(inner search.Searcher, n int, rng *rand.Rand) *sampleSearcher {
	return &sampleSearcher{inner: inner, n: n, rng: rng}
}

func (s *sampleSearcher) drain(ctx *search.Context) error {
	if s.drained {
		return nil
	}
	s.drained = true

	reservoir := make([]*search.DocumentMatch, 0, s.n)
	var seen int
	for {
		dm, err := s.inner.Next(ctx)
		if err != nil {
			return err
		}
		if dm == nil {
			break
		}
		seen++
		if len(reservoir) < s.n {
			reservoir = append(reservoir, dm)
			continue
		}
		if j := s.rng.Intn(seen); j < s.n {
			ctx.DocumentMatchPool.Put(reservoir[j])
			reservoir[j] = dm
		} else {
			ctx.DocumentMatchPool.Put(dm)
		}
	}

	sort.Slice(reservoir, func(i, j int) bool { return reservoir[i].Number < reservoir[j].Number })
	s.queue = reservoir
	return nil
}

func (s *sampleSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	if err := s.drain(ctx); err != nil {
		return nil, err
	}
	if s.pos >= len(s.queue) {
		return nil, nil
	}
	dm := s.queue[s.pos]
	s.pos++
	return dm, nil
}

func (s *sampleSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	if err := s.drain(ctx); err != nil {
		return nil, err
	}
	for s.pos < len(s.queue) && s.queue[s.pos].Number < number {
		s.pos++
	}
	return s.Next(ctx)
}

func (s *sampleSearcher) Count() uint64              { return s.inner.Count() }
func (s *sampleSearcher) Min() int                   { return s.inner.Min() }
func (s *sampleSearcher) DocumentMatchPoolSize() int { return s.inner.DocumentMatchPoolSize() }
func (s *sampleSearcher) Close() error               { return s.inner.Close() }

var _ search.Searcher = (*sampleSearcher)(nil)

// SampleCollector reservoir-samples the hit stream down to n before
// handing the survivors to inner, spec §4.5's sample(n). Per the
// collector priority decision it attaches at the base collector rather
// than participating in the filter/collapse/group_by/sort_by/top_K
// ordering.
type SampleCollector struct {
	inner search.Collector
	n     int
	rng   *rand.Rand
}

// NewSampleCollector builds a SampleCollector using the package-level
// math/rand source. Use NewSampleCollectorWithRand for a reproducible
// seed in tests.
func NewSampleCollector(inner search.Collector, n int) *SampleCollector {
	return NewSampleCollectorWithRand(inner, n, rand.New(rand.NewSource(rand.Int63())))
}

// NewSampleCollectorWithRand builds a SampleCollector sampling with rng.
func NewSampleCollectorWithRand(inner search.Collector, n int, rng *rand.Rand) *SampleCollector {
	return &SampleCollector{inner: inner, n: n, rng: rng}
}

func (s *SampleCollector) Collect(ctx context.Context, aggs search.Aggregations,
	searcher search.Collectible) (search.DocumentMatchIterator, error) {
	return s.inner.Collect(ctx, aggs, newSampleSearcher(searcher, s.n, s.rng))
}

func (s *SampleCollector) Size() int        { return s.inner.Size() }
func (s *SampleCollector) BackingSize() int { return s.inner.BackingSize() }

var _ search.Collector = (*SampleCollector)(nil)
