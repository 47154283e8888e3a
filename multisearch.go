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
	"context"
	"fmt"

	"github.com/kelpsearch/kelp/search"
)

// multiSearcherList runs a list of per-reader searchers to exhaustion in
// sequence, presenting them to a collector as a single Searcher. Document
// numbers are only ever compared within the reader that produced them, so
// this never needs (and cannot meaningfully support) a cross-reader
// Advance; it only has to satisfy search.Searcher's shape, since
// collectors drive the top-level searcher through Next alone (see
// search/collector/topn.go and all.go).
//
// Grounded on bluge/multisearch.go's MultiSearcherList.
type multiSearcherList struct {
	searchers []search.Searcher
	index     int
	err       error
}

var _ search.Searcher = (*multiSearcherList)(nil)

func newMultiSearcherList(searchers []search.Searcher) *multiSearcherList {
	return &multiSearcherList{searchers: searchers}
}

func (m *multiSearcherList) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.index >= len(m.searchers) {
		return nil, nil
	}
	dm, err := m.searchers[m.index].Next(ctx)
	if err != nil {
		m.err = err
		return nil, err
	}
	if dm == nil {
		m.index++
		return m.Next(ctx)
	}
	return dm, nil
}

// Advance is not meaningful across independently-numbered readers; no
// caller of a top-level multiSearcherList ever invokes it.
func (m *multiSearcherList) Advance(ctx *search.Context, _ uint64) (*search.DocumentMatch, error) {
	return m.Next(ctx)
}

func (m *multiSearcherList) Count() uint64 {
	var rv uint64
	for _, s := range m.searchers {
		rv += s.Count()
	}
	return rv
}

func (m *multiSearcherList) Min() int { return 0 }

func (m *multiSearcherList) DocumentMatchPoolSize() int {
	var rv int
	for _, s := range m.searchers {
		if ps := s.DocumentMatchPoolSize(); ps > rv {
			rv = ps
		}
	}
	return rv
}

func (m *multiSearcherList) Close() (err error) {
	for _, s := range m.searchers {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// MultiSearch runs req against every reader and merges their matches
// through a single run of req's Collector, spec §5's fan-out search over
// more than one index segmentation.
//
// Grounded on bluge/multisearch.go's MultiSearch.
func MultiSearch(ctx context.Context, req SearchRequest, readers ...*Reader) (search.DocumentMatchIterator, error) {
	coll := req.Collector()

	searchers := make([]search.Searcher, 0, len(readers))
	for _, reader := range readers {
		searcher, err := req.Searcher(reader.snapshot, reader.config)
		if err != nil {
			for _, opened := range searchers {
				_ = opened.Close()
			}
			return nil, fmt.Errorf("kelp: building searcher: %w", err)
		}
		searchers = append(searchers, searcher)
	}

	dmItr, err := coll.Collect(ctx, req.Aggregations(), newMultiSearcherList(searchers))
	if err != nil {
		return nil, fmt.Errorf("kelp: collecting matches: %w", err)
	}
	return dmItr, nil
}
