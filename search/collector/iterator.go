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

import "github.com/kelpsearch/kelp/search"

// TopNIterator walks a TopNCollector's already-materialized, already-
// sorted result slice.
type TopNIterator struct {
	results search.DocumentMatchCollection
	bucket  *search.Bucket
	index   int
}

func (t *TopNIterator) Next() (*search.DocumentMatch, error) {
	if t.index >= len(t.results) {
		return nil, nil
	}
	rv := t.results[t.index]
	t.index++
	return rv, nil
}

func (t *TopNIterator) Aggregations() *search.Bucket { return t.bucket }

var _ search.DocumentMatchIterator = (*TopNIterator)(nil)
