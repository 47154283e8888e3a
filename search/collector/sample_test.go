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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelpsearch/kelp/search"
)

func TestSampleCollectorReturnsExactlyNHits(t *testing.T) {
	s := newFakeSearcher(1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0)
	c := NewSampleCollectorWithRand(NewAllCollector(), 3, rand.New(rand.NewSource(1)))

	it, err := c.Collect(context.Background(), search.Aggregations{}, s)
	require.NoError(t, err)

	got := drain(t, it)
	assert.Len(t, got, 3)
}

func TestSampleCollectorKeepsEveryHitWhenUnderCapacity(t *testing.T) {
	s := newFakeSearcher(1.0, 2.0)
	c := NewSampleCollectorWithRand(NewAllCollector(), 5, rand.New(rand.NewSource(1)))

	it, err := c.Collect(context.Background(), search.Aggregations{}, s)
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 1}, drain(t, it))
}

func TestSampleCollectorResultIsSortedByDocNumber(t *testing.T) {
	s := newFakeSearcher(1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0, 10.0)
	c := NewSampleCollectorWithRand(NewAllCollector(), 4, rand.New(rand.NewSource(42)))

	it, err := c.Collect(context.Background(), search.Aggregations{}, s)
	require.NoError(t, err)

	got := drain(t, it)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}
