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

package postings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterListRoundTrip(t *testing.T) {
	w := NewWriter()
	for i := uint64(0); i < 5; i++ {
		w.Add(RawPosting{
			DocNum: i * 3,
			Weight: float64(i) + 0.5,
			Freq:   int(i) + 1,
			Norm:   1.0,
			Length: 10,
		})
	}

	data := w.Bytes()
	list, err := NewList(data, w.DocFreq(), w.MaxWeight(), w.MaxLength())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), list.Count())

	it, err := list.Iterator(true, true, true, nil)
	require.NoError(t, err)

	var got []uint64
	for {
		p, err := it.Next()
		require.NoError(t, err)
		if p == nil {
			break
		}
		got = append(got, p.Number())
	}
	assert.Equal(t, []uint64{0, 3, 6, 9, 12}, got)
}

func TestIteratorAdvance(t *testing.T) {
	w := NewWriter()
	for i := uint64(0); i < 10; i++ {
		w.Add(RawPosting{DocNum: i * 2, Weight: 1, Freq: 1, Norm: 1, Length: 1})
	}
	list, err := NewList(w.Bytes(), w.DocFreq(), w.MaxWeight(), w.MaxLength())
	require.NoError(t, err)

	it, err := list.Iterator(false, false, false, nil)
	require.NoError(t, err)

	p, err := it.Advance(9)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, uint64(10), p.Number())
}

func TestIteratorSpansMultipleBlocks(t *testing.T) {
	w := NewWriter()
	total := MaxPostingsPerBlock + 50
	for i := 0; i < total; i++ {
		w.Add(RawPosting{DocNum: uint64(i), Weight: 1, Freq: 1, Norm: 1, Length: 1})
	}
	list, err := NewList(w.Bytes(), w.DocFreq(), w.MaxWeight(), w.MaxLength())
	require.NoError(t, err)
	assert.Equal(t, 2, len(list.ranges))

	it, err := list.Iterator(false, false, false, nil)
	require.NoError(t, err)
	count := 0
	for {
		p, err := it.Next()
		require.NoError(t, err)
		if p == nil {
			break
		}
		assert.Equal(t, uint64(count), p.Number())
		count++
	}
	assert.Equal(t, total, count)
}

func TestBlockMaxWeight(t *testing.T) {
	w := NewWriter()
	w.Add(RawPosting{DocNum: 0, Weight: 0.2, Freq: 1, Norm: 1, Length: 1})
	w.Add(RawPosting{DocNum: 1, Weight: 0.9, Freq: 1, Norm: 1, Length: 1})
	list, err := NewList(w.Bytes(), w.DocFreq(), w.MaxWeight(), w.MaxLength())
	require.NoError(t, err)

	it, err := list.Iterator(true, false, false, nil)
	require.NoError(t, err)
	_, err = it.Next()
	require.NoError(t, err)

	maxWeight, ok := it.(*Iterator).BlockMaxWeight()
	require.True(t, ok)
	assert.InDelta(t, 0.9, maxWeight, 0.0001)
}
