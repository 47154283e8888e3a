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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/search/similarity"
)

func locs(field string, terms ...[2]interface{}) []search.FieldTermLocation {
	var out []search.FieldTermLocation
	for _, tp := range terms {
		out = append(out, search.FieldTermLocation{
			Field: field,
			Term:  tp[0].(string),
			Location: search.Location{
				Pos: tp[1].(int),
			},
		})
	}
	return out
}

func TestSpanNearOrderedRequiresAThenB(t *testing.T) {
	near := SpanNear(SpanTerm("f", "a"), SpanTerm("f", "b"), 1, 0, true)
	data := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 1})
	assert.NotEmpty(t, near.Spans(data))

	reversed := locs("f", [2]interface{}{"b", 0}, [2]interface{}{"a", 1})
	assert.Empty(t, near.Spans(reversed))
}

func TestSpanNearUnorderedAcceptsEitherOrder(t *testing.T) {
	near := SpanNear(SpanTerm("f", "a"), SpanTerm("f", "b"), 1, 0, false)
	data := locs("f", [2]interface{}{"b", 0}, [2]interface{}{"a", 1})
	assert.NotEmpty(t, near.Spans(data))
}

func TestSpanNearRespectsSlopAndMindist(t *testing.T) {
	data := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 4})
	tooFar := SpanNear(SpanTerm("f", "a"), SpanTerm("f", "b"), 2, 0, true)
	assert.Empty(t, tooFar.Spans(data))

	wideEnough := SpanNear(SpanTerm("f", "a"), SpanTerm("f", "b"), 3, 0, true)
	assert.NotEmpty(t, wideEnough.Spans(data))

	tooClose := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 1})
	needsGap := SpanNear(SpanTerm("f", "a"), SpanTerm("f", "b"), 5, 2, true)
	assert.Empty(t, needsGap.Spans(tooClose))
}

func TestSpanOrMergesOverlappingSpans(t *testing.T) {
	or := SpanOr(SpanTerm("f", "a"), SpanTerm("f", "b"))
	data := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 5})
	spans := or.Spans(data)
	assert.Equal(t, []Span{{Start: 0, End: 0}, {Start: 5, End: 5}}, spans)

	adjacent := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 1})
	assert.Equal(t, []Span{{Start: 0, End: 1}}, or.Spans(adjacent))
}

func TestSpanNotExcludesOverlapping(t *testing.T) {
	not := SpanNot(SpanTerm("f", "a"), SpanTerm("f", "b"))
	overlapping := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 0})
	assert.Empty(t, not.Spans(overlapping))

	clear := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 5})
	assert.NotEmpty(t, not.Spans(clear))
}

func TestSpanContainsRequiresFullEnclosure(t *testing.T) {
	near := SpanNear(SpanTerm("f", "a"), SpanTerm("f", "c"), 5, 0, true) // spans [0,2]
	contains := SpanContains(near, SpanTerm("f", "b"))
	data := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 1}, [2]interface{}{"c", 2})
	assert.NotEmpty(t, contains.Spans(data))

	outside := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 9}, [2]interface{}{"c", 2})
	assert.Empty(t, contains.Spans(outside))
}

func TestSpanBeforeRequiresStrictOrdering(t *testing.T) {
	before := SpanBefore(SpanTerm("f", "a"), SpanTerm("f", "b"))
	data := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 1})
	assert.NotEmpty(t, before.Spans(data))

	reversed := locs("f", [2]interface{}{"b", 0}, [2]interface{}{"a", 1})
	assert.Empty(t, before.Spans(reversed))
}

func TestSpanConditionGatesOnConditionPresence(t *testing.T) {
	cond := SpanCondition(SpanTerm("f", "a"), SpanTerm("f", "b"))
	withCondition := locs("f", [2]interface{}{"a", 0}, [2]interface{}{"b", 5})
	assert.NotEmpty(t, cond.Spans(withCondition))

	withoutCondition := locs("f", [2]interface{}{"a", 0})
	assert.Empty(t, cond.Spans(withoutCondition))
}

func TestSpanSearcherMatchesDocumentsWithASpan(t *testing.T) {
	r := openTestReader(t,
		doc(textField("content", "alpha", "bravo", "charlie")), // 0: adjacent
		doc(textField("content", "alpha", "charlie", "bravo")), // 1: wrong order
	)

	root := SpanNear(SpanTerm("content", "bravo"), SpanTerm("content", "charlie"), 0, 0, true)
	s, err := NewSpanSearcher(r, root, 1.0, similarity.NewCompositeSumScorer(), defaultOptions())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []uint64{0}, docNumbers(t, newCtx(), s))
}
