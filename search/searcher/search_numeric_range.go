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
	"bytes"
	"math"

	"github.com/kelpsearch/kelp/numeric"
	"github.com/kelpsearch/kelp/search"
)

type filterFunc func(term []byte) bool

// NewNumericRangeSearcher builds spec §6's NumericRange query: split
// [min, max] into the multi-precision shifted ranges the numeric trie
// encoding (numeric.ShiftPrefixCodedInt64) produces, keep only the
// prefix-coded terms actually present in the dictionary, then OR them.
//
// Grounded on search/searcher/search_numeric_range.go, using this
// module's numeric package (numeric/numeric.go) for the shift/prefix
// codec instead of bluge's numeric package.
func NewNumericRangeSearcher(indexReader search.Reader, min, max float64, inclusiveMin, inclusiveMax bool,
	field string, boost float64, scorer search.Scorer, compScorer search.CompositeScorer,
	options search.SearcherOptions) (search.Searcher, error) {
	var minInt64 int64
	if math.IsInf(min, -1) {
		minInt64 = math.MinInt64
	} else {
		minInt64 = numeric.Float64ToInt64(min)
	}
	var maxInt64 int64
	if math.IsInf(max, 1) {
		maxInt64 = math.MaxInt64
	} else {
		maxInt64 = numeric.Float64ToInt64(max)
	}

	if !inclusiveMin && minInt64 != math.MaxInt64 {
		minInt64++
	}
	if !inclusiveMax && maxInt64 != math.MinInt64 {
		maxInt64--
	}

	fieldDict, err := indexReader.DictionaryLookup(field)
	if err != nil {
		return nil, err
	}
	defer fieldDict.Close()

	isIndexed := func(term []byte) bool {
		found, ferr := fieldDict.Contains(term)
		return ferr == nil && found
	}

	ranges := splitInt64Range(minInt64, maxInt64, 4)
	terms := ranges.enumerate(isIndexed)

	return NewMultiTermSearcherBytes(indexReader, terms, field, boost, scorer, compScorer, options)
}

type termRange struct {
	startTerm []byte
	endTerm   []byte
}

func (t *termRange) enumerate(filter filterFunc) [][]byte {
	var rv [][]byte
	next := t.startTerm
	for bytes.Compare(next, t.endTerm) <= 0 {
		if filter == nil || filter(next) {
			rv = append(rv, next)
		}
		next = incrementBytes(next)
	}
	return rv
}

type termRanges []*termRange

func (tr termRanges) enumerate(filter filterFunc) [][]byte {
	var rv [][]byte
	for _, r := range tr {
		rv = append(rv, r.enumerate(filter)...)
	}
	return rv
}

// splitInt64Range decomposes [minBound, maxBound] into the minimal set
// of shifted trie ranges at precisionStep-bit granularity (spec §4.7's
// companion multi-precision numeric indexing, see numeric package).
func splitInt64Range(minBound, maxBound int64, precisionStep uint) termRanges {
	var rv termRanges
	if minBound > maxBound {
		return rv
	}

	for shift := uint(0); ; shift += precisionStep {
		diff := int64(1) << (shift + precisionStep)
		mask := ((int64(1) << precisionStep) - 1) << shift
		hasLower := (minBound & mask) != 0
		hasUpper := (maxBound & mask) != mask

		var nextMinBound, nextMaxBound int64
		if hasLower {
			nextMinBound = (minBound + diff) &^ mask
		} else {
			nextMinBound = minBound &^ mask
		}
		if hasUpper {
			nextMaxBound = (maxBound - diff) &^ mask
		} else {
			nextMaxBound = maxBound &^ mask
		}

		lowerWrapped := nextMinBound < minBound
		upperWrapped := nextMaxBound > maxBound

		if shift+precisionStep >= 64 || nextMinBound > nextMaxBound || lowerWrapped || upperWrapped {
			rv = append(rv, newTermRange(minBound, maxBound, shift))
			break
		}

		if hasLower {
			rv = append(rv, newTermRange(minBound, minBound|mask, shift))
		}
		if hasUpper {
			rv = append(rv, newTermRange(maxBound&^mask, maxBound, shift))
		}

		minBound = nextMinBound
		maxBound = nextMaxBound
	}

	return rv
}

func newTermRange(minBound, maxBound int64, shift uint) *termRange {
	maxBound |= (int64(1) << shift) - 1
	return &termRange{
		startTerm: numeric.MustNewPrefixCodedInt64(minBound, shift),
		endTerm:   numeric.MustNewPrefixCodedInt64(maxBound, shift),
	}
}
