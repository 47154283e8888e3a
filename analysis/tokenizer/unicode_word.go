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

package tokenizer

import (
	"bytes"

	"github.com/blevesearch/segment"

	"github.com/kelpsearch/kelp/analysis"
)

// UnicodeWordTokenizer splits on Unicode word boundaries (UAX #29), the
// default tokenizer for this module's stock analyzers. It classifies each
// token by the segmenter's word-type so downstream filters (ngram, stemmer)
// can skip ideographic or numeric runs.
type UnicodeWordTokenizer struct{}

func NewUnicodeWordTokenizer() *UnicodeWordTokenizer {
	return &UnicodeWordTokenizer{}
}

func (t *UnicodeWordTokenizer) Tokenize(input []byte) analysis.TokenStream {
	rv := make(analysis.TokenStream, 0)

	seg := segment.NewWordSegmenter(bytes.NewReader(input))
	start := 0
	position := 0
	for seg.Segment() {
		term := seg.Bytes()
		end := start + len(term)
		typ := seg.Type()
		if typ != segment.None {
			position++
			rv = append(rv, &analysis.Token{
				Term:         term,
				Start:        start,
				End:          end,
				PositionIncr: 1,
				Type:         tokenTypeFor(typ),
			})
		}
		start = end
	}

	return rv
}

func tokenTypeFor(segType int) analysis.TokenType {
	switch segType {
	case segment.Ideo, segment.Kana:
		return analysis.Ideographic
	case segment.Number:
		return analysis.Numeric
	default:
		return analysis.AlphaNumeric
	}
}
