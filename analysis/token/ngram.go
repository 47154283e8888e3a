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

package token

import (
	"bytes"
	"unicode/utf8"

	"github.com/kelpsearch/kelp/analysis"
)

// NgramFilter expands each token into all substrings of length between
// minLength and maxLength, used for edge-case partial-term matching.
type NgramFilter struct {
	minLength int
	maxLength int
}

func NewNgramFilter(minLength, maxLength int) *NgramFilter {
	return &NgramFilter{
		minLength: minLength,
		maxLength: maxLength,
	}
}

func (s *NgramFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	rv := make(analysis.TokenStream, 0, len(input))

	for _, token := range input {
		first := true
		runeCount := utf8.RuneCount(token.Term)
		runes := bytes.Runes(token.Term)
		for i := 0; i < runeCount; i++ {
			for ngramSize := s.minLength; ngramSize <= s.maxLength; ngramSize++ {
				if i+ngramSize <= runeCount {
					ngramTerm := analysis.BuildTermFromRunes(runes[i : i+ngramSize])
					tok := analysis.Token{
						PositionIncr: 0,
						Start:        token.Start,
						End:          token.End,
						Type:         token.Type,
						Term:         ngramTerm,
					}
					if first {
						tok.PositionIncr = 1
						first = false
					}
					rv = append(rv, &tok)
				}
			}
		}
	}

	return rv
}
