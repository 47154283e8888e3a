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
	porterstemmer "github.com/blevesearch/go-porterstemmer"

	"github.com/kelpsearch/kelp/analysis"
)

// PorterStemmerFilter reduces English tokens to their Porter stem, an
// alternative to the Snowball-based stemmer for callers that want the
// original Porter algorithm's (slightly more aggressive) reductions.
type PorterStemmerFilter struct{}

func NewPorterStemmerFilter() *PorterStemmerFilter {
	return &PorterStemmerFilter{}
}

func (s *PorterStemmerFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	for _, token := range input {
		if !token.KeyWord {
			stemmed := porterstemmer.StemWithoutLowerCasing([]rune(string(token.Term)))
			token.Term = []byte(string(stemmed))
		}
	}
	return input
}
