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
	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/english"

	"github.com/kelpsearch/kelp/analysis"
)

// SnowballStemmerFilter reduces tokens to their stem using the Snowball
// English algorithm, the default stemmer for this module's stock English
// analyzer.
type SnowballStemmerFilter struct{}

func NewSnowballStemmerFilter() *SnowballStemmerFilter {
	return &SnowballStemmerFilter{}
}

func (s *SnowballStemmerFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	for _, token := range input {
		if !token.KeyWord {
			env := snowballstem.NewEnv(string(token.Term))
			english.Stem(env)
			token.Term = []byte(env.Current())
		}
	}
	return input
}
