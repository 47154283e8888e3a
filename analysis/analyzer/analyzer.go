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

// Package analyzer assembles the token/tokenizer building blocks into a
// handful of ready-to-use analyzers, for callers that don't want to wire
// their own pipeline. These exist for usability and testing, not because
// the core engine depends on any particular analysis policy (see spec's
// analysis non-goal).
package analyzer

import (
	"github.com/kelpsearch/kelp/analysis"
	"github.com/kelpsearch/kelp/analysis/token"
	"github.com/kelpsearch/kelp/analysis/tokenizer"
)

// NewStandardAnalyzer builds the default analyzer: Unicode word boundaries,
// lowercased, with common English stop words removed.
func NewStandardAnalyzer() *analysis.Analyzer {
	return &analysis.Analyzer{
		Tokenizer: tokenizer.NewUnicodeWordTokenizer(),
		TokenFilters: []analysis.TokenFilter{
			token.NewLowerCaseFilter(),
			token.NewStopTokensFilter(EnglishStopWords()),
		},
	}
}

// NewKeywordAnalyzer builds an analyzer that treats its entire input as one
// token, for fields that must match exactly (identifiers, enum values).
func NewKeywordAnalyzer() *analysis.Analyzer {
	return &analysis.Analyzer{
		Tokenizer: tokenizer.NewSingleTokenTokenizer(),
	}
}

// NewSimpleAnalyzer builds an analyzer that splits on Unicode word
// boundaries and lowercases, without stop-word removal or stemming.
func NewSimpleAnalyzer() *analysis.Analyzer {
	return &analysis.Analyzer{
		Tokenizer: tokenizer.NewUnicodeWordTokenizer(),
		TokenFilters: []analysis.TokenFilter{
			token.NewLowerCaseFilter(),
		},
	}
}

// NewStandardStemmedAnalyzer builds the standard analyzer plus an English
// possessive strip and Snowball stemming, for full-text prose fields.
func NewStandardStemmedAnalyzer() *analysis.Analyzer {
	return &analysis.Analyzer{
		Tokenizer: tokenizer.NewUnicodeWordTokenizer(),
		TokenFilters: []analysis.TokenFilter{
			token.NewLowerCaseFilter(),
			token.NewPossessiveFilterEn(),
			token.NewStopTokensFilter(EnglishStopWords()),
			token.NewSnowballStemmerFilter(),
		},
	}
}

// EnglishStopWords returns the small, standard English stop-word set used
// by NewStandardAnalyzer and NewStandardStemmedAnalyzer.
func EnglishStopWords() analysis.TokenMap {
	return analysis.NewTokenMap(
		"a", "an", "and", "are", "as", "at", "be", "but", "by",
		"for", "if", "in", "into", "is", "it",
		"no", "not", "of", "on", "or", "such",
		"that", "the", "their", "then", "there", "these",
		"they", "this", "to", "was", "will", "with",
	)
}
