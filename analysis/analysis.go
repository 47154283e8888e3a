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

// Package analysis defines the analyzer input/output contract: text in,
// token stream out. Per spec §1/§6 the analysis itself (stemmers,
// stopword lists, language rules) is a pluggable external collaborator;
// this package specifies only the shape both sides agree on, plus the
// handful of generic token filters/tokenizers carried over from the
// teacher's analysis package for usability and testing.
package analysis

import (
	"fmt"
	"unicode/utf8"
)

// CharFilter preprocesses raw field bytes before tokenization (e.g.
// stripping HTML markup).
type CharFilter interface {
	Filter([]byte) []byte
}

// TokenType classifies a Token for filters that branch on kind.
type TokenType int

const (
	AlphaNumeric TokenType = iota
	Ideographic
	Numeric
	DateTime
	Shingle
	Single
	Double
	Boolean
)

// Token represents one occurrence of a term at a particular location in a field.
type Token struct {
	// Start and End are the byte offsets of the term in the field.
	Start int
	End   int
	Term  []byte

	// PositionIncr is this token's position relative to the previous one.
	PositionIncr int
	Type         TokenType
	KeyWord      bool
}

func (t *Token) String() string {
	return fmt.Sprintf("Start: %d End: %d PositionIncr: %d Term: %s Type: %d",
		t.Start, t.End, t.PositionIncr, string(t.Term), t.Type)
}

// TokenStream is the ordered output of a Tokenizer, as refined by TokenFilters.
type TokenStream []*Token

// Tokenizer splits raw input bytes into a TokenStream.
type Tokenizer interface {
	Tokenize([]byte) TokenStream
}

// TokenFilter adds, transforms or removes tokens from a TokenStream.
type TokenFilter interface {
	Filter(TokenStream) TokenStream
}

// Analyzer is a full text => tokens pipeline: zero or more CharFilters,
// one Tokenizer, then zero or more TokenFilters. This is the whole of the
// analyzer contract spec §6 asks the core to specify; concrete language
// analyzers are external collaborators.
type Analyzer struct {
	CharFilters  []CharFilter
	Tokenizer    Tokenizer
	TokenFilters []TokenFilter
}

// Analyze runs the pipeline over input, returning the final token stream.
func (a *Analyzer) Analyze(input []byte) TokenStream {
	if a == nil || a.Tokenizer == nil {
		return nil
	}
	for _, cf := range a.CharFilters {
		input = cf.Filter(input)
	}
	tokens := a.Tokenizer.Tokenize(input)
	for _, tf := range a.TokenFilters {
		tokens = tf.Filter(tokens)
	}
	return tokens
}

// TokenMap is a set of terms, used by filters that test membership (stop
// word lists, elision articles, compound-word dictionaries).
type TokenMap map[string]bool

// NewTokenMap builds a TokenMap from a list of terms.
func NewTokenMap(terms ...string) TokenMap {
	rv := make(TokenMap, len(terms))
	for _, term := range terms {
		rv[term] = true
	}
	return rv
}

// BuildTermFromRunes joins runes into a term, the inverse of bytes.Runes,
// used by filters (ngram, compound decomposition) that slice a token's
// rune sequence and need to rebuild a []byte term from a subrange.
func BuildTermFromRunes(runes []rune) []byte {
	buf := make([]byte, 0, len(runes)*utf8.UTFMax)
	var tmp [utf8.UTFMax]byte
	for _, r := range runes {
		n := utf8.EncodeRune(tmp[:], r)
		buf = append(buf, tmp[:n]...)
	}
	return buf
}
