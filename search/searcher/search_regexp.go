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
	"regexp/syntax"

	"github.com/blevesearch/vellum/regexp"

	"github.com/kelpsearch/kelp/search"
)

// NewRegexpSearcher builds spec §6's Regex(field, pattern) query: compile
// pattern into a DFA usable as a segment.Automaton, extract any literal
// prefix to bound the dictionary scan, enumerate matching terms, then OR
// them.
//
// Grounded on search/searcher/search_regexp.go. blevesearch/vellum's
// regexp subpackage is already a go.mod dependency (pulled in
// transitively for the levenshtein subpackage used by automata); its
// defining source wasn't itself retrieved into the pack, only its
// compiled-DFA public API, confirmed via this call site (see DESIGN.md).
func NewRegexpSearcher(indexReader search.Reader, pattern, field string,
	boost float64, scorer search.Scorer, compScorer search.CompositeScorer,
	options search.SearcherOptions) (search.Searcher, error) {
	a, prefixBeg, prefixEnd, err := parseRegexp(pattern)
	if err != nil {
		return nil, err
	}

	fieldDict, err := indexReader.DictionaryIterator(field, a, prefixBeg, prefixEnd)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := fieldDict.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var candidateTerms [][]byte
	tfd, err := fieldDict.Next()
	for err == nil && tfd != nil {
		candidateTerms = append(candidateTerms, []byte(tfd.Term()))
		tfd, err = fieldDict.Next()
	}
	if err != nil {
		return nil, err
	}

	if len(candidateTerms) == 0 {
		return NewMatchNoneSearcher()
	}

	return NewMultiTermSearcherBytes(indexReader, candidateTerms, field, boost, scorer, compScorer, options)
}

func parseRegexp(pattern string) (a *regexp.Regexp, prefixBeg, prefixEnd []byte, err error) {
	parsed, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, nil, nil, err
	}

	re, err := regexp.NewParsedWithLimit(pattern, parsed, regexp.DefaultLimit)
	if err != nil {
		return nil, nil, nil, err
	}

	if prefix := literalPrefix(parsed); prefix != "" {
		prefixBeg = []byte(prefix)
		prefixEnd = incrementBytes(prefixBeg)
		return re, prefixBeg, prefixEnd, nil
	}

	return re, nil, nil, nil
}

// literalPrefix returns the literal prefix of the parse tree's
// left-most concatenation branch, or "" if it has none.
func literalPrefix(s *syntax.Regexp) string {
	for s != nil && s.Op == syntax.OpConcat {
		if len(s.Sub) < 1 {
			return ""
		}
		s = s.Sub[0]
	}

	if s.Op == syntax.OpLiteral && (s.Flags&syntax.FoldCase == 0) {
		return string(s.Rune)
	}
	return ""
}
